//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "tp_reviews/internal/adapters/http_server"
	"tp_reviews/internal/app"
	"tp_reviews/internal/domain"
	mysqlrepo "tp_reviews/internal/storage/mysql"
)

// ---------- helpers ----------
func pstr(s string) *string { return &s }
func pint(i int) *int       { return &i }

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=reviews",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "reviews")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ---------- the test ----------
func TestHTTP_EndToEnd_Reviews(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	when := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []domain.Review{
		{
			ID:           "1",
			ReviewerID:   pstr("456"),
			ReviewerName: pstr("Test User"),
			BusinessID:   pstr("biz1"),
			Rating:       pint(5),
			Title:        pstr("Great!"),
			Date:         &when,
		},
		{
			ID:           "2",
			ReviewerID:   pstr("789"),
			ReviewerName: pstr("Another User"),
			BusinessID:   pstr("biz2"),
			Rating:       pint(4),
			Title:        pstr("Good"),
			Date:         &when,
		},
	}
	if err := repo.UpsertReviews(ctx, seed); err != nil {
		t.Fatalf("UpsertReviews: %v", err)
	}

	q := app.NewQueryService(repo, nil, time.Minute)
	srv := httpserver.New(0)
	srv.MountHandlers(&httpserver.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	get := func(path string) (*http.Response, string) {
		res, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(res.Body)
		_ = res.Body.Close()
		return res, string(body)
	}

	// business stream contains only that business's rows
	res, body := get("/business/biz1/reviews")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("business status %d", res.StatusCode)
	}
	if !strings.HasPrefix(body, "review_id,reviewer_name,review_title,review_rating") {
		t.Fatalf("missing CSV header:\n%s", body)
	}
	if !strings.Contains(body, "Great!") || strings.Contains(body, "Good") {
		t.Fatalf("wrong rows for biz1:\n%s", body)
	}

	// unknown business: 200 header-only
	res, body = get("/business/ghost/reviews")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unknown business status %d", res.StatusCode)
	}
	if lines := strings.Split(strings.TrimSpace(body), "\n"); len(lines) != 1 {
		t.Fatalf("expected header-only, got:\n%s", body)
	}

	// user stream
	res, body = get("/user/789/reviews")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("user status %d", res.StatusCode)
	}
	if !strings.Contains(body, "2,Another User,Good,4") {
		t.Fatalf("expected review 2 row:\n%s", body)
	}

	// unknown user: 404
	res, _ = get("/user/000/reviews")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown user status %d, want 404", res.StatusCode)
	}

	// account lookup
	res, body = get("/user/456/account")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("account status %d", res.StatusCode)
	}
	var acc struct {
		ReviewerID   string  `json:"reviewer_id"`
		ReviewerName *string `json:"reviewer_name"`
	}
	if err := json.Unmarshal([]byte(body), &acc); err != nil {
		t.Fatalf("decode account: %v", err)
	}
	if acc.ReviewerID != "456" || acc.ReviewerName == nil || *acc.ReviewerName != "Test User" {
		t.Fatalf("unexpected account: %s", body)
	}
}
