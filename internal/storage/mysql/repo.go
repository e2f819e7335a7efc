package mysql

import (
	"context"
	"database/sql"
	"strings"

	"tp_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createReviewsSQL)
	return err
}

// UpsertReviews writes one multi-row statement keyed on review_id. The
// statement is its own transaction; callers batching input get per-batch
// durability, not all-or-nothing across batches.
func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*12)
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ID,
			valStr(rv.ReviewerName),
			valStr(rv.Title),
			valInt(rv.Rating),
			valStr(rv.Content),
			valStr(rv.ReviewerIP),
			valStr(rv.BusinessID),
			valStr(rv.BusinessName),
			valStr(rv.ReviewerID),
			valStr(rv.Email),
			valStr(rv.ReviewerCountry),
			rv.Date,
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) CountReviews(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, countReviewsSQL).Scan(&n)
	return n, err
}

func (r *Repo) StreamByBusiness(ctx context.Context, businessID string) (domain.ReviewIterator, error) {
	rows, err := r.db.QueryContext(ctx, streamByBusinessSQL, businessID)
	if err != nil {
		return nil, err
	}
	return &reviewRows{rows: rows}, nil
}

func (r *Repo) StreamByReviewer(ctx context.Context, reviewerID string) (domain.ReviewIterator, error) {
	rows, err := r.db.QueryContext(ctx, streamByReviewerSQL, reviewerID)
	if err != nil {
		return nil, err
	}
	return &reviewRows{rows: rows}, nil
}

func (r *Repo) HasReviewer(ctx context.Context, reviewerID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, hasReviewerSQL, reviewerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) GetAccount(ctx context.Context, reviewerID string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx, getAccountSQL, reviewerID)

	var acc domain.Account
	var name, email, country sql.NullString
	if err := row.Scan(&acc.ReviewerID, &name, &email, &country); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	if name.Valid {
		s := name.String
		acc.ReviewerName = &s
	}
	if email.Valid {
		s := email.String
		acc.Email = &s
	}
	if country.Valid {
		s := country.String
		acc.ReviewerCountry = &s
	}
	return acc, nil
}

// reviewRows adapts *sql.Rows to domain.ReviewIterator. The wrapped rows
// keep their connection until Close; scan errors surface through Err.
type reviewRows struct {
	rows    *sql.Rows
	current domain.Review
	scanErr error
}

func (it *reviewRows) Next() bool {
	if it.scanErr != nil {
		return false
	}
	if !it.rows.Next() {
		return false
	}
	var (
		rv                       domain.Review
		name, title, content, ip sql.NullString
		bizID, bizName, reviewer sql.NullString
		email, country           sql.NullString
		rating                   sql.NullInt64
		date                     sql.NullTime
	)
	if err := it.rows.Scan(
		&rv.ID,
		&name,
		&title,
		&rating,
		&content,
		&ip,
		&bizID,
		&bizName,
		&reviewer,
		&email,
		&country,
		&date,
	); err != nil {
		it.scanErr = err
		return false
	}
	if name.Valid {
		s := name.String
		rv.ReviewerName = &s
	}
	if title.Valid {
		s := title.String
		rv.Title = &s
	}
	if rating.Valid {
		n := int(rating.Int64)
		rv.Rating = &n
	}
	if content.Valid {
		s := content.String
		rv.Content = &s
	}
	if ip.Valid {
		s := ip.String
		rv.ReviewerIP = &s
	}
	if bizID.Valid {
		s := bizID.String
		rv.BusinessID = &s
	}
	if bizName.Valid {
		s := bizName.String
		rv.BusinessName = &s
	}
	if reviewer.Valid {
		s := reviewer.String
		rv.ReviewerID = &s
	}
	if email.Valid {
		s := email.String
		rv.Email = &s
	}
	if country.Valid {
		s := country.String
		rv.ReviewerCountry = &s
	}
	if date.Valid {
		t := date.Time
		rv.Date = &t
	}
	it.current = rv
	return true
}

func (it *reviewRows) Review() domain.Review { return it.current }

func (it *reviewRows) Err() error {
	if it.scanErr != nil {
		return it.scanErr
	}
	return it.rows.Err()
}

func (it *reviewRows) Close() error { return it.rows.Close() }
