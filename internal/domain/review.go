package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by read paths when no row matches the key.
var ErrNotFound = errors.New("not found")

type Review struct {
	ID              string // review_id, primary key
	ReviewerName    *string
	Title           *string
	Rating          *int
	Content         *string
	ReviewerIP      *string
	BusinessID      *string
	BusinessName    *string
	ReviewerID      *string
	Email           *string
	ReviewerCountry *string
	Date            *time.Time
}

// Account is the public slice of a reviewer's first review row.
type Account struct {
	ReviewerID      string  `json:"reviewer_id"`
	ReviewerName    *string `json:"reviewer_name"`
	Email           *string `json:"email"`
	ReviewerCountry *string `json:"reviewer_country"`
}
