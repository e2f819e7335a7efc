package mysql

// Self-managed schema path (MANAGE_SCHEMA=1); otherwise the table is
// expected to exist via external migrations.
const createReviewsSQL = `
CREATE TABLE IF NOT EXISTS reviews (
  review_id        VARCHAR(64)  NOT NULL,
  reviewer_name    VARCHAR(255) NULL,
  review_title     VARCHAR(512) NULL,
  review_rating    INT          NULL,
  review_content   TEXT         NULL,
  review_ip        VARCHAR(45)  NULL,
  business_id      VARCHAR(64)  NULL,
  business_name    VARCHAR(255) NULL,
  reviewer_id      VARCHAR(64)  NULL,
  email            VARCHAR(255) NULL,
  reviewer_country VARCHAR(64)  NULL,
  review_date      DATETIME     NULL,
  PRIMARY KEY (review_id),
  KEY idx_reviews_business_id (business_id),
  KEY idx_reviews_reviewer_id (reviewer_id),
  KEY idx_reviews_review_date (review_date)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const insertReviewsPrefix = `INSERT INTO reviews
  (review_id, reviewer_name, review_title, review_rating, review_content,
   review_ip, business_id, business_name, reviewer_id, email,
   reviewer_country, review_date)
VALUES `

// Every non-key column is overwritten with the incoming value: the upsert is
// last-write-wins, never a merge of old and new rows.
const insertReviewsOnDup = ` ON DUPLICATE KEY UPDATE
  reviewer_name    = VALUES(reviewer_name),
  review_title     = VALUES(review_title),
  review_rating    = VALUES(review_rating),
  review_content   = VALUES(review_content),
  review_ip        = VALUES(review_ip),
  business_id      = VALUES(business_id),
  business_name    = VALUES(business_name),
  reviewer_id      = VALUES(reviewer_id),
  email            = VALUES(email),
  reviewer_country = VALUES(reviewer_country),
  review_date      = VALUES(review_date)
`

const selectColumns = `
  review_id, reviewer_name, review_title, review_rating, review_content,
  review_ip, business_id, business_name, reviewer_id, email,
  reviewer_country, review_date`

const streamByBusinessSQL = `SELECT` + selectColumns + `
FROM reviews
WHERE business_id = ?`

const streamByReviewerSQL = `SELECT` + selectColumns + `
FROM reviews
WHERE reviewer_id = ?`

const hasReviewerSQL = `SELECT 1 FROM reviews WHERE reviewer_id = ? LIMIT 1`

const getAccountSQL = `
SELECT reviewer_id, reviewer_name, email, reviewer_country
FROM reviews
WHERE reviewer_id = ?
LIMIT 1`

const countReviewsSQL = `SELECT COUNT(*) FROM reviews`
