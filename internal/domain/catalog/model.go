package catalog

import "time"

// Book is one lendable book instance owned by an account.
type Book struct {
	ID          int       `gorm:"primaryKey"`
	Title       string    `gorm:"not null"`
	Author      string    `gorm:"not null"`
	Genre       string    `gorm:"not null"`
	AgeGroup    *string
	Description *string
	ImageURL    *string   `gorm:"column:image_url"`
	IsAvailable bool      `gorm:"not null;default:true"`
	OwnerID     int       `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Rating is one account's 1-5 evaluation of one book. The unique constraint
// on (book_id, user_id) makes the upsert single-row under concurrency.
type Rating struct {
	ID        int       `gorm:"primaryKey"`
	BookID    int       `gorm:"not null;uniqueIndex:uq_book_ratings_book_user"`
	UserID    int       `gorm:"not null;uniqueIndex:uq_book_ratings_book_user"`
	Rating    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Rating) TableName() string { return "book_ratings" }

// BookWithRating annotates a book with its derived aggregate fields.
// AverageRating is the raw arithmetic mean (0 when unrated); rounding happens
// at the presentation boundary.
type BookWithRating struct {
	Book          `gorm:"embedded"`
	AverageRating float64 `gorm:"column:average_rating"`
	RatingCount   int64   `gorm:"column:rating_count"`
}

// Filter is the repository-level search filter. Genres holds the already
// expanded genre values; Page is 1-indexed.
type Filter struct {
	Query     string
	Genres    []string
	MinRating float64
	Page      int
	PageSize  int
}

// SearchInput is the caller-facing search request, before genre expansion and
// page normalization.
type SearchInput struct {
	Query     string
	Genre     string
	MinRating float64
	Page      int
	PageSize  int
}

type CreateBookInput struct {
	Title       string
	Author      string
	Genre       string
	AgeGroup    *string
	Description *string
	ImageURL    *string
	OwnerID     int
}

type UpdateBookInput struct {
	Title       *string
	Author      *string
	Genre       *string
	AgeGroup    *string
	Description *string
	ImageURL    *string
	IsAvailable *bool
}
