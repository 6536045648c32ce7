package catalog

import (
	"context"
	"time"
)

type Repository interface {
	Search(ctx context.Context, filter Filter) ([]BookWithRating, int64, error)
	GetByID(ctx context.Context, id int) (*BookWithRating, error)
	ListByOwner(ctx context.Context, ownerID int) ([]BookWithRating, error)
	CreateBook(ctx context.Context, book *Book) error
	UpdateBook(ctx context.Context, book *Book) error
	DeleteBook(ctx context.Context, id int) (bool, error)
	UpsertRating(ctx context.Context, rating *Rating) error
	GetUserRating(ctx context.Context, bookID, userID int) (int, error)
	GetAverageRating(ctx context.Context, bookID int) (float64, int64, error)
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}
