package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "borrowbee/internal/domain/catalog"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const annotatedSelect = "books.*, COALESCE(AVG(r.rating), 0) AS average_rating, COUNT(r.rating) AS rating_count"

func (r *PostgresRepository) annotated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("books").
		Select(annotatedSelect).
		Joins("LEFT JOIN book_ratings r ON r.book_id = books.id").
		Group("books.id")
}

// Search filters, counts and pages in one grouped query. The rating threshold
// goes into HAVING so an unrated book counts as average 0, and the total is
// taken over the same filtered set via a subquery.
func (r *PostgresRepository) Search(ctx context.Context, filter domain.Filter) ([]domain.BookWithRating, int64, error) {
	query := r.annotated(ctx)

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where(
			"books.title ILIKE ? OR books.author ILIKE ? OR books.description ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	switch len(filter.Genres) {
	case 0:
	case 1:
		query = query.Where("books.genre = ?", filter.Genres[0])
	default:
		query = query.Where("books.genre IN ?", filter.Genres)
	}
	if filter.MinRating > 0 {
		query = query.Having("COALESCE(AVG(r.rating), 0) >= ?", filter.MinRating)
	}

	var total int64
	countQuery := query.Session(&gorm.Session{}).Select("books.id")
	if err := r.db.WithContext(ctx).Table("(?) AS filtered", countQuery).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize

	var items []domain.BookWithRating
	if err := query.
		Order("books.created_at DESC, books.id DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*domain.BookWithRating, error) {
	var book domain.BookWithRating
	err := r.annotated(ctx).Where("books.id = ?", id).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int) ([]domain.BookWithRating, error) {
	var items []domain.BookWithRating
	err := r.annotated(ctx).
		Where("books.owner_id = ?", ownerID).
		Order("books.created_at DESC, books.id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateBook(ctx context.Context, book *domain.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *PostgresRepository) UpdateBook(ctx context.Context, book *domain.Book) error {
	return r.db.WithContext(ctx).
		Model(&domain.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"title":        book.Title,
			"author":       book.Author,
			"genre":        book.Genre,
			"age_group":    book.AgeGroup,
			"description":  book.Description,
			"image_url":    book.ImageURL,
			"is_available": book.IsAvailable,
		}).Error
}

func (r *PostgresRepository) DeleteBook(ctx context.Context, id int) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Book{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

// UpsertRating relies on the unique (book_id, user_id) constraint: a conflict
// overwrites the stored value in place, so two concurrent submissions from
// the same account can never produce two rows.
func (r *PostgresRepository) UpsertRating(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"rating": rating.Rating}),
		}).
		Create(rating).Error
}

func (r *PostgresRepository) GetUserRating(ctx context.Context, bookID, userID int) (int, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return rating.Rating, nil
}

func (r *PostgresRepository) GetAverageRating(ctx context.Context, bookID int) (float64, int64, error) {
	type row struct {
		Average float64 `gorm:"column:average_rating"`
		Count   int64   `gorm:"column:rating_count"`
	}

	var result row
	err := r.db.WithContext(ctx).
		Model(&domain.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(rating) AS rating_count").
		Where("book_id = ?", bookID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Average, result.Count, nil
}

func (r *PostgresRepository) ExpireStale(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Book{}).
		Where("is_available = TRUE AND created_at < ?", cutoff).
		Update("is_available", false)
	return result.RowsAffected, result.Error
}
