package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"borrowbee/pkg/logger"
)

const DefaultPageSize = 12

// Options configures catalog behavior that varies by deployment. The expiry
// sweep flips stale listings to unavailable before reads; it only runs when
// enabled.
type Options struct {
	PageSize      int
	ExpiryEnabled bool
	ActiveWindow  time.Duration
}

type Service struct {
	repo Repository
	opts Options
	log  logger.Logger
}

func NewService(repo Repository, opts Options, log logger.Logger) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ActiveWindow <= 0 {
		opts.ActiveWindow = 30 * 24 * time.Hour
	}
	return &Service{repo: repo, opts: opts, log: log}
}

// Search runs the catalog query: case-insensitive substring match across
// title, author and description (OR-combined), exact genre filter with the
// "educational" synonym expanding to science and guide, and a minimum average
// rating threshold. Results are ordered by creation time descending, ties
// broken by id descending. Total reflects the whole filtered set.
func (s *Service) Search(ctx context.Context, input SearchInput) ([]BookWithRating, int64, error) {
	s.sweepExpired(ctx)

	filter := Filter{
		Query:     strings.TrimSpace(input.Query),
		Genres:    expandGenre(input.Genre),
		MinRating: input.MinRating,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = s.opts.PageSize
	}

	return s.repo.Search(ctx, filter)
}

// PageSize reports the page size applied when a search does not specify one.
func (s *Service) PageSize() int {
	return s.opts.PageSize
}

func (s *Service) Get(ctx context.Context, id int) (*BookWithRating, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int) ([]BookWithRating, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Create(ctx context.Context, input CreateBookInput) (*Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidBook)
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidBook)
	}
	if strings.TrimSpace(input.Genre) == "" {
		return nil, fmt.Errorf("%w: genre is required", ErrInvalidBook)
	}

	book := Book{
		Title:       strings.TrimSpace(input.Title),
		Author:      strings.TrimSpace(input.Author),
		Genre:       strings.TrimSpace(input.Genre),
		AgeGroup:    input.AgeGroup,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsAvailable: true,
		OwnerID:     input.OwnerID,
	}

	if err := s.repo.CreateBook(ctx, &book); err != nil {
		return nil, err
	}

	return &book, nil
}

func (s *Service) Update(ctx context.Context, id int, input UpdateBookInput) (*BookWithRating, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book := current.Book
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidBook)
		}
		book.Title = title
	}
	if input.Author != nil {
		author := strings.TrimSpace(*input.Author)
		if author == "" {
			return nil, fmt.Errorf("%w: author must not be empty", ErrInvalidBook)
		}
		book.Author = author
	}
	if input.Genre != nil {
		genre := strings.TrimSpace(*input.Genre)
		if genre == "" {
			return nil, fmt.Errorf("%w: genre must not be empty", ErrInvalidBook)
		}
		book.Genre = genre
	}
	if input.AgeGroup != nil {
		book.AgeGroup = input.AgeGroup
	}
	if input.Description != nil {
		book.Description = input.Description
	}
	if input.ImageURL != nil {
		book.ImageURL = input.ImageURL
	}
	if input.IsAvailable != nil {
		book.IsAvailable = *input.IsAvailable
	}

	if err := s.repo.UpdateBook(ctx, &book); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBookNotFound
	}
	return nil
}

// Rate upserts the caller's rating for a book. A second submission from the
// same account overwrites the stored value instead of creating a second row;
// the unique constraint on (book_id, user_id) is the guarantee.
func (s *Service) Rate(ctx context.Context, bookID, userID, value int) (*Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.repo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	rating := Rating{BookID: bookID, UserID: userID, Rating: value}
	if err := s.repo.UpsertRating(ctx, &rating); err != nil {
		return nil, err
	}

	return &rating, nil
}

// UserRating returns the caller's stored rating, 0 when none exists.
func (s *Service) UserRating(ctx context.Context, bookID, userID int) (int, error) {
	return s.repo.GetUserRating(ctx, bookID, userID)
}

// GetAverage returns the raw arithmetic mean of all ratings for the book and
// the rating count. The mean is 0.0 when no ratings exist, never null.
func (s *Service) GetAverage(ctx context.Context, bookID int) (float64, int64, error) {
	return s.repo.GetAverageRating(ctx, bookID)
}

// sweepExpired is the idempotent maintenance rule from the legacy flow:
// listings past the active window are flipped to unavailable before reads.
func (s *Service) sweepExpired(ctx context.Context) {
	if !s.opts.ExpiryEnabled {
		return
	}

	cutoff := time.Now().UTC().Add(-s.opts.ActiveWindow)
	expired, err := s.repo.ExpireStale(ctx, cutoff)
	if err != nil {
		s.log.InternalError("catalog: expiry sweep failed", err)
		return
	}
	if expired > 0 {
		s.log.Info("catalog: expired stale listings", "count", expired)
	}
}

// expandGenre maps the documented "educational" synonym onto its two
// underlying genre values; any other genre filters exactly.
func expandGenre(genre string) []string {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil
	}
	if strings.EqualFold(genre, "educational") {
		return []string{"science", "guide"}
	}
	return []string{genre}
}
