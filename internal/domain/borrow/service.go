package borrow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"borrowbee/internal/domain/catalog"
)

// BookCatalog is the narrow catalog view the lifecycle needs: existence and
// availability of the listing being requested.
type BookCatalog interface {
	Get(ctx context.Context, id int) (*catalog.BookWithRating, error)
}

type Service struct {
	repo  Repository
	books BookCatalog
}

func NewService(repo Repository, books BookCatalog) *Service {
	return &Service{repo: repo, books: books}
}

// Submit creates a borrow request against an existing, available book.
// Submission never mutates the book's availability flag: a borrow request
// does not remove the book from the catalog.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*Request, error) {
	if err := validateContact(input); err != nil {
		return nil, err
	}

	duration := DefaultDuration
	if input.BorrowDuration != nil {
		duration = *input.BorrowDuration
	}
	if duration < MinDuration || duration > MaxDuration {
		return nil, ErrInvalidDuration
	}

	book, err := s.books.Get(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	if !book.IsAvailable {
		return nil, ErrBookUnavailable
	}

	request := Request{
		BookID:              input.BookID,
		UserID:              input.UserID,
		Status:              StatusPending,
		BorrowerName:        strings.TrimSpace(input.BorrowerName),
		BorrowerEmail:       strings.TrimSpace(input.BorrowerEmail),
		BorrowerPhone:       strings.TrimSpace(input.BorrowerPhone),
		DeliveryAddress:     strings.TrimSpace(input.DeliveryAddress),
		DeliveryLatitude:    input.DeliveryLatitude,
		DeliveryLongitude:   input.DeliveryLongitude,
		SpecialInstructions: input.SpecialInstructions,
		BorrowDuration:      duration,
	}

	if err := s.repo.Create(ctx, &request); err != nil {
		return nil, err
	}

	return &request, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByRequester(ctx context.Context, userID int) ([]Request, error) {
	return s.repo.ListByRequester(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Request, error) {
	return s.repo.ListAll(ctx)
}

// SetStatus assigns any of the four enumerated states directly. No ordering
// is enforced between states — a request may jump from pending straight to
// returned. That matches the exposed contract and doubles as an operator
// override; callers that need a strict progression must enforce it themselves.
func (s *Service) SetStatus(ctx context.Context, id int, status string) (*Request, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	request.Status = Status(status)
	now := time.Now().UTC()
	switch request.Status {
	case StatusDelivered:
		request.DeliveredAt = &now
	case StatusReturned:
		request.ReturnedAt = &now
	}

	if err := s.repo.Update(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func validateContact(input SubmitInput) error {
	if input.BookID <= 0 {
		return fmt.Errorf("%w: book id is required", ErrInvalidContact)
	}
	if strings.TrimSpace(input.BorrowerName) == "" {
		return fmt.Errorf("%w: borrower name is required", ErrInvalidContact)
	}
	if strings.TrimSpace(input.BorrowerEmail) == "" {
		return fmt.Errorf("%w: borrower email is required", ErrInvalidContact)
	}
	if strings.TrimSpace(input.BorrowerPhone) == "" {
		return fmt.Errorf("%w: borrower phone is required", ErrInvalidContact)
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return fmt.Errorf("%w: delivery address is required", ErrInvalidContact)
	}
	return nil
}
