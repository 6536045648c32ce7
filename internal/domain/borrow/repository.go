package borrow

import "context"

type Repository interface {
	Create(ctx context.Context, request *Request) error
	GetByID(ctx context.Context, id int) (*Request, error)
	ListByRequester(ctx context.Context, userID int) ([]Request, error)
	ListAll(ctx context.Context) ([]Request, error)
	Update(ctx context.Context, request *Request) error
}
