package borrow

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "borrowbee/internal/domain/borrow"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, request *domain.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (*domain.Request, error) {
	var request domain.Request
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *PostgresRepository) ListByRequester(ctx context.Context, userID int) ([]domain.Request, error) {
	var requests []domain.Request
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("requested_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]domain.Request, error) {
	var requests []domain.Request
	err := r.db.WithContext(ctx).
		Order("requested_at DESC, id DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *PostgresRepository) Update(ctx context.Context, request *domain.Request) error {
	return r.db.WithContext(ctx).
		Model(&domain.Request{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"status":       request.Status,
			"delivered_at": request.DeliveredAt,
			"returned_at":  request.ReturnedAt,
		}).Error
}
