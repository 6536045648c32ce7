package borrow

import "time"

// Status is one of the four request states. The set is enumerated but the
// service does not enforce ordering between them; see SetStatus.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDelivered Status = "delivered"
	StatusReturned  Status = "returned"
)

func ValidStatus(value string) bool {
	switch Status(value) {
	case StatusPending, StatusApproved, StatusDelivered, StatusReturned:
		return true
	}
	return false
}

const (
	DefaultDuration = 14
	MinDuration     = 1
	MaxDuration     = 30
)

// Request records one account's interest in borrowing one book. Borrower
// contact fields are denormalized copies taken at submission time and need
// not match the account the request belongs to.
type Request struct {
	ID                  int        `gorm:"primaryKey"`
	BookID              int        `gorm:"not null;index"`
	UserID              int        `gorm:"not null;index"`
	Status              Status     `gorm:"type:text;default:pending"`
	BorrowerName        string     `gorm:"not null"`
	BorrowerEmail       string     `gorm:"not null"`
	BorrowerPhone       string     `gorm:"not null"`
	DeliveryAddress     string     `gorm:"not null"`
	DeliveryLatitude    *float64   `gorm:"type:numeric(10,7)"`
	DeliveryLongitude   *float64   `gorm:"type:numeric(10,7)"`
	SpecialInstructions *string
	BorrowDuration      int        `gorm:"not null;default:14"`
	RequestedAt         time.Time  `gorm:"autoCreateTime"`
	DeliveredAt         *time.Time
	ReturnedAt          *time.Time
}

func (Request) TableName() string { return "book_requests" }

type SubmitInput struct {
	BookID              int
	UserID              int
	BorrowerName        string
	BorrowerEmail       string
	BorrowerPhone       string
	DeliveryAddress     string
	DeliveryLatitude    *float64
	DeliveryLongitude   *float64
	SpecialInstructions *string
	BorrowDuration      *int
}
