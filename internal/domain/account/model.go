package account

import "time"

// User is a registered person. PasswordHash holds the bcrypt digest of the
// credential and must never leave the service layer.
type User struct {
	ID             int       `gorm:"primaryKey"`
	Email          string    `gorm:"uniqueIndex;not null"`
	PasswordHash   string    `gorm:"column:password;not null"`
	Name           string    `gorm:"not null"`
	UserType       string    `gorm:"not null"`
	ProfilePicture *string
	Phone          *string
	Address        *string
	Latitude       *float64  `gorm:"type:numeric(10,7)"`
	Longitude      *float64  `gorm:"type:numeric(10,7)"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	UserType       string
	ProfilePicture *string
}

// UpdateProfileInput carries the mutable profile fields. Email and credential
// are immutable through this path.
type UpdateProfileInput struct {
	Name      *string
	Phone     *string
	Address   *string
	Latitude  *float64
	Longitude *float64
}
