package models

import "time"

// User is the authenticated identity.
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:255;not null"             json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // bcrypt hash
	Role      string    `gorm:"size:50;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer is the shopping profile of exactly one User.
type Customer struct {
	ID          uint       `gorm:"primaryKey"                 json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex"       json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FirstName   string     `gorm:"size:255"                   json:"first_name"`
	LastName    string     `gorm:"size:255"                   json:"last_name"`
	BirthDate   *time.Time `gorm:"type:date"                  json:"birth_date"`
	PhoneNumber string     `gorm:"size:32"                    json:"phone_number"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
