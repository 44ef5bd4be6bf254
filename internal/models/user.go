package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "Student"
	RoleTeacher UserRole = "Teacher"
	RoleAdmin   UserRole = "Admin"
)

type CardType string

const (
	CardVisa       CardType = "visa"
	CardMastercard CardType = "mastercard"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"not null;size:100;index"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password string   `json:"-" gorm:"not null;size:255"`
	Profile  string   `json:"profile" gorm:"size:100"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index"`
	Avatar   *string  `json:"avatar" gorm:"size:500"`

	// Teacher profile
	Bio      *string `json:"bio,omitempty" gorm:"type:text"`
	BlueMark bool    `json:"bluemark" gorm:"default:false"`

	// Embedded wallet. Balance is kept in minor units; the card number is the
	// secondary lookup key used by transfers.
	CardType    CardType `json:"type" gorm:"size:20;default:visa"`
	CardNumber  string   `json:"cardNumber" gorm:"size:19;index"`
	CVV         string   `json:"-" gorm:"size:4"`
	Balance     int64    `json:"amount" gorm:"not null;default:0"`
	ExpiredDate string   `json:"expired_data" gorm:"size:10"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// PublicUser is the author/owner view embedded in catalog responses. It
// carries no credential or wallet fields.
type PublicUser struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	Profile  string   `json:"profile"`
	Role     UserRole `json:"role"`
	Avatar   *string  `json:"avatar"`
	Bio      *string  `json:"bio,omitempty"`
	BlueMark bool     `json:"bluemark"`
}

func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Profile:  u.Profile,
		Role:     u.Role,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
		BlueMark: u.BlueMark,
	}
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
