package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a practitioner account. Passwords are stored as argon2id hashes;
// FailedAttempts and LockedUntil back the login lockout.
type User struct {
	gorm.Model
	Name           string `json:"name" gorm:"not null"`
	Email          string `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password       string `json:"-" gorm:"not null"`
	PasswordSalt   string `json:"-"`
	RoleID         uint32 `json:"role_id" gorm:"not null"`
	FailedAttempts int    `json:"-" gorm:"default:0"`
	LockedUntil    *int64 `json:"-"`
}

// UserSession is an authentication session row. It is unrelated to the
// clinical Session record attached to appointments.
type UserSession struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	SessionToken string    `json:"session_token" gorm:"uniqueIndex;size:191;not null"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"not null"`
	ClientIP     string    `json:"client_ip" gorm:"size:45"`
	Browser      string    `json:"browser" gorm:"size:512"`
}
