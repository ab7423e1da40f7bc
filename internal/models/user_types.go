package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the model for the 'users' table.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	PhoneNumber  *string    `json:"phoneNumber,omitempty" db:"phone_number"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	IsAdmin      bool       `json:"isAdmin" db:"is_admin"`
	DateJoined   time.Time  `json:"dateJoined" db:"date_joined"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
}

// Profile is the model for the 'profiles' table. Every user owns exactly one.
type Profile struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"userId" db:"user_id"`
	ProfileImage *string   `json:"profileImage,omitempty" db:"profile_image"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// SignupLog records the moment an account was created.
type SignupLog struct {
	ID         int64     `json:"id" db:"id"`
	UserID     int64     `json:"userId" db:"user_id"`
	PublicID   string    `json:"usersId" db:"users_id"`
	SignupTime time.Time `json:"signupTime" db:"signup_time"`
	FirstName  string    `json:"firstName" db:"first_name"`
	LastName   string    `json:"lastName" db:"last_name"`
}

// LoginLog is appended on every successful login.
type LoginLog struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	LoginTime time.Time `json:"loginTime" db:"login_time"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
}

// Password wraps bcrypt hashing of a plaintext password.
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
