package db

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an admin account for the back-office API.
type User struct {
	ID           int        `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	IsActive     bool       `json:"is_active" db:"is_active"`
}

// CreateUserRequest represents admin account creation data
type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUser creates a new admin account
func (db *DB) CreateUser(req CreateUserRequest) (*User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, created_at, last_login, is_active`

	var user User
	err = db.Get(&user, query, req.Username, req.Email, string(hashedPassword))
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByUsername retrieves an active user by username
func (db *DB) GetUserByUsername(username string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, last_login, is_active
		FROM users
		WHERE username = $1 AND is_active = true`

	var user User
	err := db.Get(&user, query, username)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ValidatePassword checks a plaintext password against the stored hash
func (db *DB) ValidatePassword(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// UpdateLastLogin records a successful login
func (db *DB) UpdateLastLogin(userID int) error {
	_, err := db.Exec(`UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	return err
}
