package library

import (
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ---------------------------------------------------------------------------
// User accounts
// ---------------------------------------------------------------------------

// CreateUser registers a new account with a bcrypt-hashed password and
// returns its assigned ID.
func (d *Database) CreateUser(username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, validationErrorf("username must be a non-empty string")
	}
	if strings.TrimSpace(password) == "" {
		return 0, validationErrorf("password must be a non-empty string")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	res, err := d.addUserStmt.Exec(username, string(hash))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, validationErrorf("username %q is already taken", username)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

// GetUser fetches a single user by ID.
func (d *Database) GetUser(id int64) (*User, error) {
	var u User
	err := d.db.QueryRow(`SELECT id,username,password_hash,created_at FROM users WHERE id=?`, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// AuthenticateUser verifies a username/password pair and returns the matching
// user. A missing account and a wrong password are indistinguishable to the
// caller: both report ErrUnauthorized.
func (d *Database) AuthenticateUser(username, password string) (*User, error) {
	var u User
	err := d.db.QueryRow(`SELECT id,username,password_hash,created_at FROM users WHERE username=?`, strings.TrimSpace(username)).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthorized
	}
	return &u, nil
}

// UpdatePassword replaces a user's password hash.
func (d *Database) UpdatePassword(userID int64, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return validationErrorf("password must be a non-empty string")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := d.db.Exec(`UPDATE users SET password_hash=? WHERE id=?`, string(hash), userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return nil
}

// ResetUsers drops and recreates the users table, removing every account.
func (d *Database) ResetUsers() error {
	if _, err := d.db.Exec(`DROP TABLE IF EXISTS users`); err != nil {
		return fmt.Errorf("drop users: %w", err)
	}
	if _, err := d.db.Exec(usersSchema); err != nil {
		return fmt.Errorf("recreate users: %w", err)
	}
	return nil
}
