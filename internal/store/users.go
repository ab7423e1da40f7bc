package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/storefront-golang/internal/models"
	"github.com/google/uuid"
)

// NewUser is the input for account creation.
type NewUser struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	IsAdmin     bool
}

const userColumns = `id, email, password_hash, first_name, last_name, phone_number, is_active, is_admin, date_joined, last_login`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var phone sql.NullString
	var lastLogin sql.NullTime
	if err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&phone, &u.IsActive, &u.IsAdmin, &u.DateJoined, &lastLogin,
	); err != nil {
		return nil, err
	}
	if phone.Valid {
		u.PhoneNumber = &phone.String
	}
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.Time
	}
	return &u, nil
}

// CreateUser inserts the user together with its profile, its cart and its
// signup log, all in one transaction. This is the only code path that
// creates users, so every user has exactly one profile and one cart.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, invalidf("email and password are required")
	}

	var password models.Password
	if err := password.Set(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        in.Email,
		PasswordHash: password.Hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
		IsAdmin:      in.IsAdmin,
		DateJoined:   now,
	}
	var phone sql.NullString
	if in.PhoneNumber != "" {
		user.PhoneNumber = &in.PhoneNumber
		phone = sql.NullString{String: in.PhoneNumber, Valid: true}
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", user.Email).Scan(&existing)
		if err == nil {
			return invalidf("a user with email %s already exists", user.Email)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check email: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (email, password_hash, first_name, last_name, phone_number, is_active, is_admin, date_joined)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			user.Email, user.PasswordHash, user.FirstName, user.LastName, phone, user.IsActive, user.IsAdmin, now)
		if err != nil {
			if isDuplicateKey(err) {
				return invalidf("a user with email %s already exists", user.Email)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		if user.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("user id: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO profiles (user_id, updated_at) VALUES (?, ?)", user.ID, now); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}

		if _, err := s.getOrCreateCartID(ctx, tx, user.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO signup_logs (user_id, users_id, signup_time, first_name, last_name)
			VALUES (?, ?, ?, ?, ?)`,
			user.ID, uuid.NewString(), now, user.FirstName, user.LastName); err != nil {
			return fmt.Errorf("insert signup log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email/password pair. Unknown emails, wrong
// passwords and inactive accounts all fail with ErrAuthFailure.
// A successful login updates last_login and appends a login log.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", strings.TrimSpace(email))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuthFailure
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	pw := models.Password{Hash: user.PasswordHash}
	ok, err := pw.Matches(password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok || !user.IsActive {
		return nil, ErrAuthFailure
	}

	now := time.Now().UTC()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", now, user.ID); err != nil {
			return fmt.Errorf("update last login: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO login_logs (user_id, login_time, first_name, last_name) VALUES (?, ?, ?, ?)",
			user.ID, now, user.FirstName, user.LastName); err != nil {
			return fmt.Errorf("insert login log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return user, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("user %d", userID)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// userExists returns ErrNotFound for an unknown user. Updates rely on it
// rather than on RowsAffected, which MySQL reports as 0 for unchanged rows.
func userExists(ctx context.Context, q Querier, userID int64) error {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM users WHERE id = ?", userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return notFoundf("user %d", userID)
	}
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}
	return nil
}

// GetProfile loads the profile owned by the user.
func (s *Store) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	var p models.Profile
	var image sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, profile_image, updated_at FROM profiles WHERE user_id = ?", userID,
	).Scan(&p.ID, &p.UserID, &image, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("profile for user %d", userID)
		}
		return nil, fmt.Errorf("query profile: %w", err)
	}
	if image.Valid {
		p.ProfileImage = &image.String
	}
	return &p, nil
}

// UpdateNames changes the first and last name shown on the profile page.
func (s *Store) UpdateNames(ctx context.Context, userID int64, firstName, lastName string) (*models.User, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, invalidf("first and last name are required")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := userExists(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET first_name = ?, last_name = ? WHERE id = ?", firstName, lastName, userID); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE profiles SET updated_at = ? WHERE user_id = ?", time.Now().UTC(), userID); err != nil {
			return fmt.Errorf("touch profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// GetSignupLog returns the record written when the account was created.
// Its public id is what the profile page shows as the member id.
func (s *Store) GetSignupLog(ctx context.Context, userID int64) (*models.SignupLog, error) {
	var l models.SignupLog
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, users_id, signup_time, first_name, last_name
		FROM signup_logs WHERE user_id = ?`, userID,
	).Scan(&l.ID, &l.UserID, &l.PublicID, &l.SignupTime, &l.FirstName, &l.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundf("signup log for user %d", userID)
		}
		return nil, fmt.Errorf("query signup log: %w", err)
	}
	return &l, nil
}

// RecentLogins returns the user's latest logins, newest first.
func (s *Store) RecentLogins(ctx context.Context, userID int64, limit int) ([]models.LoginLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, login_time, first_name, last_name
		FROM login_logs WHERE user_id = ?
		ORDER BY login_time DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query login logs: %w", err)
	}
	defer rows.Close()

	logins := []models.LoginLog{}
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.LoginTime, &l.FirstName, &l.LastName); err != nil {
			return nil, fmt.Errorf("scan login log: %w", err)
		}
		logins = append(logins, l)
	}
	return logins, rows.Err()
}

// SetProfileImage records the stored path of a freshly uploaded image.
func (s *Store) SetProfileImage(ctx context.Context, userID int64, path string) (*models.Profile, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET profile_image = ?, updated_at = ? WHERE user_id = ?", path, time.Now().UTC(), userID); err != nil {
		return nil, fmt.Errorf("update profile image: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

// EnsureAdmin creates the bootstrap administrator if it does not exist yet,
// or promotes the existing account with that email.
func (s *Store) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	switch {
	case err == nil:
		if !user.IsAdmin {
			if _, err := s.db.ExecContext(ctx, "UPDATE users SET is_admin = ? WHERE id = ?", true, user.ID); err != nil {
				return nil, fmt.Errorf("promote admin: %w", err)
			}
			user.IsAdmin = true
		}
		return user, nil
	case errors.Is(err, sql.ErrNoRows):
		return s.CreateUser(ctx, NewUser{
			Email:     email,
			Password:  password,
			FirstName: "Admin",
			LastName:  "User",
			IsAdmin:   true,
		})
	default:
		return nil, fmt.Errorf("query admin: %w", err)
	}
}

// RevokeToken adds a token id to the revocation list until it expires.
func (s *Store) RevokeToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO revoked_tokens (jti, user_id, expires_at) VALUES (?, ?, ?)", jti, userID, expiresAt.UTC())
	if err != nil && !isDuplicateKey(err) {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsUserActive reports whether the user exists and may still sign in.
func (s *Store) IsUserActive(ctx context.Context, userID int64) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx, "SELECT is_active FROM users WHERE id = ?", userID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user status: %w", err)
	}
	return active, nil
}

// IsTokenRevoked reports whether the token id was revoked on logout.
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var found string
	err := s.db.QueryRowContext(ctx, "SELECT jti FROM revoked_tokens WHERE jti = ?", jti).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query revoked token: %w", err)
	}
	return true, nil
}

// PurgeExpiredTokens drops revocations that can no longer matter.
func (s *Store) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM revoked_tokens WHERE expires_at < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge revoked tokens: %w", err)
	}
	return res.RowsAffected()
}
