package repository

import (
	"context"
	"errors"
	"time"

	"github.com/forgo/tourbook/api/internal/database"
	"github.com/forgo/tourbook/api/internal/model"
)

// UserRepository handles user data access. Every finder takes a
// model.UserScope; ActiveUsers hides deactivated accounts.
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// scopeFilter returns the WHERE condition for scope
func scopeFilter(scope model.UserScope) string {
	if scope == model.AllUsers {
		return "true"
	}
	return "active != false"
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	// Default to user role if not specified
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}

	query := `
		CREATE user CONTENT {
			name: $name,
			email: $email,
			photo: IF $photo IS NOT NULL THEN $photo ELSE NONE END,
			role: $role,
			password_hash: $password_hash,
			password_changed_at: IF $password_changed_at IS NOT NULL THEN <datetime>$password_changed_at ELSE NONE END,
			active: true,
			created_at: time::now()
		}
	`

	var photo *string
	if user.Photo != "" {
		photo = &user.Photo
	}

	vars := map[string]interface{}{
		"name":                user.Name,
		"email":               user.Email,
		"photo":               ptrToNone(photo),
		"role":                role,
		"password_hash":       user.PasswordHash,
		"password_changed_at": formatTime(user.PasswordChangedAt),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return duplicateError("user", err)
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return database.ErrNotFound
	}
	created, err := parseUser(records[0])
	if err != nil {
		return err
	}

	*user = *created
	return nil
}

// GetByID retrieves a user by ID. Returns nil if no user in scope matches.
func (r *UserRepository) GetByID(ctx context.Context, id string, scope model.UserScope) (*model.User, error) {
	rid, err := recordID("user", "id", id)
	if err != nil {
		return nil, err
	}

	query := `SELECT * FROM type::record($id) WHERE ` + scopeFilter(scope)
	vars := map[string]interface{}{"id": rid}

	return r.queryOne(ctx, query, vars)
}

// GetByEmail retrieves a user by email. Returns nil if no user in scope matches.
func (r *UserRepository) GetByEmail(ctx context.Context, email string, scope model.UserScope) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email AND ` + scopeFilter(scope) + ` LIMIT 1`
	vars := map[string]interface{}{"email": email}

	return r.queryOne(ctx, query, vars)
}

// FindByResetToken retrieves the user holding the reset token digest whose
// expiry is still after now. Returns nil if none matches.
func (r *UserRepository) FindByResetToken(ctx context.Context, digest string, now time.Time, scope model.UserScope) (*model.User, error) {
	query := `
		SELECT * FROM user
		WHERE password_reset_token = $digest
		AND password_reset_expires > <datetime>$now
		AND ` + scopeFilter(scope) + `
		LIMIT 1
	`
	vars := map[string]interface{}{
		"digest": digest,
		"now":    formatTime(&now),
	}

	return r.queryOne(ctx, query, vars)
}

const credentialAssignments = `
			password_hash = $password_hash,
			password_changed_at = IF $password_changed_at IS NOT NULL THEN <datetime>$password_changed_at ELSE NONE END,
			password_reset_token = IF $password_reset_token IS NOT NULL THEN $password_reset_token ELSE NONE END,
			password_reset_expires = IF $password_reset_expires IS NOT NULL THEN <datetime>$password_reset_expires ELSE NONE END`

func credentialVars(rid string, user *model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":                     rid,
		"password_hash":          user.PasswordHash,
		"password_changed_at":    formatTime(user.PasswordChangedAt),
		"password_reset_token":   ptrToNone(user.PasswordResetToken),
		"password_reset_expires": formatTime(user.PasswordResetExpires),
	}
}

// SaveCredential persists the password hash, change time and reset token
// fields of user in a single statement. Nil fields are removed.
func (r *UserRepository) SaveCredential(ctx context.Context, user *model.User) error {
	rid, err := recordID("user", "id", user.ID)
	if err != nil {
		return err
	}

	query := `UPDATE type::record($id) SET` + credentialAssignments + `
		RETURN NONE
	`

	return r.db.Execute(ctx, query, credentialVars(rid, user))
}

// ConsumeResetCredential writes the credential of user only while the
// record still holds the reset token digest unexpired at now. It reports
// false when another write got there first.
func (r *UserRepository) ConsumeResetCredential(ctx context.Context, user *model.User, digest string, now time.Time) (bool, error) {
	rid, err := recordID("user", "id", user.ID)
	if err != nil {
		return false, err
	}

	query := `UPDATE type::record($id) SET` + credentialAssignments + `
		WHERE password_reset_token = $digest
		AND password_reset_expires > <datetime>$now
		RETURN id
	`

	vars := credentialVars(rid, user)
	vars["digest"] = digest
	vars["now"] = formatTime(&now)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return false, err
	}
	return len(extractQueryResults(result)) > 0, nil
}

// SetActive activates or deactivates a user
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	rid, err := recordID("user", "id", id)
	if err != nil {
		return err
	}

	query := `UPDATE type::record($id) SET active = $active RETURN NONE`
	vars := map[string]interface{}{
		"id":     rid,
		"active": active,
	}

	return r.db.Execute(ctx, query, vars)
}

func (r *UserRepository) queryOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	user, err := parseUser(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func parseUser(result interface{}) (*model.User, error) {
	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}

	role := model.UserRole(getString(data, "role"))
	if role == "" {
		role = model.UserRoleUser
	}

	return &model.User{
		ID:    convertSurrealID(data["id"]),
		Name:  getString(data, "name"),
		Email: getString(data, "email"),
		Photo: getString(data, "photo"),
		Role:  role,
		Credential: model.Credential{
			PasswordHash:         getString(data, "password_hash"),
			PasswordChangedAt:    getTime(data, "password_changed_at"),
			PasswordResetToken:   getStringPtr(data, "password_reset_token"),
			PasswordResetExpires: getTime(data, "password_reset_expires"),
		},
		Active:    getBool(data, "active", true),
		CreatedAt: getTimeValue(data, "created_at"),
	}, nil
}
