package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FullName     string     `json:"full_name" db:"full_name"`
	FullNameAr   *string    `json:"full_name_ar,omitempty" db:"full_name_ar"`
	AvatarURL    *string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio          *string    `json:"bio,omitempty" db:"bio"`
	Role         string     `json:"role" db:"role"`
	NodeID       *uuid.UUID `json:"node_id,omitempty" db:"node_id"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"-" db:"deleted_at"`
}

// UserRole is a total order: viewer < contributor < verifier < admin. Higher
// roles inherit lower privileges.
type UserRole string

const (
	RoleViewer      UserRole = "viewer"
	RoleContributor UserRole = "contributor"
	RoleVerifier    UserRole = "verifier"
	RoleAdmin       UserRole = "admin"
)

var roleRank = map[string]int{
	string(RoleViewer):      0,
	string(RoleContributor): 1,
	string(RoleVerifier):    2,
	string(RoleAdmin):       3,
}

func (r UserRole) IsValid() bool {
	_, ok := roleRank[string(r)]
	return ok
}

// HasRole reports whether the user's role grants at least the required
// capability.
func (u *User) HasRole(required string) bool {
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	have, ok := roleRank[u.Role]
	return ok && have >= need
}

func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

type CreateUserInput struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=8"`
	FullName   string  `json:"full_name" validate:"required,min=2,max=100"`
	FullNameAr *string `json:"full_name_ar,omitempty" validate:"omitempty,min=2,max=100"`
}

type UpdateUserInput struct {
	FullName   *string        `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	FullNameAr NullableString `json:"full_name_ar" validate:"omitempty,min=2,max=100"`
	AvatarURL  NullableString `json:"avatar_url"`
	Bio        NullableString `json:"bio" validate:"omitempty,max=1000"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AssignRoleInput struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   UserRole  `json:"role" validate:"required,oneof=viewer contributor verifier admin"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
