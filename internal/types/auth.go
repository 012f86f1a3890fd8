package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the authenticated user profile embedded in the login response.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
	OrgID uuid.UUID `json:"org_id"`
}

// TokenResponse is the backend's login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}

// Credentials is what the session store persists between CLI invocations.
type Credentials struct {
	AccessToken string    `json:"access_token"`
	Email       string    `json:"email,omitempty"`
	SavedAt     time.Time `json:"saved_at"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate checks that a non-empty selection is well formed.
func (s *ApplySelection) Validate() error {
	validate := validator.New()
	if s.Timing != nil {
		if err := validate.Struct(s.Timing); err != nil {
			return err
		}
	}
	if s.Platforms != nil {
		if err := validate.Struct(s.Platforms); err != nil {
			return err
		}
	}
	if s.Budget != nil {
		if err := validate.Struct(s.Budget); err != nil {
			return err
		}
	}
	return nil
}
