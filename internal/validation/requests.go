package validation

import "movieflix-backend/internal/utils"

type SignupInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput holds the optional fields of PUT /auth/update.
type ProfileInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}

// Normalize strips markup from the bio before it is validated and stored.
func (in *ProfileInput) Normalize() {
	cleanPtr(in.Bio)
}

type WatchlistAddInput struct {
	Notes    string `json:"notes" validate:"max=500"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func (in *WatchlistAddInput) Normalize() {
	in.Notes = utils.CleanText(in.Notes)
}

type WatchlistUpdateInput struct {
	Notes    *string  `json:"notes" validate:"omitempty,max=500"`
	Priority *string  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Rating   *float64 `json:"rating" validate:"omitempty,min=0,max=10"`
}

func (in *WatchlistUpdateInput) Normalize() {
	cleanPtr(in.Notes)
}

type WatchedInput struct {
	Rating *float64 `json:"rating" validate:"omitempty,min=0,max=10"`
}

type RoleInput struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

func cleanPtr(s *string) {
	if s != nil {
		*s = utils.CleanText(*s)
	}
}
