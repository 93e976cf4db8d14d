package auth

import (
	"context"
	"fmt"
	"strings"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/models"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
	msgAdminOnly    = "Admin access required"
)

// UserFinder is the subset of the user repository the gate needs.
// FindByID returns (nil, nil) when no such user exists.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Gate resolves a bearer credential into an identity.
type Gate struct {
	tokens *TokenManager
	users  UserFinder
}

func NewGate(tokens *TokenManager, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authorize runs the checks in order: credential present, credential valid,
// identity exists, and for admin-only operations, role is admin.
func (g *Gate) Authorize(ctx context.Context, authorizationHeader string, requireAdmin bool) (*models.User, error) {
	token := BearerToken(authorizationHeader)
	if token == "" {
		return nil, apperror.Unauthenticated(msgNoToken)
	}

	userID, err := g.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Unauthenticated(msgInvalidToken)
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if user == nil {
		return nil, apperror.Unauthenticated(msgInvalidToken)
	}

	if requireAdmin && !user.IsAdmin() {
		return nil, apperror.Forbidden(msgAdminOnly)
	}
	return user, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
