package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	findByIDFn func(ctx context.Context, id string) (*models.User, error)
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.findByIDFn(ctx, id)
}

func usersWith(list ...*models.User) *fakeUsers {
	return &fakeUsers{findByIDFn: func(_ context.Context, id string) (*models.User, error) {
		for _, u := range list {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, nil
	}}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Issue("u1")
	require.NoError(t, err)

	userID, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Issue("u1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewTokenManager("other", time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasher(t *testing.T) {
	h := NewHasher(4)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, h.Compare(hash, "hunter22"))
	assert.False(t, h.Compare(hash, "hunter23"))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer   abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
	assert.Equal(t, "", BearerToken("Bearer "))
}

func TestGate_Authorize(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	member := &models.User{ID: "u1", Role: models.RoleMember}
	admin := &models.User{ID: "u2", Role: models.RoleAdmin}
	gate := NewGate(tokens, usersWith(member, admin))

	memberToken, _ := tokens.Issue(member.ID)
	adminToken, _ := tokens.Issue(admin.ID)
	ghostToken, _ := tokens.Issue("gone")

	tests := []struct {
		name         string
		header       string
		requireAdmin bool
		wantKind     apperror.Kind
		wantUser     string
	}{
		{"missing credential", "", false, apperror.KindUnauthenticated, ""},
		{"malformed credential", "Bearer not-a-jwt", false, apperror.KindUnauthenticated, ""},
		{"identity removed", "Bearer " + ghostToken, false, apperror.KindUnauthenticated, ""},
		{"member on member route", "Bearer " + memberToken, false, "", "u1"},
		{"member on admin route", "Bearer " + memberToken, true, apperror.KindForbidden, ""},
		{"admin on admin route", "Bearer " + adminToken, true, "", "u2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := gate.Authorize(context.Background(), tt.header, tt.requireAdmin)
			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, apperror.Is(err, tt.wantKind), err.Error())
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user.ID)
		})
	}
}

func TestGate_StoreFailureIsNotUnauthenticated(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	token, _ := tokens.Issue("u1")
	gate := NewGate(tokens, &fakeUsers{findByIDFn: func(context.Context, string) (*models.User, error) {
		return nil, errors.New("connection reset")
	}})

	_, err := gate.Authorize(context.Background(), "Bearer "+token, false)

	require.Error(t, err)
	_, isAppErr := apperror.As(err)
	assert.False(t, isAppErr)
}
