package services

import (
	"context"
	"testing"
	"time"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/auth"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (AuthService, *memUserRepo, *auth.TokenManager) {
	users := newMemUserRepo()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, auth.NewHasher(4), nil, quietLogger()), users, tokens
}

func TestSignup_NormalizesEmailAndIssuesToken(t *testing.T) {
	svc, _, tokens := newAuthFixture()

	sess, err := svc.Signup(context.Background(), validation.SignupInput{
		Name:     "  Jane Doe ",
		Email:    " Jane@Example.COM ",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", sess.User.Email)
	assert.Equal(t, "Jane Doe", sess.User.Name)
	assert.Equal(t, models.RoleMember, sess.User.Role)
	assert.NotEqual(t, "secret1", sess.User.PasswordHash)

	userID, err := tokens.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, userID)
}

func TestSignup_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, validation.SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, validation.SignupInput{Name: "Jane", Email: "JANE@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))
}

func TestSignup_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Signup(context.Background(), validation.SignupInput{Name: "J", Email: "jane@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, "Name must be at least 2 characters long", err.(*apperror.Error).Message)
}

func TestLogin(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	signed, err := svc.Signup(ctx, validation.SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, validation.LoginInput{Email: "jane@example.com", Password: "wrong-pass"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))
	assert.Equal(t, 400, apperror.StatusOf(err))

	_, err = svc.Login(ctx, validation.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, apperror.Is(err, apperror.KindInvalidCredentials))

	sess, err := svc.Login(ctx, validation.LoginInput{Email: "JANE@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	require.NotNil(t, sess.User.LastLoginAt)

	stored, _ := users.FindByID(ctx, signed.User.ID)
	require.NotNil(t, stored.LastLoginAt)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	jane, err := svc.Signup(ctx, validation.SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, validation.SignupInput{Name: "John", Email: "john@example.com", Password: "secret1"})
	require.NoError(t, err)

	bio := "<p>Loves noir</p>"
	name := "Jane D."
	updated, err := svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Jane D.", updated.Name)
	assert.Equal(t, "Loves noir", updated.Bio)
	assert.Equal(t, "jane@example.com", updated.Email)

	taken := "John@Example.com"
	_, err = svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Email: &taken})
	assert.True(t, apperror.Is(err, apperror.KindDuplicate))

	short := "123"
	_, err = svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Password: &short})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	newPass := "better-secret"
	_, err = svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Password: &newPass})
	require.NoError(t, err)
	_, err = svc.Login(ctx, validation.LoginInput{Email: "jane@example.com", Password: "better-secret"})
	assert.NoError(t, err)
}

func TestUpdateProfile_ReplacedAvatarIsRemoved(t *testing.T) {
	storage := &fakeStorage{}
	users := newMemUserRepo()
	svc := NewAuthService(users, auth.NewTokenManager("test-secret", time.Hour), auth.NewHasher(4), storage, quietLogger())
	ctx := context.Background()

	jane, err := svc.Signup(ctx, validation.SignupInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	first := "https://cdn.example.com/avatars/one.png"
	_, err = svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Avatar: &first})
	require.NoError(t, err)
	assert.Empty(t, storage.deleted)

	_, err = svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Avatar: &first})
	require.NoError(t, err)
	assert.Empty(t, storage.deleted)

	second := "https://cdn.example.com/avatars/two.png"
	updated, err := svc.UpdateProfile(ctx, jane.User.ID, validation.ProfileInput{Avatar: &second})
	require.NoError(t, err)
	assert.Equal(t, second, updated.Avatar)
	assert.Equal(t, []string{first}, storage.deleted)
}
