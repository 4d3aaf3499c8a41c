package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"theend-page-api/internal/core/auth"
	"theend-page-api/internal/domain"
	"theend-page-api/internal/repo"
)

func newTestUserService() *UserService {
	jwter := &auth.JWTer{Secret: []byte("test-secret-0123456789"), Issuer: "theend-test", TTL: time.Hour}
	return NewUserService(repo.NewMemoryUserRepo(), jwter)
}

func TestRegister(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "Ann@Example.com ", Password: "pw123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ann@example.com", u.Email) // 邮箱归一化为小写
	assert.Equal(t, "user", u.Role)
	assert.NotEqual(t, "pw123456", u.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, err = s.Register(ctx, RegisterInput{Name: "Bob", Email: "ANN@example.com", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Name: "", Email: "a@b.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Register(ctx, RegisterInput{Name: "Ann", Email: "   ", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.Register(ctx, RegisterInput{Name: "Ann", Email: "a@b.com", Password: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	reg, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw123456"})
	require.NoError(t, err)

	u, tok, err := s.Login(ctx, "Ann@Example.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.NotEmpty(t, tok)

	claims, err := s.jwter.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UID)
	assert.Equal(t, "user", claims.Role)
}

// 未知邮箱与密码错误返回同一个错误，避免撞库探测
func TestLoginInvalidCredentials(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw123456"})
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "nobody@example.com", "pw123456")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, _, err = s.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestBanThenLoginFails(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	u, err := s.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw123456"})
	require.NoError(t, err)

	require.NoError(t, s.Ban(ctx, u.ID))

	_, _, err = s.Login(ctx, "ann@example.com", "pw123456")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.ErrorIs(t, s.Ban(ctx, u.ID), domain.ErrNotFound)
}

func TestUserListFilterAndClamp(t *testing.T) {
	s := newTestUserService()
	ctx := context.Background()

	for _, e := range []string{"ann@example.com", "bob@example.com", "carl@other.io"} {
		_, err := s.Register(ctx, RegisterInput{Name: e, Email: e, Password: "pw"})
		require.NoError(t, err)
	}

	all, total, err := s.List(ctx, domain.UserFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	got, total, err := s.List(ctx, domain.UserFilter{Q: "example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, got, 2)

	_, _, err = s.List(ctx, domain.UserFilter{Limit: 9999}) // 超限回落默认 20
	require.NoError(t, err)
}
