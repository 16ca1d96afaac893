package jwtservice

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/Yassen717/HabitFlow/internal/error_values"
	"github.com/Yassen717/HabitFlow/pkg/entity"
)

func TestTokenRoundTrip(t *testing.T) {
	s := New("secret", 0)
	user := &entity.User{ID: uuid.New(), Email: "ann@mail.io"}

	token, err := s.GenerateToken(user)
	require.NoError(t, err)
	claims, err := s.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseTokenRejects(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "ann@mail.io"}

	t.Run("expired", func(t *testing.T) {
		s := New("secret", time.Minute)
		s.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := s.GenerateToken(user)
		require.NoError(t, err)
		s.now = time.Now
		_, err = s.ParseToken(token)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
	t.Run("foreign secret", func(t *testing.T) {
		token, err := New("other", time.Minute).GenerateToken(user)
		require.NoError(t, err)
		_, err = New("secret", time.Minute).ParseToken(token)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
	t.Run("other signing method", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = New("secret", time.Minute).ParseToken(token)
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := New("secret", time.Minute).ParseToken("not.a.token")
		assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
	})
}
