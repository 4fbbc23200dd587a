package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "correct-horse-battery-staple-42"

func TestNewPlayer(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		err      error
	}{
		{name: "short username", username: "ab", password: strongPassword, err: ErrUsernameTooShort},
		{name: "long username", username: "abcdefghijklmnopqrstu", password: strongPassword, err: ErrUsernameTooLong},
		{name: "bad characters", username: "mine sweeper", password: strongPassword, err: ErrUsernameFormat},
		{name: "weak password", username: "sweeper", password: "password", err: ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlayer(PlayerConfig{ID: uuid.New(), Username: tt.username, PlainPassword: tt.password})
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("valid", func(t *testing.T) {
		id := uuid.New()
		p, err := NewPlayer(PlayerConfig{
			ID:            id,
			Username:      "sweeper_1",
			PlainPassword: strongPassword,
			HashCost:      bcrypt.MinCost,
		})
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		assert.NotEqual(t, strongPassword, p.PasswordHash)
		assert.True(t, p.VerifyPassword(strongPassword))
		assert.False(t, p.VerifyPassword("wrong"))
	})
}

func TestRecord(t *testing.T) {
	p := &Player{}
	p.Record(true)
	p.Record(false)
	p.Record(true)
	assert.Equal(t, 2, p.Wins)
	assert.Equal(t, 1, p.Losses)
	assert.Equal(t, 3, p.Played())
}
