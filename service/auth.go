package service

import (
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
)

type Auth struct {
	playerRepo i.PlayerRepo
	tokenizer  i.Tokenizer
	tokenTTL   time.Duration
	hashCost   int
}

// AuthOption customizes an Auth service.
type AuthOption func(*Auth)

// WithTokenTTL sets how long issued tokens stay valid.
func WithTokenTTL(d time.Duration) AuthOption {
	return func(a *Auth) { a.tokenTTL = d }
}

// WithHashCost sets the bcrypt cost for new passwords.
func WithHashCost(cost int) AuthOption {
	return func(a *Auth) { a.hashCost = cost }
}

func NewAuthService(pr i.PlayerRepo, t i.Tokenizer, opts ...AuthOption) (i.Authenticator, error) {
	if pr == nil || t == nil {
		return nil, errors.New("auth service needs a player repo and a tokenizer")
	}
	a := &Auth{
		playerRepo: pr,
		tokenizer:  t,
		tokenTTL:   defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Auth) Register(username, password string) error {
	if _, err := a.playerRepo.ByUsername(username); err == nil {
		return ErrUsernameTaken
	}

	player, err := dmn.NewPlayer(dmn.PlayerConfig{
		ID:            uuid.New(),
		Username:      username,
		PlainPassword: password,
		HashCost:      a.hashCost,
	})
	if err != nil {
		return err
	}

	if err := a.playerRepo.Save(player); err != nil {
		return fmt.Errorf("saving player: %w", err)
	}
	return nil
}

func (a *Auth) SignIn(username, password string) (*dmn.Player, string, error) {
	player, err := a.playerRepo.ByUsername(username)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if !player.VerifyPassword(password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.tokenizer.Generate(map[string]interface{}{
		"playerID": player.ID.String(),
		"username": player.Username,
	}, a.tokenTTL)
	if err != nil {
		return nil, "", err
	}

	return player, token, nil
}
