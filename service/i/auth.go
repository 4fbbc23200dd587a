package i

import (
	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
)

// Authenticator registers players and signs them in.
type Authenticator interface {
	Register(username, password string) error
	SignIn(username, password string) (*dmn.Player, string, error)
}
