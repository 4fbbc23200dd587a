package identity

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/beka-birhanu/vinom-sweeper/api"
	api_i "github.com/beka-birhanu/vinom-sweeper/api/i"
	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/token"
	"github.com/beka-birhanu/vinom-sweeper/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memPlayers struct {
	mu      sync.Mutex
	players map[uuid.UUID]dmn.Player
}

func (r *memPlayers) Save(p *dmn.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.ID] = *p
	return nil
}

func (r *memPlayers) ByID(id uuid.UUID) (*dmn.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.players[id]; ok {
		return &p, nil
	}
	return nil, errors.New("player not found")
}

func (r *memPlayers) ByUsername(username string) (*dmn.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Username == username {
			return &p, nil
		}
	}
	return nil, errors.New("player not found")
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	players := &memPlayers{players: make(map[uuid.UUID]dmn.Player)}
	tokenizer := token.NewJwtService("test-secret", "vinom-sweeper")
	auth, err := service.NewAuthService(players, tokenizer, service.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)

	return api.NewRouter(api.Config{
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{NewIdentityServer(auth, players)},
		AuthorizationMiddleware: Authoriz(tokenizer),
	}).Handler()
}

func request(t *testing.T, h http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdentityFlow(t *testing.T) {
	h := newHandler(t)
	creds := AuthRequest{Username: "sweeper", Password: "correct-horse-battery-staple-42"}

	assert.Equal(t, http.StatusCreated, request(t, h, http.MethodPost, "/auth/register", "", creds).Code)
	assert.Equal(t, http.StatusConflict, request(t, h, http.MethodPost, "/auth/register", "", creds).Code)
	assert.Equal(t, http.StatusBadRequest, request(t, h, http.MethodPost, "/auth/register", "",
		AuthRequest{Username: "weakling", Password: "123"}).Code)
	assert.Equal(t, http.StatusBadRequest, request(t, h, http.MethodPost, "/auth/register", "", gin.H{"username": "x"}).Code)

	rec := request(t, h, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	var login AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "sweeper", login.Username)
	require.NotEmpty(t, login.Token)

	rec = request(t, h, http.MethodGet, "/players/me", "Bearer "+login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me PlayerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, login.ID, me.ID)

	assert.Equal(t, http.StatusUnauthorized, request(t, h, http.MethodPost, "/auth/login", "",
		AuthRequest{Username: "sweeper", Password: "wrong-password"}).Code)
}

func TestAuthoriz(t *testing.T) {
	h := newHandler(t)
	for name, header := range map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"invalid":   "Bearer abc.def.ghi",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, request(t, h, http.MethodGet, "/players/me", header, nil).Code)
		})
	}

	t.Run("token without player", func(t *testing.T) {
		tok, err := token.NewJwtService("test-secret", "vinom-sweeper").Generate(map[string]interface{}{"username": "ghost"}, 60e9)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, request(t, h, http.MethodGet, "/players/me", "Bearer "+tok, nil).Code)
	})
}
