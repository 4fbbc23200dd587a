package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/beka-birhanu/vinom-sweeper/game/presets"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBoard struct {
	entries []i.LeaderboardEntry
	asked   int64
}

func (b *staticBoard) Record(context.Context, string, uuid.UUID, int64) error { return nil }

func (b *staticBoard) Top(_ context.Context, _ string, n int64) ([]i.LeaderboardEntry, error) {
	b.asked = n
	if int64(len(b.entries)) > n {
		return b.entries[:n], nil
	}
	return b.entries, nil
}

type onePlayer struct{ player dmn.Player }

func (r onePlayer) Save(*dmn.Player) error { return nil }
func (r onePlayer) ByID(id uuid.UUID) (*dmn.Player, error) {
	if id == r.player.ID {
		p := r.player
		return &p, nil
	}
	return nil, errors.New("player not found")
}
func (r onePlayer) ByUsername(string) (*dmn.Player, error) { return nil, errors.New("player not found") }

func TestController(t *testing.T) {
	gin.SetMode(gin.TestMode)
	known := dmn.Player{ID: uuid.New(), Username: "fast"}
	board := &staticBoard{entries: []i.LeaderboardEntry{
		{PlayerID: known.ID, DurationMs: 1200},
		{PlayerID: uuid.New(), DurationMs: 1500},
	}}
	c, err := NewController(presets.Builtin(), board, onePlayer{player: known})
	require.NoError(t, err)

	router := gin.New()
	c.RegisterPublic(router.Group("/v1"))

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/v1/presets")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []presets.Preset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, presets.Builtin().All(), list)

	rec = get("/v1/leaderboard/expert")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, EntryResponse{Rank: 1, PlayerID: known.ID.String(), Username: "fast", DurationMs: 1200}, entries[0])
	assert.Empty(t, entries[1].Username)
	assert.Equal(t, int64(defaultLimit), board.asked)

	get("/v1/leaderboard/expert?limit=1000")
	assert.Equal(t, int64(maxLimit), board.asked)

	assert.Equal(t, http.StatusNotFound, get("/v1/leaderboard/nightmare").Code)
}
