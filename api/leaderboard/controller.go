// Package leaderboard serves presets and their best times.
package leaderboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-sweeper/game/presets"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// EntryResponse is one leaderboard line.
type EntryResponse struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	Username   string `json:"username,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Controller lists presets and leaderboards.
type Controller struct {
	catalog     *presets.Catalog
	leaderboard i.Leaderboard
	players     i.PlayerRepo
}

// NewController creates a Controller. players may be nil, in which case
// entries carry IDs only.
func NewController(catalog *presets.Catalog, lb i.Leaderboard, players i.PlayerRepo) (*Controller, error) {
	if catalog == nil || lb == nil {
		return nil, errors.New("leaderboard controller needs presets and a leaderboard")
	}
	return &Controller{catalog: catalog, leaderboard: lb, players: players}, nil
}

// RegisterPublic registers public routes.
func (c *Controller) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/presets", c.presets)
	route.GET("/leaderboard/:preset", c.top)
}

// RegisterProtected registers protected routes.
func (c *Controller) RegisterProtected(route *gin.RouterGroup) {}

func (c *Controller) presets(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.catalog.All())
}

func (c *Controller) top(ctx *gin.Context) {
	preset := ctx.Param("preset")
	if _, err := c.catalog.Get(preset); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	entries, err := c.leaderboard.Top(ctx.Request.Context(), preset, int64(limit))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
		return
	}

	response := make([]EntryResponse, len(entries))
	for j, e := range entries {
		response[j] = EntryResponse{Rank: j + 1, PlayerID: e.PlayerID.String(), DurationMs: e.DurationMs}
		if c.players == nil {
			continue
		}
		if p, err := c.players.ByID(e.PlayerID); err == nil {
			response[j].Username = p.Username
		}
	}
	ctx.JSON(http.StatusOK, response)
}
