package gameapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/vinom-sweeper/api/identity"
	"github.com/beka-birhanu/vinom-sweeper/game"
	"github.com/beka-birhanu/vinom-sweeper/game/board"
	"github.com/beka-birhanu/vinom-sweeper/game/presets"
	"github.com/beka-birhanu/vinom-sweeper/game/topology"
	"github.com/beka-birhanu/vinom-sweeper/service"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var flagActions = map[string]board.FlagAction{
	"":       board.FlagToggle,
	"toggle": board.FlagToggle,
	"set":    board.FlagSet,
	"clear":  board.FlagClear,
}

// GameController serves the game session routes.
type GameController struct {
	sessions i.GameSessionManager
}

// NewGameController initializes a GameController.
func NewGameController(gsm i.GameSessionManager) (*GameController, error) {
	if gsm == nil {
		return nil, errors.New("game controller needs a session manager")
	}
	return &GameController{sessions: gsm}, nil
}

// RegisterPublic registers public routes.
func (gc *GameController) RegisterPublic(route *gin.RouterGroup) {}

// RegisterProtected registers protected routes.
func (gc *GameController) RegisterProtected(route *gin.RouterGroup) {
	games := route.Group("/games")
	{
		games.POST("", gc.create)
		games.GET("/history", gc.history)
		games.GET("/:id", gc.get)
		games.DELETE("/:id", gc.end)
		games.POST("/:id/uncover", gc.uncover)
		games.POST("/:id/chord", gc.chord)
		games.POST("/:id/flag", gc.flag)
		games.POST("/:id/solve", gc.solve)
		games.POST("/:id/hints", gc.hints)
		games.GET("/:id/solution", gc.solution)
		games.GET("/:id/rules", gc.rules)
	}
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrNoSolution):
		return http.StatusConflict
	case errors.Is(err, service.ErrSolverUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, game.ErrUnknownCell),
		errors.Is(err, game.ErrInvalidMining),
		errors.Is(err, service.ErrInvalidGame),
		errors.Is(err, presets.ErrUnknownPreset),
		errors.Is(err, board.ErrInvalidProbability),
		errors.Is(err, board.ErrInvalidPosition),
		errors.Is(err, topology.ErrInvalidDimensions),
		errors.Is(err, topology.ErrInvalidGeodesicParams),
		errors.Is(err, topology.ErrUnknownKind):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(ctx *gin.Context, err error) {
	ctx.JSON(errorStatus(err), gin.H{"error": err.Error()})
}

// target resolves the player and the game a request is about.
func target(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": service.ErrSessionNotFound.Error()})
		return uuid.Nil, uuid.Nil, false
	}
	return playerID, id, true
}

func (gc *GameController) create(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var request NewGameRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := gc.sessions.NewSession(playerID, i.NewGameRequest{
		Preset:    request.Preset,
		Topology:  request.Topology,
		Mines:     request.Mines,
		MineProb:  request.MineProb,
		StrictWin: request.StrictWin,
	})
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, newGameResponse(snap))
}

func (gc *GameController) get(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	snap, err := gc.sessions.Session(playerID, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newGameResponse(snap))
}

func (gc *GameController) end(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	if err := gc.sessions.End(playerID, id); err != nil {
		fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (gc *GameController) uncover(ctx *gin.Context) {
	gc.cellMove(ctx, gc.sessions.Uncover)
}

func (gc *GameController) chord(ctx *gin.Context) {
	gc.cellMove(ctx, gc.sessions.Chord)
}

func (gc *GameController) cellMove(ctx *gin.Context, play func(uuid.UUID, uuid.UUID, string) (game.Result, error)) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	var request CellRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := play(playerID, id, request.Cell)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newMoveResponse(res))
}

func (gc *GameController) flag(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	var request FlagRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := gc.sessions.Flag(playerID, id, request.Cell, flagActions[request.Action])
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newMoveResponse(res))
}

func (gc *GameController) solve(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	version, err := gc.sessions.RequestSolve(playerID, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, &SolveResponse{Version: version})
}

func (gc *GameController) hints(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	res, err := gc.sessions.ApplyHints(playerID, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newMoveResponse(res))
}

func (gc *GameController) solution(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	snap, err := gc.sessions.Session(playerID, id)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, &SolutionResponse{
		State:         string(snap.Solution),
		Version:       snap.Version,
		Probabilities: snap.Probabilities,
	})
}

func (gc *GameController) rules(ctx *gin.Context) {
	playerID, id, ok := target(ctx)
	if !ok {
		return
	}
	everything, _ := strconv.ParseBool(ctx.DefaultQuery("everything", "false"))
	cs, err := gc.sessions.Rules(playerID, id, everything)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cs)
}

func (gc *GameController) history(ctx *gin.Context) {
	playerID, ok := identity.PlayerID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	records, err := gc.sessions.History(playerID, limit)
	if err != nil {
		fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}
