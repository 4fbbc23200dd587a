package identity

import (
	"errors"
	"net/http"

	"github.com/beka-birhanu/vinom-sweeper/service"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/gin-gonic/gin"
)

// IdentityServer handles HTTP requests related to authentication.
type IdentityServer struct {
	authService i.Authenticator
	playerRepo  i.PlayerRepo
}

// NewIdentityServer creates a new IdentityServer.
func NewIdentityServer(a i.Authenticator, pr i.PlayerRepo) *IdentityServer {
	return &IdentityServer{
		authService: a,
		playerRepo:  pr,
	}
}

// RegisterPublic registers public routes.
func (c *IdentityServer) RegisterPublic(route *gin.RouterGroup) {
	auth := route.Group("/auth")
	{
		auth.POST("/register", c.registerPlayer)
		auth.POST("/login", c.login)
	}
}

// RegisterProtected registers privileged routes.
func (c *IdentityServer) RegisterProtected(route *gin.RouterGroup) {
	route.GET("/players/me", c.me)
}

func (c *IdentityServer) registerPlayer(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := c.authService.Register(request.Username, request.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrUsernameTaken) {
			status = http.StatusConflict
		}
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Player registered successfully"})
}

func (c *IdentityServer) login(ctx *gin.Context) {
	var request AuthRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, token, err := c.authService.SignIn(request.Username, request.Password)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &AuthResponse{
		ID:       player.ID.String(),
		Username: player.Username,
		Wins:     player.Wins,
		Losses:   player.Losses,
		Token:    token,
	})
}

func (c *IdentityServer) me(ctx *gin.Context) {
	id, ok := PlayerID(ctx)
	if !ok {
		ctx.Status(http.StatusUnauthorized)
		return
	}

	player, err := c.playerRepo.ByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, &PlayerResponse{
		ID:       player.ID.String(),
		Username: player.Username,
		Wins:     player.Wins,
		Losses:   player.Losses,
		Played:   player.Played(),
	})
}
