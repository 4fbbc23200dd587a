package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-sweeper/api"
	gameapi "github.com/beka-birhanu/vinom-sweeper/api/game"
	api_i "github.com/beka-birhanu/vinom-sweeper/api/i"
	"github.com/beka-birhanu/vinom-sweeper/api/identity"
	"github.com/beka-birhanu/vinom-sweeper/api/leaderboard"
	"github.com/beka-birhanu/vinom-sweeper/config"
	"github.com/beka-birhanu/vinom-sweeper/game/presets"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/events"
	logger "github.com/beka-birhanu/vinom-sweeper/infrastruture/log"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/repo"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/solver"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-sweeper/infrastruture/token"
	"github.com/beka-birhanu/vinom-sweeper/service"
	"github.com/beka-birhanu/vinom-sweeper/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Global variables for dependencies
var (
	mongoClient           *mongo.Client
	redisClient           *redis.Client
	playerRepo            *repo.PlayerRepo
	gameRecordRepo        *repo.GameRecordRepo
	presetCatalog         *presets.Catalog
	boardSolver           i.Solver
	leaderboardStore      i.Leaderboard
	eventPublisher        i.EventPublisher
	gameSessionManager    *service.GameSessionManager
	gameController        api_i.Controller
	leaderboardController api_i.Controller
	jwtTokenizer          i.Tokenizer
	authService           i.Authenticator
	authController        api_i.Controller
	router                *api.Router
	appLogger             *logger.Logger
)

// newLogger creates a component logger or exits.
func newLogger(name, color string) *logger.Logger {
	l, err := logger.New(name, color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", name, err)
		os.Exit(1)
	}
	return l
}

func fatal(msg string, err error) {
	appLogger.Error(fmt.Sprintf("%s: %v", msg, err))
	os.Exit(1)
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		fatal("Failed to connect to MongoDB", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		fatal("MongoDB ping failed", err)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRepos(ctx context.Context) {
	playerRepo = repo.NewPlayerRepo(mongoClient, config.Envs.DBName, "players")
	if err := playerRepo.EnsureIndexes(ctx); err != nil {
		fatal("Creating player indexes", err)
	}
	gameRecordRepo = repo.NewGameRecordRepo(mongoClient, config.Envs.DBName, "games")
	if err := gameRecordRepo.EnsureIndexes(ctx); err != nil {
		fatal("Creating game record indexes", err)
	}
	appLogger.Info("Repositories initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fatal("Redis ping failed", err)
	}

	var err error
	leaderboardStore, err = sortedstorage.NewRedisLeaderboard(redisClient, config.Envs.LeaderboardTTL)
	if err != nil {
		fatal("Creating leaderboard", err)
	}
	appLogger.Info("Leaderboard initialized")
}

func initPresets() {
	if config.Envs.PresetsFile == "" {
		presetCatalog = presets.Builtin()
		return
	}
	data, err := os.ReadFile(config.Envs.PresetsFile)
	if err != nil {
		fatal("Reading presets", err)
	}
	presetCatalog, err = presets.Parse(data)
	if err != nil {
		fatal("Parsing presets", err)
	}
	appLogger.Info(fmt.Sprintf("Loaded %d presets from %s", len(presetCatalog.All()), config.Envs.PresetsFile))
}

func initSolver(ctx context.Context) {
	var err error
	switch config.Envs.SolverBackend {
	case config.SolverHTTP:
		boardSolver, err = solver.NewHTTPClient(
			config.Envs.SolverURL,
			newLogger("SOLVER", config.ColorYellow),
			solver.WithRetry(uint(config.Envs.SolverRetries), 200*time.Millisecond),
		)
	case config.SolverLambda:
		boardSolver, err = solver.NewLambdaClient(ctx, config.Envs.AWSRegion, config.Envs.SolverLambda)
	default:
		appLogger.Warning("No solver configured, solve requests will be rejected")
		return
	}
	if err != nil {
		fatal("Creating solver client", err)
	}
	appLogger.Info(fmt.Sprintf("Solver backend %s initialized", config.Envs.SolverBackend))
}

func initEvents() {
	if config.Envs.NatsURL == "" {
		eventPublisher = events.Noop{}
		appLogger.Info("No NATS_URL set, game events are dropped")
		return
	}
	var err error
	eventPublisher, err = events.Connect(config.Envs.NatsURL, "sweeper")
	if err != nil {
		fatal("Connecting to NATS", err)
	}
	appLogger.Info("Connected to NATS")
}

func initSessionManager() {
	var err error
	gameSessionManager, err = service.NewGameSessionManager(&service.Config{
		Catalog:      presetCatalog,
		Solver:       boardSolver,
		Records:      gameRecordRepo,
		Players:      playerRepo,
		Leaderboard:  leaderboardStore,
		Events:       eventPublisher,
		Logger:       newLogger("SESSION-MANAGER", config.ColorCyan),
		SolveTimeout: config.Envs.SolverTimeout,
		SessionTTL:   config.Envs.SessionTTL,
	})
	if err != nil {
		fatal("Creating session manager", err)
	}
	appLogger.Info("Session manager initialized")
}

func initControllers() {
	var err error
	gameController, err = gameapi.NewGameController(gameSessionManager)
	if err != nil {
		fatal("Creating game controller", err)
	}
	leaderboardController, err = leaderboard.NewController(presetCatalog, leaderboardStore, playerRepo)
	if err != nil {
		fatal("Creating leaderboard controller", err)
	}
	appLogger.Info("Game controllers initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(playerRepo, jwtTokenizer)
	if err != nil {
		fatal("Creating auth service", err)
	}
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService, playerRepo)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, gameController, leaderboardController},
		AuthorizationMiddleware: identity.Authoriz(t),
		ShutdownTimeout:         config.Envs.ShutdownTimeout,
	})
	appLogger.Info("Router initialized")
}

func main() {
	appLogger = newLogger("APP", config.ColorGreen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	initMongo(setupCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRepos(setupCtx)

	initRedis(setupCtx)
	defer redisClient.Close()

	initPresets()
	initSolver(setupCtx)
	initEvents()
	defer eventPublisher.Close()

	initSessionManager()
	defer gameSessionManager.StopAll()

	initControllers()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return router.Run(gctx)
	})
	g.Go(func() error {
		return gameSessionManager.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error(fmt.Sprintf("Server stopped: %v", err))
		return
	}
	appLogger.Info("Server stopped")
}
