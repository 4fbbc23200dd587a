package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Solver backends.
const (
	SolverHTTP   = "http"
	SolverLambda = "lambda"
	SolverNone   = "none"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string        // Host IP for the server
	RESTPort        int           // Port for the REST API
	DBHost          string        // Hostname or IP address for the database
	DBPort          int           // Port number for the database
	DBUser          string        // Username for the database
	DBPassword      string        // Password for the database
	DBName          string        // Name of the database
	RedisAddr       string        // host:port of the leaderboard Redis
	RedisPassword   string        // Password for Redis, may be empty
	LeaderboardTTL  int           // Seconds a leaderboard lives without new entries, 0 keeps it
	GinMode         string        // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret       string        // Secret key for JWT signing
	JWTIssuer       string        // Issuer claim for JWTs
	SolverBackend   string        // http, lambda or none
	SolverURL       string        // Endpoint of the HTTP solver
	SolverLambda    string        // Function name of the Lambda solver
	AWSRegion       string        // Region of the Lambda solver
	SolverRetries   int           // Attempts per solve request for the HTTP solver
	SolverTimeout   time.Duration // Deadline of one solve request
	NatsURL         string        // NATS server for game events, empty disables events
	SessionTTL      time.Duration // Idle time after which a game is evicted
	PresetsFile     string        // Optional YAML file replacing the built in presets
	ShutdownTimeout time.Duration // Grace period for in flight requests on shutdown
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	c := Config{
		DBHost:          mustGetEnv("DB_HOST"),
		DBPort:          mustGetEnvAsInt("DB_PORT"),
		DBUser:          mustGetEnv("DB_USER"),
		DBPassword:      mustGetEnv("DB_PASS"),
		DBName:          mustGetEnv("DB_NAME"),
		RedisAddr:       mustGetEnv("REDIS_ADDR"),
		RedisPassword:   getEnvWithDefault("REDIS_PASSWORD", ""),
		LeaderboardTTL:  getEnvAsIntWithDefault("LEADERBOARD_TTL", 0),
		GinMode:         getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:       mustGetEnv("JWT_SECRET"),
		JWTIssuer:       mustGetEnv("JWT_ISSUER"),
		HostIP:          mustGetEnv("HOST_IP"),
		RESTPort:        mustGetEnvAsInt("REST_PORT"),
		SolverBackend:   getEnvWithDefault("SOLVER_BACKEND", SolverHTTP),
		SolverURL:       getEnvWithDefault("SOLVER_URL", ""),
		SolverLambda:    getEnvWithDefault("SOLVER_LAMBDA", ""),
		AWSRegion:       getEnvWithDefault("AWS_REGION", "us-east-1"),
		SolverRetries:   getEnvAsIntWithDefault("SOLVER_RETRIES", 3),
		SolverTimeout:   getEnvAsDurationWithDefault("SOLVER_TIMEOUT", 10*time.Second),
		NatsURL:         getEnvWithDefault("NATS_URL", ""),
		SessionTTL:      getEnvAsDurationWithDefault("SESSION_TTL", time.Hour),
		PresetsFile:     getEnvWithDefault("PRESETS_FILE", ""),
		ShutdownTimeout: getEnvAsDurationWithDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	switch c.SolverBackend {
	case SolverHTTP:
		if c.SolverURL == "" {
			log.Fatalf("[APP] [FATAL] SOLVER_URL is required for the http solver backend")
		}
	case SolverLambda:
		if c.SolverLambda == "" {
			log.Fatalf("[APP] [FATAL] SOLVER_LAMBDA is required for the lambda solver backend")
		}
	case SolverNone:
	default:
		log.Fatalf("[APP] [FATAL] Unknown SOLVER_BACKEND %q", c.SolverBackend)
	}
	return c
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

func getEnvAsDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be a duration: %v", key, err)
	}
	return value
}
