package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Environment string `json:"environment" env:"CARO_ENV"`
	Server      struct {
		Host string `json:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
		Port int    `json:"port" env:"PORT" env-default:"8080"`
	} `json:"server"`
	Frontend struct {
		URL string `json:"url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	} `json:"frontend"`
	Engine struct {
		MaxDepth          int   `json:"maxDepth" env:"ENGINE_MAX_DEPTH" env-default:"7"`
		NodeBudget        int64 `json:"nodeBudget" env:"ENGINE_NODE_BUDGET" env-default:"400000"`
		DisableRefine     bool  `json:"disableRefine" env:"ENGINE_DISABLE_REFINE"`
		ResponseCacheSize int   `json:"responseCacheSize" env:"ENGINE_RESPONSE_CACHE_SIZE" env-default:"1024"`
	} `json:"engine"`
	DecisionLog struct {
		Driver        string `json:"driver" env:"DECISION_LOG_DRIVER"` // "mongo", "sqlite" or empty
		MongoURI      string `json:"mongoUri" env:"MONGODB_URI" env-default:"mongodb://localhost:27017"`
		MongoDatabase string `json:"mongoDatabase" env:"MONGODB_DATABASE" env-default:"caro"`
		SQLitePath    string `json:"sqlitePath" env:"SQLITE_PATH" env-default:"decisions.db"`
	} `json:"decisionLog"`
	RateLimit struct {
		MovesPerMinute int `json:"movesPerMinute" env:"RATE_LIMIT_MOVES_PER_MINUTE" env-default:"120"`
	} `json:"rateLimit"`
	Log struct {
		Level  string `json:"level" env:"LOG_LEVEL" env-default:"info"`
		Pretty bool   `json:"pretty" env:"LOG_PRETTY"`
	} `json:"log"`
}

// Load reads configs/config.<env>.json (directory overridable with
// CONFIG_DIR) and applies environment overrides. Without a file the
// configuration comes from the environment and defaults alone.
func Load(env string) (*Config, error) {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}
	configPath := filepath.Join(configDir, fmt.Sprintf("config.%s.json", env))

	var cfg Config
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config file %s: %w", configPath, err)
	}

	cfg.Environment = env
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Engine.MaxDepth < 0 {
		return fmt.Errorf("engine maxDepth must not be negative, got %d", c.Engine.MaxDepth)
	}
	if c.Engine.NodeBudget < 0 {
		return fmt.Errorf("engine nodeBudget must not be negative, got %d", c.Engine.NodeBudget)
	}
	switch c.DecisionLog.Driver {
	case "", "none", "mongo", "sqlite":
	default:
		return fmt.Errorf("unknown decision log driver %q", c.DecisionLog.Driver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Usage describes the environment variables understood by Load.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}

func GetEnv() string {
	env := os.Getenv("CARO_ENV")
	if env == "" {
		return "dev"
	}
	return env
}
