package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/db"
)

// Vote write modes
const (
	VoteModeAtomic     = "atomic"
	VoteModeSequential = "sequential"
)

// DefaultSuperAdminWallet is the wallet that is promoted to super-admin on connect.
const DefaultSuperAdminWallet = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	SessionSecret    string
	SessionTTL       time.Duration
	SuperAdminWallet string
	VoteMode         string
	VoteRateLimit    float64
	VoteRateBurst    int
	LogLevel         string
	LogFormat        string
}

// envConfig mirrors Config for environment parsing.
type envConfig struct {
	Port             int           `env:"PORT" envDefault:"3318"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DatabaseType     string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	SessionSecret    string        `env:"SESSION_SECRET"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SuperAdminWallet string        `env:"SUPER_ADMIN_WALLET"`
	VoteMode         string        `env:"VOTE_MODE" envDefault:"atomic"`
	VoteRateLimit    float64       `env:"VOTE_RATE_LIMIT" envDefault:"2"`
	VoteRateBurst    int           `env:"VOTE_RATE_BURST" envDefault:"5"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"text"`
}

// LoadDotEnv loads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ParseFlags reads the environment, then lets CLI flags override it.
func ParseFlags(args []string) (Config, error) {
	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := Config(envCfg)

	flags := flag.NewFlagSet("votechain", flag.ContinueOnError)

	// Network and storage
	flags.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	flags.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	flags.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Session signing secret (prefer env)")
	flags.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Session lifetime")
	flags.StringVar(&cfg.SuperAdminWallet, "super-admin", cfg.SuperAdminWallet, "Wallet address granted super-admin on connect")

	// Voting
	flags.StringVar(&cfg.VoteMode, "vote-mode", cfg.VoteMode, "Vote write mode (atomic or sequential)")
	flags.Float64Var(&cfg.VoteRateLimit, "vote-rate", cfg.VoteRateLimit, "Vote submissions per second per IP")
	flags.IntVar(&cfg.VoteRateBurst, "vote-burst", cfg.VoteRateBurst, "Vote submission burst per IP")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return Config{}, err
	}
	cfg.DatabaseType = string(dialect)

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}
	if len(cfg.SessionSecret) < 16 {
		return Config{}, errors.New("SESSION_SECRET must be at least 16 bytes")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if cfg.SuperAdminWallet == "" {
		cfg.SuperAdminWallet = DefaultSuperAdminWallet
	}
	if !auth.IsWalletAddress(cfg.SuperAdminWallet) {
		return Config{}, errors.New("super-admin wallet must be a 0x-prefixed 40 hex character address")
	}

	if cfg.VoteMode != VoteModeAtomic && cfg.VoteMode != VoteModeSequential {
		return Config{}, fmt.Errorf("unsupported vote mode %q", cfg.VoteMode)
	}
	if cfg.VoteRateLimit <= 0 || cfg.VoteRateBurst <= 0 {
		return Config{}, errors.New("vote rate limit and burst must be positive")
	}

	return cfg, nil
}
