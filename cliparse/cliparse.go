package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Secret used to sign and verify API bearer tokens.
	APISecret          string
	TokenExpireMinutes int

	// External identity provider (OpenID Connect).
	OIDCBaseURL      string
	OIDCClientID     string
	OIDCClientSecret string

	// Maintenance: promote this user to admin and exit.
	PromoteUser int64
}

// ParseFlags validates flags, falling back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("livevote", flag.ContinueOnError)

	// Network and database config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.IntVar(&cfg.TokenExpireMinutes, "token-expire", 0, "Bearer token lifetime in minutes")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.APISecret, "api-secret", "", "API token signing secret (prefer env)")
	fs.StringVar(&cfg.OIDCBaseURL, "oidc-url", "", "Identity provider base URL")
	fs.StringVar(&cfg.OIDCClientID, "oidc-client", "", "Identity provider client ID")
	fs.StringVar(&cfg.OIDCClientSecret, "oidc-secret", "", "Identity provider client secret (prefer env)")

	// Maintenance operations
	fs.Int64Var(&cfg.PromoteUser, "promote", 0, "Promote the given user ID to admin and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8421 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "livevote.db"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.TokenExpireMinutes == 0 {
		if expStr := os.Getenv("TOKEN_EXPIRE_MINUTES"); expStr != "" {
			exp, err := strconv.Atoi(expStr)
			if err != nil {
				return Config{}, errors.New("invalid TOKEN_EXPIRE_MINUTES env variable")
			}
			cfg.TokenExpireMinutes = exp
		} else {
			cfg.TokenExpireMinutes = 12 * 60 // 12 hours
		}
	}

	// Secrets - MUST be provided
	if cfg.APISecret == "" {
		cfg.APISecret = os.Getenv("API_SECRET")
	}
	if cfg.APISecret == "" {
		return Config{}, errors.New("API_SECRET required")
	}

	// Identity provider settings are only needed for the login flow,
	// so they are not required here. Token exchange fails cleanly when
	// they are missing.
	if cfg.OIDCBaseURL == "" {
		cfg.OIDCBaseURL = os.Getenv("OIDC_BASE_URL")
	}
	if cfg.OIDCClientID == "" {
		cfg.OIDCClientID = os.Getenv("OIDC_CLIENT_ID")
	}
	if cfg.OIDCClientSecret == "" {
		cfg.OIDCClientSecret = os.Getenv("OIDC_CLIENT_SECRET")
	}

	return cfg, nil
}
