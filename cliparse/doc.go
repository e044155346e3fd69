// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads an optional .env file first. Values already present in the
process environment are never overwritten.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: connection string or SQLite path (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSecret: HMAC key for session tokens (required, 16+ bytes)
  - SessionTTL: session lifetime (default: 24h)
  - SuperAdminWallet: wallet promoted to super-admin on connect
  - VoteMode: atomic or sequential vote writes (default: atomic)
  - VoteRateLimit, VoteRateBurst: per-IP vote submission limits
  - LogLevel, LogFormat: slog handler settings (env only)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	--session-secret Session signing secret
	--session-ttl    Session lifetime
	--super-admin    Super-admin wallet address
	--vote-mode      atomic | sequential
	--vote-rate      Votes per second per IP
	--vote-burst     Vote burst per IP

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	SESSION_SECRET     → --session-secret
	SESSION_TTL        → --session-ttl
	SUPER_ADMIN_WALLET → --super-admin
	VOTE_MODE          → --vote-mode
	VOTE_RATE_LIMIT    → --vote-rate
	VOTE_RATE_BURST    → --vote-burst

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - SESSION_SECRET must be provided and at least 16 bytes
  - DATABASE_TYPE must be sqlite or postgres
  - VOTE_MODE must be atomic or sequential
*/
package cliparse
