// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VoteChain API server.

VoteChain runs polls and elections for wallet-identified voters: one ballot
per voter per election, a denormalized tally per candidate, and live
results with percentages and a ranking.

# Starting the Server

The server reads a .env file, then environment variables, then CLI flags:

	DATABASE_URL=votechain.db SESSION_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): HMAC key for session tokens, 16+ bytes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (--session-ttl): Session lifetime (default: 24h)
  - SUPER_ADMIN_WALLET (--super-admin): Wallet promoted on connect
  - VOTE_MODE (--vote-mode): atomic or sequential (default: atomic)
  - VOTE_RATE_LIMIT, VOTE_RATE_BURST: Per-IP vote submission limits
  - LOG_LEVEL, LOG_FORMAT: slog level and text or json output

# Architecture

  - voting: Vote submission, vote state, results, close
  - store: SQL persistence for every table
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: Sessions, rate limiting, CORS, logging, JSON helpers
  - models: Domain and request/response types
  - auth: IDs, wallets, IP hashing, session tokens
  - db: Drivers, dialects, schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
