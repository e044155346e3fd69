// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open accepts "sqlite" or "postgres" and returns the connection plus its
Dialect:

	conn, dialect, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections get foreign_keys and busy_timeout pragmas and are limited
to one open connection.

# Placeholders

Queries are written with ? placeholders. Dialect.Rebind rewrites them to $1,
$2, ... for PostgreSQL:

	conn.QueryRow(dialect.Rebind("SELECT id FROM election WHERE id = ?"), id)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same DDL runs on both databases. Timestamps are BIGINT Unix milliseconds.

# Tables

  - profile: wallet identities and admin flags
  - wallet_session: issued sessions, revocable
  - election: elections and polls with their end time
  - candidate: options per election with a votes_count tally
  - vote: one row per (election, voter)
  - admin_request: requests for admin access

# Relationships

	profile  1──* wallet_session
	profile  1──* vote
	profile  1──* admin_request
	election 1──* candidate
	election 1──* vote
	candidate 1──* vote

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

IsUniqueViolation classifies driver errors from lib/pq and modernc.org/sqlite.
*/
package db
