// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite; timestamps are Unix milliseconds.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Profiles (wallet identities)
CREATE TABLE IF NOT EXISTS profile (
    id TEXT PRIMARY KEY,
    wallet_address TEXT NOT NULL UNIQUE,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    is_super_admin BOOLEAN NOT NULL DEFAULT FALSE,
    college_email TEXT,
    college_verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

-- Wallet sessions
CREATE TABLE IF NOT EXISTS wallet_session (
    id TEXT PRIMARY KEY,
    profile_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    created_at BIGINT NOT NULL,
    expires_at BIGINT NOT NULL,
    revoked_at BIGINT
);

CREATE INDEX IF NOT EXISTS idx_wallet_session_profile ON wallet_session(profile_id);

-- Elections and polls
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    creator TEXT NOT NULL,
    is_election BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL,
    end_time BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_election_created_at ON election(created_at);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    photo_url TEXT NOT NULL DEFAULT '',
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    votes_count INTEGER NOT NULL DEFAULT 0 CHECK (votes_count >= 0),
    created_at BIGINT NOT NULL,
    UNIQUE (election_id, name)
);

CREATE INDEX IF NOT EXISTS idx_candidate_election_id ON candidate(election_id);

-- Votes (one per voter per election)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    candidate_id TEXT NOT NULL REFERENCES candidate(id) ON DELETE CASCADE,
    ip_hash TEXT,
    user_agent TEXT,
    created_at BIGINT NOT NULL,
    UNIQUE (election_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter_id ON vote(voter_id);

-- Admin access requests
CREATE TABLE IF NOT EXISTS admin_request (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    wallet_address TEXT NOT NULL,
    face_id TEXT,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
    created_at BIGINT NOT NULL,
    updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_admin_request_user ON admin_request(user_id);
CREATE INDEX IF NOT EXISTS idx_admin_request_status ON admin_request(status);

-- At most one pending request per user
CREATE UNIQUE INDEX IF NOT EXISTS idx_admin_request_one_pending ON admin_request(user_id) WHERE status = 'pending';
`
