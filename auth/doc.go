// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity, token, and ID generation utilities.

# Wallets

Wallet connection is simulated. A wallet address is 0x followed by 40 random
hex characters:

	addr, err := auth.GenerateWalletAddress()
	ok := auth.IsWalletAddress(addr)

No key pair backs the address; it is only a stable identifier for a profile.

# Sessions

Sessions are HS256 JWTs signed with the configured secret:

	signer := auth.NewSessionSigner(cfg.SessionSecret, nil)
	token, err := signer.Issue(auth.SessionClaims{...})
	claims, err := signer.Verify(token)

The jti claim carries the session row ID so a session can be revoked on
disconnect. Verify checks signature, algorithm, issuer, and expiry; the caller
still has to check the session row.

# IDs

	auth.NewID()        // UUID for database rows
	auth.GenerateID(16) // random hex

# IP Hashing

Client IPs stored with ballots are salted HMAC hashes:

	ipHash := auth.HashIP(clientIP, salt)

# College Email

IsCollegeEmail accepts well-formed addresses on .edu domains only.
*/
package auth
