// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Sessions

SessionAuth turns an Authorization: Bearer token into a models.Session:

	sessions := middleware.NewSessionAuth(signer, st, nil)
	mux.HandleFunc("GET /me", middleware.WithLogging(sessions.RequireSession(h.GetMe)))

The token must verify and its wallet_session row must be unrevoked and
unexpired. Admin flags are read from the profile on every request.
RequireSession answers 401 otherwise. OptionalSession lets anonymous callers
through without a session.

Handlers read the caller with:

	session := middleware.SessionFromContext(r.Context()) // nil when anonymous

# Rate Limiting

IPRateLimiter keeps one token bucket per client IP:

	limiter := middleware.NewIPRateLimiter(rate.Limit(2), 5)
	mux.HandleFunc("POST /elections/{id}/votes", middleware.RateLimit(limiter, h.SubmitVote))

Exhausted buckets get 429 with reason "rate_limited". Idle IPs are pruned
lazily.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type and Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.ReasonErrorResponse(w, http.StatusConflict, "message", "already_voted")

Parse JSON request bodies:

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used for the IP hash stored with each vote. Rate limiting keys on
middleware.RemoteIP instead, the connection's peer address, so forged
forwarding headers cannot mint fresh buckets.
*/
package middleware
