package models

import "time"

// Election status values. Status is derived from end_time on every read.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Admin request status values
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// Election list filters
const (
	KindAll      = "all"
	KindElection = "election"
	KindPoll     = "poll"
)

// Candidate creation limits
const (
	MinCandidates = 2
	MaxCandidates = 10
)

// CandidateOrder selects how a candidate list is sorted
type CandidateOrder string

const (
	OrderByName  CandidateOrder = "name"
	OrderByVotes CandidateOrder = "votes"
)

// Request types

type ConnectWalletRequest struct {
	WalletAddress string `json:"wallet_address,omitempty"`
}

type CandidateInput struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Position string `json:"position"`
	PhotoURL string `json:"photo_url"`
}

type CreateElectionRequest struct {
	Question    string           `json:"question"`
	Description string           `json:"description"`
	EndTime     time.Time        `json:"end_time"`
	Candidates  []CandidateInput `json:"candidates"`
}

type SubmitVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

type VerifyCandidateRequest struct {
	Verified bool `json:"verified"`
}

type CollegeEmailRequest struct {
	Email string `json:"email"`
}

type AdminAccessRequest struct {
	FaceID string `json:"face_id,omitempty"`
}

// Response types

type ConnectWalletResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Profile   Profile   `json:"profile"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Status     string      `json:"status"`
	Candidates []Candidate `json:"candidates"`
}

type VoteStateResponse struct {
	Voted       bool   `json:"voted"`
	CandidateID string `json:"candidate_id,omitempty"`
}

type SubmitVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

type CollegeEmailResponse struct {
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

type ReconcileResponse struct {
	ElectionID string       `json:"election_id"`
	Drift      []TallyDrift `json:"drift"`
}

// Domain types

type Profile struct {
	ID              string    `json:"id"`
	WalletAddress   string    `json:"wallet_address"`
	IsAdmin         bool      `json:"is_admin"`
	IsSuperAdmin    bool      `json:"is_super_admin"`
	CollegeEmail    *string   `json:"college_email,omitempty"`
	CollegeVerified bool      `json:"college_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session is the authenticated caller, threaded through the request context
type Session struct {
	SessionID       string
	ProfileID       string
	WalletAddress   string
	IsAdmin         bool
	IsSuperAdmin    bool
	CollegeVerified bool
}

// CanAdminister reports whether the caller holds admin or super-admin rights
func (s *Session) CanAdminister() bool {
	return s != nil && (s.IsAdmin || s.IsSuperAdmin)
}

// CanManage reports whether the caller may manage the given election
func (s *Session) CanManage(e Election) bool {
	return s.CanAdminister() || (s != nil && s.WalletAddress == e.Creator)
}

type WalletSession struct {
	ID        string
	ProfileID string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Election is either a formal election or a plain poll (IsElection false)
type Election struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	IsElection  bool      `json:"is_election"`
	CreatedAt   time.Time `json:"created_at"`
	EndTime     time.Time `json:"end_time"`
}

type ElectionSummary struct {
	Election
	Status         string `json:"status"`
	CandidateCount int    `json:"candidate_count"`
	TotalVotes     int    `json:"total_votes"`
}

type Candidate struct {
	ID         string    `json:"id"`
	ElectionID string    `json:"election_id"`
	Name       string    `json:"name"`
	Bio        string    `json:"bio"`
	Position   string    `json:"position"`
	PhotoURL   string    `json:"photo_url"`
	Verified   bool      `json:"verified"`
	VotesCount int       `json:"votes_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type Vote struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	VoterID     string    `json:"voter_id"`
	CandidateID string    `json:"candidate_id"`
	IPHash      *string   `json:"-"` // Never expose in JSON
	UserAgent   *string   `json:"-"` // Never expose in JSON
	CreatedAt   time.Time `json:"created_at"`
}

// BallotRecord is a vote joined with the voter's wallet, for admin views
type BallotRecord struct {
	Vote
	WalletAddress string `json:"wallet_address"`
}

type AdminRequest struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	WalletAddress string    `json:"wallet_address"`
	FaceID        *string   `json:"face_id,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TallyDrift reports a candidate whose counter disagreed with its ballots
type TallyDrift struct {
	CandidateID string `json:"candidate_id"`
	Stored      int    `json:"stored"`
	Counted     int    `json:"counted"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
