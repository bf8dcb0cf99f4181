package dto

import (
	"time"

	"proview-backend/internal/review/domain"
)

// AuthorProfile is the denormalized author block on each review.
type AuthorProfile struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ReviewResponse is one review enriched with its author profile and the
// caller's vote state.
type ReviewResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	GivenBy       string          `json:"given_by"`
	Text          string          `json:"text"`
	VoteType      domain.VoteType `json:"vote_type,omitempty"`
	CreatedTime   time.Time       `json:"created_time"`
	UpvoteCount   int             `json:"upvote_count"`
	DownvoteCount int             `json:"downvote_count"`
	Profile       AuthorProfile   `json:"profiles"`
	IsUpvoted     bool            `json:"isUpvoted"`
}

// ReviewListResponse is the thread screen payload.
type ReviewListResponse struct {
	Reviews     []ReviewResponse `json:"reviews"`
	HasReviewed bool             `json:"hasReviewed"`
	Verdict     domain.Verdict   `json:"verdict"`
}

type SubmitReviewRequest struct {
	Text string `json:"text" binding:"required"`
}

type VoteTypeRequest struct {
	VoteType string `json:"vote_type" binding:"required,oneof=worthit maybe skipit"`
}

// UpvoteResponse reflects the post-toggle state; the client still re-fetches
// the full list so displayed counts match server state.
type UpvoteResponse struct {
	ReviewID    string `json:"review_id"`
	IsUpvoted   bool   `json:"isUpvoted"`
	UpvoteCount int    `json:"upvote_count"`
}

type SemanticSearchRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Query     string `json:"query" binding:"required"`
	Limit     int    `json:"limit"`
}
