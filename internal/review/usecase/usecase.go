package usecase

import (
	"context"

	"proview-backend/internal/review/domain"
	"proview-backend/internal/review/dto"
)

// AvatarResolver turns a stored avatar object path into a public URL.
// Satisfied by pkg/storage.Client.
type AvatarResolver interface {
	PublicURL(path string) string
}

// VectorIndex is the semantic index over review text. Satisfied by
// pkg/chroma.ChromaClient.
type VectorIndex interface {
	UpsertReviewEmbedding(ctx context.Context, reviewID, productID, authorName, text string) error
	SemanticSearch(ctx context.Context, productID, query string, limit int) ([]string, []float64, error)
}

// ReviewUsecase defines the business logic for the review thread
type ReviewUsecase interface {
	// GetProductReviews loads the thread: reviews joined with author profile,
	// per-review isUpvoted for the caller, the verdict tally and the
	// hasReviewed flag. filter optionally narrows by review text or author
	// name, case-insensitively.
	GetProductReviews(userID, productID, filter string) (*dto.ReviewListResponse, error)

	// SubmitReview inserts a review for the caller; rejects empty text and
	// a second review of the same product
	SubmitReview(userID, productID, text string) (*domain.Review, error)

	// SetVoteType tags the caller's own review with a verdict bucket
	SetVoteType(userID, reviewID, option string) error

	// ToggleUpvote runs the three-way up-vote toggle on a review
	ToggleUpvote(userID, reviewID string) (*dto.UpvoteResponse, error)

	// Verdict computes the three-bucket tally for a product
	Verdict(productID string) (domain.Verdict, error)

	// SemanticSearch finds reviews by meaning; errors when no vector index
	// is configured
	SemanticSearch(ctx context.Context, userID string, req *dto.SemanticSearchRequest) ([]dto.ReviewResponse, error)

	// SetAvatarResolver wires avatar URL resolution (optional)
	SetAvatarResolver(resolver AvatarResolver)

	// SetVectorIndex wires the semantic index and its background worker
	// (optional)
	SetVectorIndex(index VectorIndex)
}
