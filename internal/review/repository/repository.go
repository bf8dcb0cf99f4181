package repository

import (
	authdomain "proview-backend/internal/auth/domain"
	"proview-backend/internal/review/domain"
)

// ReviewRepository defines the data access surface for reviews and votes
type ReviewRepository interface {
	// Create inserts a new review
	Create(review *domain.Review) error

	// FindByID finds a review by its ID
	FindByID(id string) (*domain.Review, error)

	// FindByIDs finds reviews by ID, preserving no particular order
	FindByIDs(ids []string) ([]*domain.Review, error)

	// FindByProduct returns all reviews for a product, newest first
	FindByProduct(productID string) ([]*domain.Review, error)

	// HasAuthorReview reports whether the user already reviewed the product
	HasAuthorReview(productID, userID string) (bool, error)

	// SetVoteType tags the author's own review with a verdict bucket
	SetVoteType(reviewID, userID string, vote domain.VoteType) error

	// FindVotesByUser returns the user's vote direction per review ID
	FindVotesByUser(userID string, reviewIDs []string) (map[string]domain.VoteDirection, error)

	// ToggleUpvote runs the three-way toggle for (reviewID, userID) in a
	// single transaction: no row inserts "up" (+1), an "up" row is deleted
	// (-1, floored at 0), a "down" row flips to "up" (+1). Returns the
	// resulting vote state and counter.
	ToggleUpvote(reviewID, userID string) (upvoted bool, upvoteCount int, err error)

	// FindAuthorProfiles batch-loads author profiles by user ID
	FindAuthorProfiles(userIDs []string) (map[string]*authdomain.Profile, error)
}
