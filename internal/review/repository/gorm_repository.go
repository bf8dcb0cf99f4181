package repository

import (
	"errors"
	"time"

	authdomain "proview-backend/internal/auth/domain"
	"proview-backend/internal/review/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrVoteNotFound   = errors.New("vote not found")
)

// gormReviewRepository implements ReviewRepository using GORM
type gormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GORM-based ReviewRepository
func NewGormReviewRepository(db *gorm.DB) ReviewRepository {
	return &gormReviewRepository{db: db}
}

func (r *gormReviewRepository) Create(review *domain.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedTime = time.Now()
	return r.db.Create(review).Error
}

func (r *gormReviewRepository) FindByID(id string) (*domain.Review, error) {
	var review domain.Review
	err := r.db.Where("id = ?", id).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormReviewRepository) FindByIDs(ids []string) ([]*domain.Review, error) {
	if len(ids) == 0 {
		return []*domain.Review{}, nil
	}
	var reviews []*domain.Review
	err := r.db.Where("id IN ?", ids).Find(&reviews).Error
	return reviews, err
}

func (r *gormReviewRepository) FindByProduct(productID string) ([]*domain.Review, error) {
	var reviews []*domain.Review
	err := r.db.Where("product_id = ?", productID).
		Order("created_time DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *gormReviewRepository) HasAuthorReview(productID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Review{}).
		Where("product_id = ? AND given_by = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *gormReviewRepository) SetVoteType(reviewID, userID string, vote domain.VoteType) error {
	result := r.db.Model(&domain.Review{}).
		Where("id = ? AND given_by = ?", reviewID, userID).
		Update("vote_type", vote)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *gormReviewRepository) FindVotesByUser(userID string, reviewIDs []string) (map[string]domain.VoteDirection, error) {
	result := make(map[string]domain.VoteDirection)
	if len(reviewIDs) == 0 {
		return result, nil
	}

	var votes []*domain.ReviewVote
	err := r.db.Where("user_id = ? AND review_id IN ?", userID, reviewIDs).Find(&votes).Error
	if err != nil {
		return nil, err
	}

	for _, vote := range votes {
		result[vote.ReviewID] = vote.Vote
	}
	return result, nil
}

// ToggleUpvote serializes the read-branch-write sequence inside one
// transaction so two rapid taps cannot interleave against the same
// (review, user) pair.
func (r *gormReviewRepository) ToggleUpvote(reviewID, userID string) (bool, int, error) {
	var upvoted bool
	var newCount int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var review domain.Review
		if err := tx.Where("id = ?", reviewID).First(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		var vote domain.ReviewVote
		err := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).First(&vote).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No vote yet: insert "up" and bump the counter.
			vote = domain.ReviewVote{
				ID:        uuid.New().String(),
				ReviewID:  reviewID,
				UserID:    userID,
				Vote:      domain.VoteUp,
				CreatedAt: time.Now(),
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			newCount = review.UpvoteCount + 1
			upvoted = true

		case err != nil:
			return err

		case vote.Vote == domain.VoteUp:
			// Second tap: remove the vote, decrement floored at zero.
			if err := tx.Delete(&vote).Error; err != nil {
				return err
			}
			newCount = review.UpvoteCount - 1
			if newCount < 0 {
				newCount = 0
			}
			upvoted = false

		default:
			// Existing "down": flip to "up" and bump the counter.
			if err := tx.Model(&vote).Update("vote", domain.VoteUp).Error; err != nil {
				return err
			}
			newCount = review.UpvoteCount + 1
			upvoted = true
		}

		return tx.Model(&domain.Review{}).Where("id = ?", reviewID).
			Update("upvote_count", newCount).Error
	})

	if err != nil {
		return false, 0, err
	}
	return upvoted, newCount, nil
}

func (r *gormReviewRepository) FindAuthorProfiles(userIDs []string) (map[string]*authdomain.Profile, error) {
	result := make(map[string]*authdomain.Profile)
	if len(userIDs) == 0 {
		return result, nil
	}

	var profiles []*authdomain.Profile
	err := r.db.Where("id IN ?", userIDs).Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	for _, profile := range profiles {
		result[profile.ID] = profile
	}
	return result, nil
}
