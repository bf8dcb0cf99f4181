package usecase

import (
	"testing"

	authdomain "proview-backend/internal/auth/domain"
	"proview-backend/internal/review/domain"
	"proview-backend/internal/review/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReviewRepo is an in-memory ReviewRepository
type fakeReviewRepo struct {
	reviews  map[string]*domain.Review
	votes    map[string]*domain.ReviewVote // keyed by reviewID+"/"+userID
	profiles map[string]*authdomain.Profile
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:  make(map[string]*domain.Review),
		votes:    make(map[string]*domain.ReviewVote),
		profiles: make(map[string]*authdomain.Profile),
	}
}

func (r *fakeReviewRepo) Create(review *domain.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) FindByID(id string) (*domain.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *review
	return &cp, nil
}

func (r *fakeReviewRepo) FindByIDs(ids []string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, id := range ids {
		if review, ok := r.reviews[id]; ok {
			cp := *review
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) FindByProduct(productID string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			cp := *review
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) HasAuthorReview(productID, userID string) (bool, error) {
	for _, review := range r.reviews {
		if review.ProductID == productID && review.GivenBy == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) SetVoteType(reviewID, userID string, vote domain.VoteType) error {
	review, ok := r.reviews[reviewID]
	if !ok || review.GivenBy != userID {
		return repository.ErrReviewNotFound
	}
	review.VoteType = vote
	return nil
}

func (r *fakeReviewRepo) FindVotesByUser(userID string, reviewIDs []string) (map[string]domain.VoteDirection, error) {
	out := make(map[string]domain.VoteDirection)
	for _, id := range reviewIDs {
		if vote, ok := r.votes[id+"/"+userID]; ok {
			out[id] = vote.Vote
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ToggleUpvote(reviewID, userID string) (bool, int, error) {
	review, ok := r.reviews[reviewID]
	if !ok {
		return false, 0, repository.ErrReviewNotFound
	}

	key := reviewID + "/" + userID
	vote, exists := r.votes[key]
	switch {
	case !exists:
		r.votes[key] = &domain.ReviewVote{ReviewID: reviewID, UserID: userID, Vote: domain.VoteUp}
		review.UpvoteCount++
		return true, review.UpvoteCount, nil
	case vote.Vote == domain.VoteUp:
		delete(r.votes, key)
		if review.UpvoteCount > 0 {
			review.UpvoteCount--
		}
		return false, review.UpvoteCount, nil
	default:
		vote.Vote = domain.VoteUp
		review.UpvoteCount++
		return true, review.UpvoteCount, nil
	}
}

func (r *fakeReviewRepo) FindAuthorProfiles(userIDs []string) (map[string]*authdomain.Profile, error) {
	out := make(map[string]*authdomain.Profile)
	for _, id := range userIDs {
		if p, ok := r.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func seedReview(repo *fakeReviewRepo, productID, authorID, text string, vote domain.VoteType) *domain.Review {
	review := &domain.Review{ProductID: productID, GivenBy: authorID, Text: text, VoteType: vote}
	_ = repo.Create(review)
	return review
}

func TestSubmitReview(t *testing.T) {
	repo := newFakeReviewRepo()
	uc := NewReviewUsecase(repo)

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := uc.SubmitReview("user-1", "prod-1", "   ")
		assert.ErrorIs(t, err, ErrEmptyReview)
	})

	t.Run("stores trimmed text", func(t *testing.T) {
		review, err := uc.SubmitReview("user-1", "prod-1", "  great battery life  ")
		require.NoError(t, err)
		assert.Equal(t, "great battery life", review.Text)
		assert.NotEmpty(t, review.ID)
	})

	t.Run("rejects second review of the same product", func(t *testing.T) {
		_, err := uc.SubmitReview("user-1", "prod-1", "changed my mind")
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})

	t.Run("same user may review another product", func(t *testing.T) {
		_, err := uc.SubmitReview("user-1", "prod-2", "different product")
		assert.NoError(t, err)
	})
}

func TestGetProductReviews(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.profiles["alice"] = &authdomain.Profile{ID: "alice", Name: "Alice"}
	repo.profiles["bob"] = &authdomain.Profile{ID: "bob", Name: "Bob"}

	aliceReview := seedReview(repo, "prod-1", "alice", "worth every penny", domain.VoteWorthIt)
	seedReview(repo, "prod-1", "bob", "returned it after a week", domain.VoteSkipIt)

	uc := NewReviewUsecase(repo)

	t.Run("joins author profiles and vote state", func(t *testing.T) {
		_, _, err := repo.ToggleUpvote(aliceReview.ID, "bob")
		require.NoError(t, err)

		resp, err := uc.GetProductReviews("bob", "prod-1", "")
		require.NoError(t, err)
		require.Len(t, resp.Reviews, 2)
		assert.True(t, resp.HasReviewed)

		byID := make(map[string]bool)
		for _, review := range resp.Reviews {
			byID[review.ID] = review.IsUpvoted
		}
		assert.True(t, byID[aliceReview.ID])
	})

	t.Run("other users see hasReviewed false", func(t *testing.T) {
		resp, err := uc.GetProductReviews("carol", "prod-1", "")
		require.NoError(t, err)
		assert.False(t, resp.HasReviewed)
	})

	t.Run("filter narrows by text or author but not the verdict", func(t *testing.T) {
		resp, err := uc.GetProductReviews("bob", "prod-1", "penny")
		require.NoError(t, err)
		require.Len(t, resp.Reviews, 1)
		assert.Equal(t, aliceReview.ID, resp.Reviews[0].ID)

		// Verdict still tallies over both reviews.
		assert.Equal(t, 2, resp.Verdict.Total)
		assert.Equal(t, 1, resp.Verdict.WorthIt.Count)
		assert.Equal(t, 1, resp.Verdict.SkipIt.Count)

		byAuthor, err := uc.GetProductReviews("bob", "prod-1", "Alice")
		require.NoError(t, err)
		require.Len(t, byAuthor.Reviews, 1)
		assert.Equal(t, "Alice", byAuthor.Reviews[0].Profile.Name)
	})

	t.Run("fetch does not mutate state", func(t *testing.T) {
		first, err := uc.GetProductReviews("bob", "prod-1", "")
		require.NoError(t, err)
		second, err := uc.GetProductReviews("bob", "prod-1", "")
		require.NoError(t, err)
		assert.Equal(t, first.Verdict, second.Verdict)
		assert.Len(t, second.Reviews, len(first.Reviews))
	})
}

func TestToggleUpvote(t *testing.T) {
	repo := newFakeReviewRepo()
	review := seedReview(repo, "prod-1", "alice", "solid", "")
	review.UpvoteCount = 5
	repo.reviews[review.ID].UpvoteCount = 5

	uc := NewReviewUsecase(repo)

	t.Run("toggle on then off restores the count", func(t *testing.T) {
		resp, err := uc.ToggleUpvote("bob", review.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsUpvoted)
		assert.Equal(t, 6, resp.UpvoteCount)

		resp, err = uc.ToggleUpvote("bob", review.ID)
		require.NoError(t, err)
		assert.False(t, resp.IsUpvoted)
		assert.Equal(t, 5, resp.UpvoteCount)
	})

	t.Run("downvote flips to upvote", func(t *testing.T) {
		repo.votes[review.ID+"/carol"] = &domain.ReviewVote{
			ReviewID: review.ID, UserID: "carol", Vote: domain.VoteDown,
		}

		resp, err := uc.ToggleUpvote("carol", review.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsUpvoted)
		assert.Equal(t, 6, resp.UpvoteCount)
	})

	t.Run("unknown review maps to not found", func(t *testing.T) {
		_, err := uc.ToggleUpvote("bob", "missing")
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestSetVoteType(t *testing.T) {
	repo := newFakeReviewRepo()
	review := seedReview(repo, "prod-1", "alice", "solid", "")

	uc := NewReviewUsecase(repo)

	t.Run("rejects unknown bucket", func(t *testing.T) {
		err := uc.SetVoteType("alice", review.ID, "amazing")
		assert.ErrorIs(t, err, ErrInvalidVote)
	})

	t.Run("author tags their own review", func(t *testing.T) {
		require.NoError(t, uc.SetVoteType("alice", review.ID, "worthit"))
		stored, err := repo.FindByID(review.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.VoteWorthIt, stored.VoteType)
	})

	t.Run("someone else's review maps to not found", func(t *testing.T) {
		err := uc.SetVoteType("bob", review.ID, "skipit")
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestVerdict(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReview(repo, "prod-1", "u1", "a", domain.VoteWorthIt)
	seedReview(repo, "prod-1", "u2", "b", domain.VoteWorthIt)
	seedReview(repo, "prod-1", "u3", "c", domain.VoteSkipIt)

	uc := NewReviewUsecase(repo)

	v, err := uc.Verdict("prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, 67, v.WorthIt.Percent)
	assert.Equal(t, 33, v.SkipIt.Percent)

	empty, err := uc.Verdict("prod-unknown")
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}
