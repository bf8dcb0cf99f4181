package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"proview-backend/internal/review/domain"
	"proview-backend/internal/review/dto"
	"proview-backend/internal/review/repository"
	"proview-backend/pkg/fuzzy"
)

var (
	ErrEmptyReview     = errors.New("review text must not be empty")
	ErrAlreadyReviewed = errors.New("you have already reviewed this product")
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidVote     = errors.New("invalid vote option")
	ErrNoVectorIndex   = errors.New("semantic search is not configured")
)

// reviewUsecase implements ReviewUsecase
type reviewUsecase struct {
	reviewRepo  repository.ReviewRepository
	avatars     AvatarResolver
	vectorIndex VectorIndex
	indexWorker *IndexWorker
}

// NewReviewUsecase creates a new reviewUsecase
func NewReviewUsecase(reviewRepo repository.ReviewRepository) ReviewUsecase {
	return &reviewUsecase{reviewRepo: reviewRepo}
}

func (u *reviewUsecase) SetAvatarResolver(resolver AvatarResolver) {
	u.avatars = resolver
}

func (u *reviewUsecase) SetVectorIndex(index VectorIndex) {
	u.vectorIndex = index
	u.indexWorker = NewIndexWorker(index, 2)
	u.indexWorker.Start()
}

func (u *reviewUsecase) GetProductReviews(userID, productID, filter string) (*dto.ReviewListResponse, error) {
	reviews, err := u.reviewRepo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}

	enriched, err := u.enrich(userID, reviews)
	if err != nil {
		return nil, err
	}

	hasReviewed := false
	for _, r := range reviews {
		if r.GivenBy == userID {
			hasReviewed = true
			break
		}
	}

	if filter = strings.TrimSpace(filter); filter != "" {
		filtered := make([]dto.ReviewResponse, 0, len(enriched))
		for _, r := range enriched {
			if fuzzy.MatchReview(filter, r.Text, r.Profile.Name) {
				filtered = append(filtered, r)
			}
		}
		enriched = filtered
	}

	return &dto.ReviewListResponse{
		Reviews:     enriched,
		HasReviewed: hasReviewed,
		// The verdict is tallied over the unfiltered set; the search box
		// narrows the list, not the community outcome.
		Verdict: domain.TallyVerdict(reviews),
	}, nil
}

func (u *reviewUsecase) SubmitReview(userID, productID, text string) (*domain.Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReview
	}

	already, err := u.reviewRepo.HasAuthorReview(productID, userID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyReviewed
	}

	review := &domain.Review{
		ProductID: productID,
		GivenBy:   userID,
		Text:      text,
	}
	if err := u.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	u.queueIndex(review)
	return review, nil
}

func (u *reviewUsecase) SetVoteType(userID, reviewID, option string) error {
	if !domain.ValidVoteType(option) {
		return ErrInvalidVote
	}

	err := u.reviewRepo.SetVoteType(reviewID, userID, domain.VoteType(option))
	if errors.Is(err, repository.ErrReviewNotFound) {
		return ErrReviewNotFound
	}
	return err
}

func (u *reviewUsecase) ToggleUpvote(userID, reviewID string) (*dto.UpvoteResponse, error) {
	upvoted, count, err := u.reviewRepo.ToggleUpvote(reviewID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	return &dto.UpvoteResponse{
		ReviewID:    reviewID,
		IsUpvoted:   upvoted,
		UpvoteCount: count,
	}, nil
}

func (u *reviewUsecase) Verdict(productID string) (domain.Verdict, error) {
	reviews, err := u.reviewRepo.FindByProduct(productID)
	if err != nil {
		return domain.Verdict{}, err
	}
	return domain.TallyVerdict(reviews), nil
}

func (u *reviewUsecase) SemanticSearch(ctx context.Context, userID string, req *dto.SemanticSearchRequest) ([]dto.ReviewResponse, error) {
	if u.vectorIndex == nil {
		return nil, ErrNoVectorIndex
	}

	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	ids, _, err := u.vectorIndex.SemanticSearch(ctx, req.ProductID, req.Query, limit)
	if err != nil {
		return nil, fmt.Errorf("semantic search failed: %w", err)
	}

	reviews, err := u.reviewRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	// Preserve the index's relevance order.
	byID := make(map[string]*domain.Review, len(reviews))
	for _, r := range reviews {
		byID[r.ID] = r
	}
	ordered := make([]*domain.Review, 0, len(reviews))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			ordered = append(ordered, r)
		}
	}

	return u.enrich(userID, ordered)
}

// enrich joins author profiles and the caller's vote state onto raw rows.
func (u *reviewUsecase) enrich(userID string, reviews []*domain.Review) ([]dto.ReviewResponse, error) {
	authorIDs := make([]string, 0, len(reviews))
	reviewIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		authorIDs = append(authorIDs, r.GivenBy)
		reviewIDs = append(reviewIDs, r.ID)
	}

	profiles, err := u.reviewRepo.FindAuthorProfiles(authorIDs)
	if err != nil {
		return nil, err
	}

	votes, err := u.reviewRepo.FindVotesByUser(userID, reviewIDs)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp := dto.ReviewResponse{
			ID:            r.ID,
			ProductID:     r.ProductID,
			GivenBy:       r.GivenBy,
			Text:          r.Text,
			VoteType:      r.VoteType,
			CreatedTime:   r.CreatedTime,
			UpvoteCount:   r.UpvoteCount,
			DownvoteCount: r.DownvoteCount,
			IsUpvoted:     votes[r.ID] == domain.VoteUp,
		}
		if profile, ok := profiles[r.GivenBy]; ok {
			resp.Profile.Name = profile.Name
			resp.Profile.AvatarURL = profile.AvatarPath
			if u.avatars != nil {
				resp.Profile.AvatarURL = u.avatars.PublicURL(profile.AvatarPath)
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (u *reviewUsecase) queueIndex(review *domain.Review) {
	if u.indexWorker == nil {
		return
	}

	authorName := ""
	if profiles, err := u.reviewRepo.FindAuthorProfiles([]string{review.GivenBy}); err == nil {
		if p, ok := profiles[review.GivenBy]; ok {
			authorName = p.Name
		}
	}

	if !u.indexWorker.Queue(IndexJob{
		ReviewID:   review.ID,
		ProductID:  review.ProductID,
		AuthorName: authorName,
		Text:       review.Text,
	}) {
		log.Printf("[Review] index queue full, skipping review %s", review.ID)
	}
}
