package delivery

import (
	"errors"
	"net/http"

	"proview-backend/internal/review/dto"
	"proview-backend/internal/review/usecase"

	"github.com/gin-gonic/gin"
)

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{reviewUsecase: reviewUsecase}
}

// GetProductReviews returns the review thread for a product
// GET /api/products/:id/reviews?q=
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	userID := c.GetString("userID")
	productID := c.Param("id")
	filter := c.Query("q")

	resp, err := h.reviewUsecase.GetProductReviews(userID, productID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitReview adds the caller's review of a product
// POST /api/products/:id/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID := c.GetString("userID")
	productID := c.Param("id")

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewUsecase.SubmitReview(userID, productID, req.Text)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// SetVoteType tags the caller's review with a verdict bucket
// PATCH /api/reviews/:id/vote-type
func (h *ReviewHandler) SetVoteType(c *gin.Context) {
	userID := c.GetString("userID")
	reviewID := c.Param("id")

	var req dto.VoteTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reviewUsecase.SetVoteType(userID, reviewID, req.VoteType); err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote type updated"})
}

// ToggleUpvote toggles the caller's upvote on a review
// POST /api/reviews/:id/upvote
func (h *ReviewHandler) ToggleUpvote(c *gin.Context) {
	userID := c.GetString("userID")
	reviewID := c.Param("id")

	resp, err := h.reviewUsecase.ToggleUpvote(userID, reviewID)
	if err != nil {
		h.writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verdict returns the three-bucket tally for a product
// GET /api/products/:id/verdict
func (h *ReviewHandler) Verdict(c *gin.Context) {
	productID := c.Param("id")

	verdict, err := h.reviewUsecase.Verdict(productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// SemanticSearch finds reviews by meaning via the vector index
// POST /api/reviews/search/semantic
func (h *ReviewHandler) SemanticSearch(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.SemanticSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reviews, err := h.reviewUsecase.SemanticSearch(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, usecase.ErrNoVectorIndex) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *ReviewHandler) writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
	case errors.Is(err, usecase.ErrEmptyReview), errors.Is(err, usecase.ErrInvalidVote):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
