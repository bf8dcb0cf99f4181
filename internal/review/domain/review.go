package domain

import (
	"math"
	"time"
)

// VoteType is the author's verdict tag on their own review. Unset until the
// author answers the post-submission prompt.
type VoteType string

const (
	VoteWorthIt VoteType = "worthit"
	VoteMaybe   VoteType = "maybe"
	VoteSkipIt  VoteType = "skipit"
)

// ValidVoteType reports whether s is one of the three verdict buckets.
func ValidVoteType(s string) bool {
	switch VoteType(s) {
	case VoteWorthIt, VoteMaybe, VoteSkipIt:
		return true
	}
	return false
}

// VoteDirection is a reader's up/down signal on someone else's review,
// distinct from the review's own verdict tag.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Review is one community review of a product. A user may review a product
// once; the uniqueIndex backs the composer gating in the client.
type Review struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	ProductID     string    `json:"product_id" gorm:"index;uniqueIndex:idx_product_author;not null"`
	GivenBy       string    `json:"given_by" gorm:"uniqueIndex:idx_product_author;not null"`
	Text          string    `json:"text" gorm:"type:text;not null"`
	VoteType      VoteType  `json:"vote_type,omitempty"`
	CreatedTime   time.Time `json:"created_time"`
	UpvoteCount   int       `json:"upvote_count" gorm:"default:0"`
	DownvoteCount int       `json:"downvote_count" gorm:"default:0"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewVote is one reader's signal on one review. At most one row per
// (review, user).
type ReviewVote struct {
	ID        string        `json:"id" gorm:"primaryKey"`
	ReviewID  string        `json:"review_id" gorm:"index;uniqueIndex:idx_review_user;not null"`
	UserID    string        `json:"user_id" gorm:"uniqueIndex:idx_review_user;not null"`
	Vote      VoteDirection `json:"vote"`
	CreatedAt time.Time     `json:"created_at"`
}

func (ReviewVote) TableName() string {
	return "review_votes"
}

// VerdictBucket is one slice of the three-way community verdict.
type VerdictBucket struct {
	Count   int `json:"count"`
	Percent int `json:"percent"`
}

// Verdict is the aggregate tally over a product's reviews. Reviews without a
// verdict tag count toward none of the buckets.
type Verdict struct {
	WorthIt VerdictBucket `json:"worthit"`
	Maybe   VerdictBucket `json:"maybe"`
	SkipIt  VerdictBucket `json:"skipit"`
	Total   int           `json:"total"`
}

// TallyVerdict counts verdict tags into the three buckets. Percent is
// round(count/total*100), or 0 for every bucket when no review is tagged.
func TallyVerdict(reviews []*Review) Verdict {
	var v Verdict
	for _, r := range reviews {
		switch r.VoteType {
		case VoteWorthIt:
			v.WorthIt.Count++
		case VoteMaybe:
			v.Maybe.Count++
		case VoteSkipIt:
			v.SkipIt.Count++
		}
	}

	v.Total = v.WorthIt.Count + v.Maybe.Count + v.SkipIt.Count
	if v.Total == 0 {
		return v
	}

	v.WorthIt.Percent = percent(v.WorthIt.Count, v.Total)
	v.Maybe.Percent = percent(v.Maybe.Count, v.Total)
	v.SkipIt.Percent = percent(v.SkipIt.Count, v.Total)
	return v
}

func percent(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}
