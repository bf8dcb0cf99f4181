package domain

import (
	"strings"
	"time"
)

// ChatStatus represents the lifecycle state of a chat's AI summary
type ChatStatus string

const (
	StatusPending ChatStatus = "pending"
	StatusReady   ChatStatus = "ready"
	StatusError   ChatStatus = "error"
)

// Chat is a single product-query session: the user's question, the
// AI-generated summary and its cited sources.
type Chat struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	QueriedBy   string     `json:"queried_by" gorm:"index;not null"`
	UserQuery   string     `json:"user_query" gorm:"type:text;not null"`
	Status      ChatStatus `json:"status" gorm:"default:pending"`
	ProductID   *string    `json:"product_id,omitempty" gorm:"index"`
	Summary     string     `json:"summary,omitempty" gorm:"type:text"`
	GeneratedOn time.Time  `json:"generated_on"`
}

func (Chat) TableName() string {
	return "chats"
}

const displayNameLimit = 30

// DisplayName is the drawer label: the query unchanged when it fits,
// otherwise the first 30 characters followed by "...". Counted in runes so
// multi-byte queries are never split mid-character.
func (c *Chat) DisplayName() string {
	runes := []rune(c.UserQuery)
	if len(runes) <= displayNameLimit {
		return c.UserQuery
	}
	return string(runes[:displayNameLimit]) + "..."
}

// ChatSource is one citation attached to a chat's summary. Read-only after
// creation.
type ChatSource struct {
	ID            string `json:"id" gorm:"primaryKey"`
	ChatID        string `json:"chat_id" gorm:"index;not null"`
	SourceURL     string `json:"source_url"`
	SourceSnippet string `json:"source_snippet" gorm:"type:text"`
	SourceName    string `json:"source_name"`
}

func (ChatSource) TableName() string {
	return "chat_sources"
}

// SourceLabel derives the reference-chip label from a source link: the
// dot-separated piece right before ".com", or the piece right after "www."
// for other TLDs. Links matching neither produce "".
func SourceLabel(link string) string {
	if strings.Contains(link, ".com") {
		head := strings.Split(link, ".com")[0]
		parts := strings.Split(head, ".")
		return parts[len(parts)-1]
	}
	if _, after, ok := strings.Cut(link, "www."); ok {
		return strings.Split(after, ".")[0]
	}
	return ""
}
