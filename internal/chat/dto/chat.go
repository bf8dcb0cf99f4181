package dto

// AskRequest is the body of POST /api/ask. ChatID is empty when the client
// asks before a chat row exists; UserID is accepted for wire compatibility
// but the authenticated user always wins.
type AskRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

// SourceResponse is one citation rendered as a reference chip.
type SourceResponse struct {
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Title   string `json:"title"`
	Label   string `json:"label,omitempty"`
}

// AskResponse mirrors the /api/ask contract the mobile client consumes.
type AskResponse struct {
	ChatID     string           `json:"chatId"`
	Response   string           `json:"response"`
	SearchData []SourceResponse `json:"searchData,omitempty"`
}

type CreateChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// ChatSummary is one drawer row.
type ChatSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	ProductID *string `json:"product_id,omitempty"`
}

// ChatDetail is the full chat screen payload. Retryable is set when the
// summary is absent or generation failed, in which case UserQuery carries the
// query to replay.
type ChatDetail struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Status    string           `json:"status"`
	Summary   string           `json:"summary,omitempty"`
	UserQuery string           `json:"user_query"`
	ProductID *string          `json:"product_id,omitempty"`
	Sources   []SourceResponse `json:"sources"`
	Retryable bool             `json:"retryable"`
}
