package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"proview-backend/internal/chat/domain"
	"proview-backend/internal/chat/dto"
	"proview-backend/internal/chat/repository"
	productrepo "proview-backend/internal/product/repository"
	"proview-backend/pkg/ai"
	"proview-backend/pkg/search"
)

var (
	ErrEmptyQuery   = errors.New("query must not be empty")
	ErrChatNotFound = errors.New("chat not found")
	ErrNotOwner     = errors.New("unauthorized")
	// ErrGenerationInFlight guards the retry path: one generation per chat
	// at a time, and a new ask can never race a stale result into another
	// chat's row.
	ErrGenerationInFlight = errors.New("generation already in progress")
)

const maxSources = 5

// chatUsecase implements ChatUsecase
type chatUsecase struct {
	chatRepo    repository.ChatRepository
	productRepo productrepo.ProductRepository
	aiService   ai.AnswerService
	searcher    search.SourceSearcher
	notifier    StatusNotifier

	mu       sync.Mutex
	inFlight map[string]bool // chat IDs with a running generation
}

// NewChatUsecase creates a new chatUsecase. aiService and searcher may be nil;
// asks then fail into the error state instead of panicking.
func NewChatUsecase(
	chatRepo repository.ChatRepository,
	productRepo productrepo.ProductRepository,
	aiService ai.AnswerService,
	searcher search.SourceSearcher,
) ChatUsecase {
	return &chatUsecase{
		chatRepo:    chatRepo,
		productRepo: productRepo,
		aiService:   aiService,
		searcher:    searcher,
		inFlight:    make(map[string]bool),
	}
}

func (u *chatUsecase) SetStatusNotifier(n StatusNotifier) {
	u.notifier = n
}

func (u *chatUsecase) ListChats(userID string) ([]dto.ChatSummary, error) {
	chats, err := u.chatRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summaries = append(summaries, dto.ChatSummary{
			ID:        chat.ID,
			Name:      chat.DisplayName(),
			Status:    string(chat.Status),
			ProductID: chat.ProductID,
		})
	}
	return summaries, nil
}

func (u *chatUsecase) CreateChat(userID, query string) (*domain.Chat, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	chat := &domain.Chat{
		QueriedBy: userID,
		UserQuery: query,
		Status:    domain.StatusPending,
	}
	if err := u.chatRepo.Create(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (u *chatUsecase) DeleteChat(userID, chatID string) error {
	err := u.chatRepo.Delete(chatID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrChatNotFound
	}
	return err
}

func (u *chatUsecase) Ask(ctx context.Context, userID, chatID, prompt string) (*dto.AskResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyQuery
	}

	var chat *domain.Chat
	if chatID == "" {
		created, err := u.CreateChat(userID, prompt)
		if err != nil {
			return nil, err
		}
		chat = created
	} else {
		found, err := u.chatRepo.FindByID(chatID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, ErrChatNotFound
		}
		if found.QueriedBy != userID {
			return nil, ErrNotOwner
		}
		chat = found
	}

	if !u.acquire(chat.ID) {
		return nil, ErrGenerationInFlight
	}
	defer u.release(chat.ID)

	return u.generate(ctx, chat, prompt)
}

func (u *chatUsecase) Retry(ctx context.Context, userID, chatID string) (*dto.AskResponse, error) {
	chat, err := u.chatRepo.FindByID(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if chat.QueriedBy != userID {
		return nil, ErrNotOwner
	}

	if !u.acquire(chat.ID) {
		return nil, ErrGenerationInFlight
	}
	defer u.release(chat.ID)

	return u.generate(ctx, chat, chat.UserQuery)
}

// generate runs one AI pass and persists the outcome. The caller holds the
// in-flight slot for chat.ID.
func (u *chatUsecase) generate(ctx context.Context, chat *domain.Chat, prompt string) (*dto.AskResponse, error) {
	if chat.Status != domain.StatusPending {
		if err := u.chatRepo.SetStatus(chat.ID, domain.StatusPending); err != nil {
			return nil, err
		}
		chat.Status = domain.StatusPending
		u.notify(chat)
	}

	if u.aiService == nil {
		u.fail(chat, fmt.Errorf("no AI provider configured"))
		return nil, fmt.Errorf("no AI provider configured")
	}

	summary, err := u.aiService.AnswerProductQuery(ctx, prompt)
	if err != nil {
		u.fail(chat, err)
		return nil, err
	}

	// Citations are best-effort: a failed search still yields a usable answer.
	var sources []*domain.ChatSource
	if u.searcher != nil {
		results, searchErr := u.searcher.Search(ctx, prompt, maxSources)
		if searchErr != nil {
			log.Printf("[Chat] source search failed for chat %s: %v", chat.ID, searchErr)
		}
		for _, r := range results {
			sources = append(sources, &domain.ChatSource{
				SourceURL:     r.Link,
				SourceSnippet: r.Snippet,
				SourceName:    r.Title,
			})
		}
	}

	// Best-effort product linking; the review thread stays gated until a
	// product is identified.
	if chat.ProductID == nil && u.productRepo != nil {
		if name, extractErr := u.aiService.ExtractProductName(ctx, prompt); extractErr != nil {
			log.Printf("[Chat] product extraction failed for chat %s: %v", chat.ID, extractErr)
		} else if name != "" {
			if product, prodErr := u.productRepo.FindOrCreateByName(name); prodErr != nil {
				log.Printf("[Chat] product lookup failed for %q: %v", name, prodErr)
			} else {
				chat.ProductID = &product.ID
			}
		}
	}

	chat.Summary = summary
	chat.Status = domain.StatusReady
	if err := u.chatRepo.SaveResult(chat, sources); err != nil {
		// The answer exists but is not durable; surface as a failed ask so
		// the client keeps its retry affordance.
		u.fail(chat, err)
		return nil, err
	}
	u.notify(chat)

	return &dto.AskResponse{
		ChatID:     chat.ID,
		Response:   summary,
		SearchData: sourceResponses(sources),
	}, nil
}

func (u *chatUsecase) GetChatDetail(userID, chatID string) (*dto.ChatDetail, error) {
	chat, err := u.chatRepo.FindByID(chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if chat.QueriedBy != userID {
		return nil, ErrNotOwner
	}

	detail := &dto.ChatDetail{
		ID:        chat.ID,
		Name:      chat.DisplayName(),
		UserQuery: chat.UserQuery,
		ProductID: chat.ProductID,
		Sources:   []dto.SourceResponse{},
	}

	// A chat whose summary never landed is retryable, never "ready" with
	// empty text.
	if chat.Summary == "" {
		detail.Status = string(domain.StatusError)
		detail.Retryable = true
		return detail, nil
	}

	sources, err := u.chatRepo.FindSources(chatID)
	if err != nil {
		return nil, err
	}

	detail.Status = string(chat.Status)
	detail.Summary = chat.Summary
	detail.Retryable = chat.Status == domain.StatusError
	detail.Sources = sourceResponses(sources)
	return detail, nil
}

// sourceResponses renders citation chips, deduplicated by derived label.
func sourceResponses(sources []*domain.ChatSource) []dto.SourceResponse {
	out := make([]dto.SourceResponse, 0, len(sources))
	seen := make(map[string]bool)
	for _, s := range sources {
		label := domain.SourceLabel(s.SourceURL)
		if label != "" && seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, dto.SourceResponse{
			Link:    s.SourceURL,
			Snippet: s.SourceSnippet,
			Title:   s.SourceName,
			Label:   label,
		})
	}
	return out
}

func (u *chatUsecase) fail(chat *domain.Chat, cause error) {
	log.Printf("[Chat] generation failed for chat %s: %v", chat.ID, cause)
	if err := u.chatRepo.SetStatus(chat.ID, domain.StatusError); err != nil {
		log.Printf("[Chat] failed to mark chat %s as error: %v", chat.ID, err)
	}
	chat.Status = domain.StatusError
	u.notify(chat)
}

func (u *chatUsecase) notify(chat *domain.Chat) {
	if u.notifier == nil {
		return
	}
	u.notifier.NotifyChatStatus(chat.QueriedBy, chat.ID, chat.Status)
}

func (u *chatUsecase) acquire(chatID string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.inFlight[chatID] {
		return false
	}
	u.inFlight[chatID] = true
	return true
}

func (u *chatUsecase) release(chatID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inFlight, chatID)
}
