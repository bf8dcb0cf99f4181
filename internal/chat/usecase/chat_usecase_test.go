package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"proview-backend/internal/chat/domain"
	productdomain "proview-backend/internal/product/domain"
	"proview-backend/pkg/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatRepo is an in-memory ChatRepository
type fakeChatRepo struct {
	mu      sync.Mutex
	chats   map[string]*domain.Chat
	sources map[string][]*domain.ChatSource
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:   make(map[string]*domain.Chat),
		sources: make(map[string][]*domain.ChatSource),
	}
}

func (r *fakeChatRepo) Create(chat *domain.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	cp := *chat
	r.chats[chat.ID] = &cp
	return nil
}

func (r *fakeChatRepo) FindByID(id string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, nil
	}
	cp := *chat
	return &cp, nil
}

func (r *fakeChatRepo) FindByUser(userID string) ([]*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Chat
	for _, chat := range r.chats {
		if chat.QueriedBy == userID {
			cp := *chat
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) SetStatus(id string, status domain.ChatStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return errors.New("missing chat")
	}
	chat.Status = status
	return nil
}

func (r *fakeChatRepo) SaveResult(chat *domain.Chat, sources []*domain.ChatSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *chat
	r.chats[chat.ID] = &cp
	r.sources[chat.ID] = sources
	return nil
}

func (r *fakeChatRepo) FindSources(chatID string) ([]*domain.ChatSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sources[chatID], nil
}

// Delete removes the chat and its sources together, matching the
// transactional contract of the gorm implementation.
func (r *fakeChatRepo) Delete(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok || chat.QueriedBy != userID {
		return errors.New("chat not found")
	}
	delete(r.chats, id)
	delete(r.sources, id)
	return nil
}

// fakeProductRepo records FindOrCreateByName calls
type fakeProductRepo struct {
	products map[string]*productdomain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*productdomain.Product)}
}

func (r *fakeProductRepo) FindOrCreateByName(name string) (*productdomain.Product, error) {
	if p, ok := r.products[name]; ok {
		return p, nil
	}
	p := &productdomain.Product{ID: uuid.New().String(), Name: name}
	r.products[name] = p
	return p, nil
}

func (r *fakeProductRepo) FindByID(id string) (*productdomain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// fakeAI answers with a canned summary and product name
type fakeAI struct {
	answer      string
	answerErr   error
	productName string
	started     chan struct{} // signalled when a generation enters
	block       chan struct{} // when set, AnswerProductQuery waits on it
}

func (a *fakeAI) AnswerProductQuery(ctx context.Context, query string) (string, error) {
	if a.started != nil {
		select {
		case a.started <- struct{}{}:
		default:
		}
	}
	if a.block != nil {
		<-a.block
	}
	return a.answer, a.answerErr
}

func (a *fakeAI) ExtractProductName(ctx context.Context, query string) (string, error) {
	return a.productName, nil
}

// fakeSearcher returns canned sources
type fakeSearcher struct {
	results []search.Source
	err     error
}

func (s *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]search.Source, error) {
	return s.results, s.err
}

// recordingNotifier captures status transitions in order
type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.ChatStatus
}

func (n *recordingNotifier) NotifyChatStatus(userID, chatID string, status domain.ChatStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, status)
}

func (n *recordingNotifier) statuses() []domain.ChatStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.ChatStatus(nil), n.events...)
}

func TestAskCreatesChatAndPersistsResult(t *testing.T) {
	repo := newFakeChatRepo()
	products := newFakeProductRepo()
	ai := &fakeAI{answer: "A solid buy.", productName: "Sony WH-1000XM5"}
	searcher := &fakeSearcher{results: []search.Source{
		{Link: "https://www.sony.com/review", Snippet: "official specs", Title: "Sony"},
		{Link: "https://www.rtings.com/review", Snippet: "measurements", Title: "Rtings"},
	}}

	uc := NewChatUsecase(repo, products, ai, searcher)

	resp, err := uc.Ask(context.Background(), "user-1", "", "Are the XM5s worth it?")
	require.NoError(t, err)
	assert.Equal(t, "A solid buy.", resp.Response)
	assert.Len(t, resp.SearchData, 2)
	assert.Equal(t, "sony", resp.SearchData[0].Label)

	chat, err := repo.FindByID(resp.ChatID)
	require.NoError(t, err)
	require.NotNil(t, chat)
	assert.Equal(t, domain.StatusReady, chat.Status)
	assert.Equal(t, "A solid buy.", chat.Summary)
	require.NotNil(t, chat.ProductID)

	product, err := products.FindByID(*chat.ProductID)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Sony WH-1000XM5", product.Name)
}

func TestAskFailurePersistsErrorStatus(t *testing.T) {
	repo := newFakeChatRepo()
	ai := &fakeAI{answerErr: errors.New("quota exhausted")}
	notifier := &recordingNotifier{}

	uc := NewChatUsecase(repo, newFakeProductRepo(), ai, nil)
	uc.SetStatusNotifier(notifier)

	resp, err := uc.Ask(context.Background(), "user-1", "", "anything")
	assert.Error(t, err)
	assert.Nil(t, resp)

	chats, err := repo.FindByUser("user-1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, domain.StatusError, chats[0].Status)
	assert.Empty(t, chats[0].Summary)
	assert.Contains(t, notifier.statuses(), domain.StatusError)
}

func TestAskEmptyPromptRejected(t *testing.T) {
	uc := NewChatUsecase(newFakeChatRepo(), newFakeProductRepo(), &fakeAI{answer: "x"}, nil)

	_, err := uc.Ask(context.Background(), "user-1", "", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAskRejectsForeignChat(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo, newFakeProductRepo(), &fakeAI{answer: "x"}, nil)

	chat, err := uc.CreateChat("owner", "their question")
	require.NoError(t, err)

	_, err = uc.Ask(context.Background(), "intruder", chat.ID, "mine now")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestConcurrentGenerationRejected(t *testing.T) {
	repo := newFakeChatRepo()
	ai := &fakeAI{answer: "late answer", started: make(chan struct{}, 1), block: make(chan struct{})}
	uc := NewChatUsecase(repo, newFakeProductRepo(), ai, nil)

	chat, err := uc.CreateChat("user-1", "slow question")
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := uc.Ask(context.Background(), "user-1", chat.ID, "slow question")
		firstDone <- err
	}()
	<-ai.started

	// Second ask for the same chat must bounce while the first is running.
	_, err = uc.Retry(context.Background(), "user-1", chat.ID)
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(ai.block)
	require.NoError(t, <-firstDone)

	// The slot frees after completion.
	resp, err := uc.Retry(context.Background(), "user-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "late answer", resp.Response)
}

func TestRetryReplaysStoredQuery(t *testing.T) {
	repo := newFakeChatRepo()
	ai := &fakeAI{answerErr: errors.New("first pass down")}
	notifier := &recordingNotifier{}

	uc := NewChatUsecase(repo, newFakeProductRepo(), ai, nil)
	uc.SetStatusNotifier(notifier)

	chat, err := uc.CreateChat("user-1", "original question")
	require.NoError(t, err)

	_, err = uc.Ask(context.Background(), "user-1", chat.ID, "original question")
	require.Error(t, err)

	// Provider recovers; retry uses the chat's stored query.
	ai.answerErr = nil
	ai.answer = "recovered answer"

	resp, err := uc.Retry(context.Background(), "user-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "recovered answer", resp.Response)

	updated, err := repo.FindByID(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, updated.Status)

	// error -> pending -> ready passes through on the notifier.
	statuses := notifier.statuses()
	assert.Contains(t, statuses, domain.StatusPending)
	assert.Equal(t, domain.StatusReady, statuses[len(statuses)-1])
}

func TestGetChatDetailMissingSummaryIsRetryableError(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo, newFakeProductRepo(), &fakeAI{answer: "x"}, nil)

	chat := &domain.Chat{QueriedBy: "user-1", UserQuery: "lost generation", Status: domain.StatusReady}
	require.NoError(t, repo.Create(chat))

	detail, err := uc.GetChatDetail("user-1", chat.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusError), detail.Status)
	assert.True(t, detail.Retryable)
	assert.Empty(t, detail.Summary)
	assert.Empty(t, detail.Sources)
}

func TestGetChatDetailDeduplicatesSourceLabels(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo, newFakeProductRepo(), &fakeAI{answer: "x"}, nil)

	chat := &domain.Chat{QueriedBy: "user-1", UserQuery: "q", Status: domain.StatusReady, Summary: "done"}
	require.NoError(t, repo.Create(chat))
	require.NoError(t, repo.SaveResult(chat, []*domain.ChatSource{
		{SourceURL: "https://www.sony.com/a", SourceName: "Sony A"},
		{SourceURL: "https://store.sony.com/b", SourceName: "Sony B"},
		{SourceURL: "https://www.rtings.com/c", SourceName: "Rtings"},
	}))

	detail, err := uc.GetChatDetail("user-1", chat.ID)
	require.NoError(t, err)
	require.Len(t, detail.Sources, 2)
	assert.Equal(t, "sony", detail.Sources[0].Label)
	assert.Equal(t, "rtings", detail.Sources[1].Label)
}

func TestDeleteChatScopedToOwner(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo, newFakeProductRepo(), &fakeAI{answer: "x"}, nil)

	chat, err := uc.CreateChat("owner", "to be deleted")
	require.NoError(t, err)
	require.NoError(t, repo.SaveResult(chat, []*domain.ChatSource{
		{ChatID: chat.ID, SourceURL: "https://www.sony.com/a"},
	}))

	require.NoError(t, uc.DeleteChat("owner", chat.ID))

	found, err := repo.FindByID(chat.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	// Sources go with the chat, never orphaned.
	sources, err := repo.FindSources(chat.ID)
	require.NoError(t, err)
	assert.Empty(t, sources)
}
