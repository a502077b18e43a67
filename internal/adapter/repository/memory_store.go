package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/gas1730-arch/oi-market/internal/domain/entity"
	"github.com/gas1730-arch/oi-market/internal/domain/repository"
	"github.com/gas1730-arch/oi-market/pkg/errors"
)

// ErrTxConflict is wrapped into the internal error returned when an item
// transaction keeps losing to concurrent writers.
var ErrTxConflict = stderrors.New("transaction conflict")

type versionedItem struct {
	item    *entity.Item
	version uint64
}

// MemoryStore keeps items, bids and chats in process memory. Item
// transactions use optimistic concurrency: the closure runs against a copy and
// the commit only lands if nobody else committed the item in the meantime,
// which mirrors how Firestore transactions behave under contention.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*versionedItem
	bids  map[string][]*entity.Bid
	chats map[string]*entity.Chat

	maxAttempts  int
	beforeCommit func(attempt int, pending *entity.Item)
}

func NewMemoryStore(maxAttempts int) *MemoryStore {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MemoryStore{
		items:       make(map[string]*versionedItem),
		bids:        make(map[string][]*entity.Bid),
		chats:       make(map[string]*entity.Chat),
		maxAttempts: maxAttempts,
	}
}

// SetBeforeCommitHook installs fn to run after a transaction closure returned
// successfully and before its commit is attempted. pending is the mutated copy
// about to be written. Tests use it to line up concurrent transactions.
func (s *MemoryStore) SetBeforeCommitHook(fn func(attempt int, pending *entity.Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeCommit = fn
}

func (s *MemoryStore) hook() func(int, *entity.Item) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.beforeCommit
}

type memoryItemRepository struct {
	store *MemoryStore
}

func NewMemoryItemRepository(store *MemoryStore) repository.ItemRepository {
	return &memoryItemRepository{store: store}
}

func (r *memoryItemRepository) Create(ctx context.Context, item *entity.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if _, exists := s.items[item.ID]; exists {
		return errors.Invalid("Item already exists", nil)
	}

	s.items[item.ID] = &versionedItem{item: item.Clone()}
	return nil
}

func (r *memoryItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	return v.item.Clone(), nil
}

func (r *memoryItemRepository) ListBids(ctx context.Context, itemID string, limit int) ([]*entity.Bid, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.bids[itemID]
	bids := make([]*entity.Bid, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		if limit > 0 && len(bids) == limit {
			break
		}
		bid := *stored[i]
		bids = append(bids, &bid)
	}
	return bids, nil
}

func (r *memoryItemRepository) RunItemTransaction(ctx context.Context, itemID string, fn repository.ItemTxFunc) error {
	s := r.store

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Internal("Item transaction cancelled", err)
		}

		s.mu.RLock()
		v, ok := s.items[itemID]
		var (
			working *entity.Item
			version uint64
		)
		if ok {
			working = v.item.Clone()
			version = v.version
		}
		s.mu.RUnlock()

		if !ok {
			return errors.NotFound("Item", nil)
		}

		bid, err := fn(ctx, working)
		if err != nil {
			return err
		}

		if hook := s.hook(); hook != nil {
			hook(attempt, working)
		}

		if s.commit(itemID, version, working, bid) {
			return nil
		}
	}

	return errors.Internal(fmt.Sprintf("Item transaction gave up after %d attempts", s.maxAttempts), ErrTxConflict)
}

func (s *MemoryStore) commit(itemID string, readVersion uint64, item *entity.Item, bid *entity.Bid) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[itemID]
	if !ok || current.version != readVersion {
		return false
	}

	item.ID = itemID
	s.items[itemID] = &versionedItem{item: item.Clone(), version: readVersion + 1}

	if bid != nil {
		if bid.ID == "" {
			bid.ID = ulid.Make().String()
		}
		bid.ItemID = itemID
		stored := *bid
		s.bids[itemID] = append(s.bids[itemID], &stored)
	}
	return true
}

type memoryChatRepository struct {
	store *MemoryStore
}

func NewMemoryChatRepository(store *MemoryStore) repository.ChatRepository {
	return &memoryChatRepository{store: store}
}

func (r *memoryChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	chat, ok := s.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	c := *chat
	return &c, nil
}

func (r *memoryChatRepository) CreateIfAbsent(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if existing, ok := s.chats[chat.ID]; ok {
		c := *existing
		return &c, nil
	}

	stored := *chat
	s.chats[chat.ID] = &stored
	c := stored
	return &c, nil
}

func (r *memoryChatRepository) FindOrCreateByParticipants(ctx context.Context, newChat *entity.Chat) (*entity.Chat, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chat := range s.chats {
		if chat.ItemID == newChat.ItemID && chat.SellerID == newChat.SellerID && chat.OtherUID == newChat.OtherUID {
			c := *chat
			return &c, nil
		}
	}

	stored := *newChat
	stored.ID = uuid.New().String()
	s.chats[stored.ID] = &stored
	c := stored
	return &c, nil
}

// ChatCount reports how many chat rooms exist.
func (s *MemoryStore) ChatCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chats)
}
