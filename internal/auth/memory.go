package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
)

// MemoryStore keeps accounts in process memory for demo mode. Each instance
// is independent.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (m *MemoryStore) CreateUser(_ context.Context, email, name, passwordHash string, initialCoins int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[email]; ok {
		return nil, db.ErrDuplicate
	}
	u := models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Coins:        initialCoins,
		CreatedAt:    time.Now().UTC(),
	}
	m.byID[u.ID] = u
	m.byEmail[email] = u.ID
	return &u, nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	u := m.byID[id]
	return &u, nil
}

func (m *MemoryStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &u, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
