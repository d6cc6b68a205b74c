package inmem

import (
	"context"

	"github.com/trezcool/darasa/core/live"
)

type liveRepository struct {
	db *DB
}

var _ live.Repository = (*liveRepository)(nil) // interface compliance check

func NewLiveRepository(db *DB) live.Repository {
	return &liveRepository{db: db}
}

func (repo *liveRepository) CreateSession(_ context.Context, s *live.Session) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s.ID = repo.db.newID()
	clone := *s
	repo.db.lives[s.ID] = &clone
	return nil
}

func (repo *liveRepository) GetSessionByID(_ context.Context, id string) (*live.Session, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sess, ok := repo.db.lives[id]; ok {
		clone := *sess
		return &clone, nil
	}
	return nil, live.ErrNotFound
}
