package inmem

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/user"
)

type classRepository struct {
	db *DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(_ context.Context, c *class.Class) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, cls := range repo.db.classes {
		if cls.Year == c.Year && cls.Class == c.Class {
			return class.ErrClassExists
		}
	}
	c.ID = repo.db.newID()
	clone := *c
	repo.db.classes[c.ID] = &clone
	return nil
}

func (repo *classRepository) GetClassByID(_ context.Context, id string) (*class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cls, ok := repo.db.classes[id]; ok {
		clone := *cls
		return &clone, nil
	}
	return nil, class.ErrNotFound
}

func (repo *classRepository) GetAllClasses(_ context.Context) ([]class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.classes))
	for _, cls := range repo.db.classes {
		classes = append(classes, *cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes, nil
}

func (repo *classRepository) AddClassMembers(_ context.Context, classID, kind string, ids []string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	cls, ok := repo.db.classes[classID]
	if !ok {
		return class.ErrNotFound
	}
	members := &cls.Students
	if kind == user.RoleTeacher {
		members = &cls.Teachers
	}
	for _, id := range ids {
		if !contains(*members, id) {
			*members = append(*members, id)
		}
	}
	return nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return class.ErrNotFound
	}
	delete(repo.db.classes, id)
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
