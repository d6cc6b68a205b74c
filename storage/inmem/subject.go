package inmem

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/subject"
)

type subjectRepository struct {
	db *DB
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, s *subject.Subject) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s.ID = repo.db.newID()
	clone := *s
	repo.db.subjects[s.ID] = &clone
	return nil
}

func (repo *subjectRepository) GetSubjectByID(_ context.Context, id string) (*subject.Subject, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sub, ok := repo.db.subjects[id]; ok {
		clone := *sub
		clone.Lessons = append([]subject.Lesson(nil), sub.Lessons...)
		clone.Articles = append([]subject.Article(nil), sub.Articles...)
		clone.Teachers = append([]string(nil), sub.Teachers...)
		return &clone, nil
	}
	return nil, subject.ErrNotFound
}

func (repo *subjectRepository) GetAllSubjects(_ context.Context) ([]subject.Subject, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	subs := make([]subject.Subject, 0, len(repo.db.subjects))
	for _, sub := range repo.db.subjects {
		subs = append(subs, *sub)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (repo *subjectRepository) AddLesson(_ context.Context, subjectID string, l *subject.Lesson) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	l.ID = repo.db.newID()
	sub.Lessons = append(sub.Lessons, *l)
	return nil
}

func (repo *subjectRepository) UpdateLesson(_ context.Context, subjectID, lessonID string, edit subject.EditLesson) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	for i := range sub.Lessons {
		if sub.Lessons[i].ID == lessonID {
			if edit.Title != "" {
				sub.Lessons[i].Title = edit.Title
			}
			if edit.Description != "" {
				sub.Lessons[i].Description = edit.Description
			}
			break
		}
	}
	return nil
}

func (repo *subjectRepository) RemoveLesson(_ context.Context, subjectID, lessonID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	for i := range sub.Lessons {
		if sub.Lessons[i].ID == lessonID {
			sub.Lessons = append(sub.Lessons[:i], sub.Lessons[i+1:]...)
			break
		}
	}
	return nil
}

func (repo *subjectRepository) AddArticle(_ context.Context, subjectID string, a *subject.Article) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	a.ID = repo.db.newID()
	sub.Articles = append(sub.Articles, *a)
	return nil
}

func (repo *subjectRepository) UpdateArticle(_ context.Context, subjectID, articleID string, edit subject.EditArticle) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	for i := range sub.Articles {
		if sub.Articles[i].ID == articleID {
			if edit.Title != "" {
				sub.Articles[i].Title = edit.Title
			}
			if edit.Body != "" {
				sub.Articles[i].Body = edit.Body
			}
			break
		}
	}
	return nil
}

func (repo *subjectRepository) RemoveArticle(_ context.Context, subjectID, articleID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	for i := range sub.Articles {
		if sub.Articles[i].ID == articleID {
			sub.Articles = append(sub.Articles[:i], sub.Articles[i+1:]...)
			break
		}
	}
	return nil
}

func (repo *subjectRepository) AddSubjectTeacher(_ context.Context, subjectID, teacherID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sub, ok := repo.db.subjects[subjectID]
	if !ok {
		return subject.ErrNotFound
	}
	if !contains(sub.Teachers, teacherID) {
		sub.Teachers = append(sub.Teachers, teacherID)
	}
	return nil
}
