package inmem

import (
	"context"
	"sort"

	"github.com/trezcool/darasa/core/assess"
)

type assessRepository struct {
	db *DB
}

var _ assess.Repository = (*assessRepository)(nil) // interface compliance check

func NewAssessRepository(db *DB) assess.Repository {
	return &assessRepository{db: db}
}

func (repo *assessRepository) CreateAssignment(_ context.Context, a *assess.Assignment) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	a.ID = repo.db.newID()
	if a.Classes == nil {
		a.Classes = []string{}
	}
	clone := *a
	repo.db.assignments[a.ID] = &clone
	return nil
}

func (repo *assessRepository) GetAssignmentByID(_ context.Context, id string) (*assess.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		clone := *asg
		return &clone, nil
	}
	return nil, assess.ErrAssignmentNotFound
}

func (repo *assessRepository) GetAssignmentsByClass(_ context.Context, classID string) ([]assess.Assignment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	asgs := make([]assess.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if contains(asg.Classes, classID) {
			asgs = append(asgs, *asg)
		}
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].ID < asgs[j].ID })
	return asgs, nil
}

func (repo *assessRepository) CreateExam(_ context.Context, e *assess.Exam) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e.ID = repo.db.newID()
	clone := *e
	repo.db.exams[e.ID] = &clone
	return nil
}

func (repo *assessRepository) GetExamByID(_ context.Context, id string) (*assess.Exam, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if exam, ok := repo.db.exams[id]; ok {
		clone := *exam
		return &clone, nil
	}
	return nil, assess.ErrExamNotFound
}

func (repo *assessRepository) FindExams(_ context.Context, filter assess.ExamFilter) ([]assess.Exam, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	exams := make([]assess.Exam, 0)
	for _, exam := range repo.db.exams {
		if filter.ForMonth != nil && exam.ForMonth != *filter.ForMonth {
			continue
		}
		if filter.Approved != nil && exam.Approved != *filter.Approved {
			continue
		}
		if filter.Available != nil && exam.Available != *filter.Available {
			continue
		}
		if filter.Subject != "" && exam.Subject != filter.Subject {
			continue
		}
		if filter.SchoolYear != nil && exam.SchoolYear != *filter.SchoolYear {
			continue
		}
		exams = append(exams, *exam)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })
	return exams, nil
}

func (repo *assessRepository) SetExamApproved(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	exam, ok := repo.db.exams[id]
	if !ok {
		return assess.ErrExamNotFound
	}
	exam.Approved = true
	return nil
}

func (repo *assessRepository) SetExamAvailable(_ context.Context, id string, available bool) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	exam, ok := repo.db.exams[id]
	if !ok {
		return assess.ErrExamNotFound
	}
	exam.Available = available
	return nil
}

func (repo *assessRepository) DeleteExam(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.exams[id]; !ok {
		return assess.ErrExamNotFound
	}
	delete(repo.db.exams, id)
	return nil
}
