package inmem

import (
	"context"

	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, u := range repo.db.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = repo.db.newID()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	for _, u := range repo.db.users {
		if u.ID != usr.ID && u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) DeleteUser(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(repo.db.users, id)
	return nil
}

func (repo *userRepository) CreateStudent(_ context.Context, std user.Student) (user.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	std.ID = repo.db.newID()
	if std.Assignments == nil {
		std.Assignments = []user.AnswerSheet{}
	}
	if std.Exams == nil {
		std.Exams = []user.AnswerSheet{}
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *userRepository) GetStudentByID(_ context.Context, id string) (user.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return user.Student{}, user.ErrProfileNotFound
}

func (repo *userRepository) UpdateStudent(_ context.Context, std user.Student) (user.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return user.Student{}, user.ErrProfileNotFound
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *userRepository) AppendAnswerSheet(_ context.Context, studentID, kind string, sheet user.AnswerSheet) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	std, ok := repo.db.students[studentID]
	if !ok {
		return user.ErrProfileNotFound
	}
	history := &std.Assignments
	if kind == user.KindExam {
		history = &std.Exams
	}
	for _, entry := range *history {
		if entry.ItemID == sheet.ItemID {
			return user.ErrAlreadyAnswered
		}
	}
	*history = append(*history, sheet)
	return nil
}

func (repo *userRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return user.ErrProfileNotFound
	}
	delete(repo.db.students, id)
	return nil
}

func (repo *userRepository) CreateTeacher(_ context.Context, tch user.Teacher) (user.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	tch.ID = repo.db.newID()
	if tch.ClassesTaken == nil {
		tch.ClassesTaken = []string{}
	}
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *userRepository) GetTeacherByID(_ context.Context, id string) (user.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return user.Teacher{}, user.ErrProfileNotFound
}

func (repo *userRepository) UpdateTeacher(_ context.Context, tch user.Teacher) (user.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.teachers[tch.ID]; !ok {
		return user.Teacher{}, user.ErrProfileNotFound
	}
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *userRepository) AddClassTaken(_ context.Context, teacherID, classID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	tch, ok := repo.db.teachers[teacherID]
	if !ok {
		return user.ErrProfileNotFound
	}
	for _, id := range tch.ClassesTaken {
		if id == classID {
			return user.ErrClassTaken
		}
	}
	tch.ClassesTaken = append(tch.ClassesTaken, classID)
	return nil
}

func (repo *userRepository) DeleteTeacher(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.teachers[id]; !ok {
		return user.ErrProfileNotFound
	}
	delete(repo.db.teachers, id)
	return nil
}
