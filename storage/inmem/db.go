// Package inmem provides in-memory repositories mirroring the mongodb
// contracts; they back the tests.
package inmem

import (
	"fmt"
	"sync"

	"github.com/trezcool/darasa/core/assess"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/live"
	"github.com/trezcool/darasa/core/subject"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		mu sync.RWMutex
		pk int

		users       map[string]*user.User
		students    map[string]*user.Student
		teachers    map[string]*user.Teacher
		classes     map[string]*class.Class
		assignments map[string]*assess.Assignment
		exams       map[string]*assess.Exam
		subjects    map[string]*subject.Subject
		lives       map[string]*live.Session
	}
)

func Open() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		students:    make(map[string]*user.Student),
		teachers:    make(map[string]*user.Teacher),
		classes:     make(map[string]*class.Class),
		assignments: make(map[string]*assess.Assignment),
		exams:       make(map[string]*assess.Exam),
		subjects:    make(map[string]*subject.Subject),
		lives:       make(map[string]*live.Session),
	}
}

// newID must be called with the write lock held.
func (db *DB) newID() string {
	db.pk++
	return fmt.Sprintf("%024d", db.pk)
}
