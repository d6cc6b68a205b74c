package assess

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core/user"
)

// stubRepo backs the handle tests; it serves fixed records and counts reads.
type stubRepo struct {
	Repository

	asg      *Assignment
	asgErr   error
	exam     *Exam
	asgReads int
	exmReads int
}

func (r *stubRepo) GetAssignmentByID(ctx context.Context, id string) (*Assignment, error) {
	r.asgReads++
	if r.asgErr != nil {
		return nil, r.asgErr
	}
	if r.asg == nil || r.asg.ID != id {
		return nil, ErrAssignmentNotFound
	}
	return r.asg, nil
}

func (r *stubRepo) GetExamByID(ctx context.Context, id string) (*Exam, error) {
	r.exmReads++
	if r.exam == nil || r.exam.ID != id {
		return nil, ErrExamNotFound
	}
	return r.exam, nil
}

func (r *stubRepo) SetExamApproved(ctx context.Context, id string) error {
	r.exam.Approved = true
	return nil
}

func (r *stubRepo) SetExamAvailable(ctx context.Context, id string, available bool) error {
	r.exam.Available = available
	return nil
}

func Test_newQuestions(t *testing.T) {
	qs := newQuestions([]NewQuestion{
		{Type: "equation", Question: "2+2?"},
		{Type: "blank", Question: "x=?", Answers: []string{"1", "2"}},
		{Type: "equation", Question: "3*3?"},
	})

	assert.Len(t, qs, 3)
	for i, q := range qs {
		assert.Equal(t, i, q.ID)
	}
	assert.Equal(t, "x=?", qs[1].Question)
	assert.Equal(t, []string{"1", "2"}, qs[1].Answers)
}

func Test_checkAnswers(t *testing.T) {
	questions := []Question{
		{ID: 0, Question: "2+2?"},
		{ID: 1, Question: "x=?"},
		{ID: 2, Question: "3*3?"},
	}

	tests := []struct {
		name      string
		submitted []user.Answer
		want      []user.Answer
	}{
		{
			name:      "all answered",
			submitted: []user.Answer{{QuestionID: 0, Answer: "4"}, {QuestionID: 1, Answer: "7"}, {QuestionID: 2, Answer: "9"}},
			want:      []user.Answer{{QuestionID: 0, Answer: "4"}, {QuestionID: 1, Answer: "7"}, {QuestionID: 2, Answer: "9"}},
		},
		{
			name:      "missing answers are blank-filled",
			submitted: []user.Answer{{QuestionID: 2, Answer: "9"}},
			want:      []user.Answer{{QuestionID: 0}, {QuestionID: 1}, {QuestionID: 2, Answer: "9"}},
		},
		{
			name:      "unknown ids are dropped",
			submitted: []user.Answer{{QuestionID: 0, Answer: "4"}, {QuestionID: 42, Answer: "lol"}},
			want:      []user.Answer{{QuestionID: 0, Answer: "4"}, {QuestionID: 1}, {QuestionID: 2}},
		},
		{
			name:      "first duplicate wins",
			submitted: []user.Answer{{QuestionID: 1, Answer: "7"}, {QuestionID: 1, Answer: "8"}},
			want:      []user.Answer{{QuestionID: 0}, {QuestionID: 1, Answer: "7"}, {QuestionID: 2}},
		},
		{
			name:      "output order follows the question list",
			submitted: []user.Answer{{QuestionID: 2, Answer: "9"}, {QuestionID: 0, Answer: "4"}},
			want:      []user.Answer{{QuestionID: 0, Answer: "4"}, {QuestionID: 1}, {QuestionID: 2, Answer: "9"}},
		},
		{
			name: "nothing submitted",
			want: []user.Answer{{QuestionID: 0}, {QuestionID: 1}, {QuestionID: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkAnswers(questions, tt.submitted))
		})
	}
}

func Test_AssignmentHandle_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches once", func(t *testing.T) {
		repo := &stubRepo{asg: &Assignment{ID: "a1", Subject: "math"}}
		svc := NewService(repo, nil, nil)

		h := svc.Assignment("a1")
		asg, err := h.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "math", asg.Subject)

		_, _ = h.Get(ctx)
		_, _ = h.CheckAnswer(ctx, nil)
		assert.Equal(t, 1, repo.asgReads)
	})

	t.Run("failed fetch is sticky", func(t *testing.T) {
		repo := &stubRepo{}
		svc := NewService(repo, nil, nil)

		h := svc.Assignment("nope")
		_, err := h.Get(ctx)
		assert.Equal(t, ErrAssignmentNotFound, err)

		// record appearing later does not revive the handle
		repo.asg = &Assignment{ID: "nope"}
		_, err = h.Get(ctx)
		assert.Equal(t, ErrAssignmentNotFound, err)
		assert.Equal(t, 1, repo.asgReads)
	})

	t.Run("transient error is kept as-is", func(t *testing.T) {
		repo := &stubRepo{asgErr: errors.New("storage offline")}
		svc := NewService(repo, nil, nil)

		h := svc.Assignment("a1")
		_, err := h.Get(ctx)
		assert.EqualError(t, err, "storage offline")

		// the cached failure is the original error, not a not-found
		repo.asgErr = nil
		repo.asg = &Assignment{ID: "a1"}
		_, err = h.Get(ctx)
		assert.EqualError(t, err, "storage offline")
		assert.Equal(t, 1, repo.asgReads)
	})
}

func Test_ExamHandle_CheckAnswer(t *testing.T) {
	ctx := context.Background()
	questions := []Question{{ID: 0, Question: "2+2?"}}

	t.Run("unavailable exam is gated", func(t *testing.T) {
		repo := &stubRepo{exam: &Exam{ID: "e1", Questions: questions}}
		svc := NewService(repo, nil, nil)

		_, err := svc.Exam("e1").CheckAnswer(ctx, []user.Answer{{QuestionID: 0, Answer: "4"}})
		assert.Equal(t, ErrExamUnavailable, err)
	})

	t.Run("available exam is checked", func(t *testing.T) {
		repo := &stubRepo{exam: &Exam{ID: "e1", Questions: questions, Available: true}}
		svc := NewService(repo, nil, nil)

		checked, err := svc.Exam("e1").CheckAnswer(ctx, []user.Answer{{QuestionID: 0, Answer: "4"}})
		assert.NoError(t, err)
		assert.Equal(t, []user.Answer{{QuestionID: 0, Answer: "4"}}, checked)
	})
}

func Test_ExamHandle_flags(t *testing.T) {
	ctx := context.Background()
	repo := &stubRepo{exam: &Exam{ID: "e1"}}
	svc := NewService(repo, nil, nil)

	// approval does not make the exam available
	h := svc.Exam("e1")
	assert.NoError(t, h.Approve(ctx))
	exam, err := h.Get(ctx)
	assert.NoError(t, err)
	assert.True(t, exam.Approved)
	assert.False(t, exam.Available)

	assert.NoError(t, h.SetAvailable(ctx, true))
	exam, _ = h.Get(ctx)
	assert.True(t, exam.Available)

	// availability can be pulled back without touching approval
	assert.NoError(t, h.SetAvailable(ctx, false))
	exam, _ = h.Get(ctx)
	assert.True(t, exam.Approved)
	assert.False(t, exam.Available)
}
