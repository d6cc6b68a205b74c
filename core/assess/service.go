package assess

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/user"
)

var (
	ErrAssignmentNotFound = core.NewNotFoundError("assignment not found")
	ErrExamNotFound       = core.NewNotFoundError("exam not found")
	// ErrExamUnavailable blocks answer submission against an exam whose
	// Available flag is off. This is a gate, not a validation failure.
	ErrExamUnavailable = core.NewUnauthorizedError("this exam is not available now")
	// ErrExamRestricted blocks non-privileged reads of an unavailable exam.
	ErrExamRestricted = core.NewUnauthorizedError("only admin can access this exam")
	ErrInvalidClass   = core.NewBadRequestError("invalid class")
)

type Repository interface {
	CreateAssignment(ctx context.Context, a *Assignment) error
	GetAssignmentByID(ctx context.Context, id string) (*Assignment, error)
	// GetAssignmentsByClass returns all assignments targeting the class.
	GetAssignmentsByClass(ctx context.Context, classID string) ([]Assignment, error)

	CreateExam(ctx context.Context, e *Exam) error
	GetExamByID(ctx context.Context, id string) (*Exam, error)
	FindExams(ctx context.Context, filter ExamFilter) ([]Exam, error)
	SetExamApproved(ctx context.Context, id string) error
	SetExamAvailable(ctx context.Context, id string, available bool) error
	DeleteExam(ctx context.Context, id string) error
}

type Service struct {
	repo   Repository
	usrSvc *user.Service
	clsSvc *class.Service
}

func NewService(repo Repository, usrSvc *user.Service, clsSvc *class.Service) *Service {
	return &Service{
		repo:   repo,
		usrSvc: usrSvc,
		clsSvc: clsSvc,
	}
}

// newQuestions assigns dense sequence ids 0..n-1 in input order. The ids are
// assigned exactly once here and never reassigned.
func newQuestions(nqs []NewQuestion) []Question {
	qs := make([]Question, len(nqs))
	for i, nq := range nqs {
		qs[i] = Question{
			ID:       i,
			Type:     nq.Type,
			Question: nq.Question,
			Answers:  nq.Answers,
		}
	}
	return qs
}

// checkAnswers matches submitted answers to the stored question list by
// sequence id. The output always has the stored list's length and order:
// missing submissions become blank answers, unmatched ones are dropped.
func checkAnswers(questions []Question, submitted []user.Answer) []user.Answer {
	byID := make(map[int]string, len(submitted))
	for _, ans := range submitted {
		if _, ok := byID[ans.QuestionID]; !ok {
			byID[ans.QuestionID] = ans.Answer
		}
	}
	checked := make([]user.Answer, len(questions))
	for i, q := range questions {
		checked[i] = user.Answer{QuestionID: q.ID, Answer: byID[q.ID]}
	}
	return checked
}

func (svc *Service) CreateAssignment(ctx context.Context, teacherID string, na NewAssignment) (*Assignment, error) {
	for _, clsID := range na.Classes {
		if _, err := svc.clsSvc.GetByID(ctx, clsID); err != nil {
			return nil, ErrInvalidClass
		}
	}
	now := time.Now().UTC()
	asg := Assignment{
		TeacherCreator: teacherID,
		Subject:        na.Subject,
		Questions:      newQuestions(na.Questions),
		Classes:        na.Classes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := svc.repo.CreateAssignment(ctx, &asg); err != nil {
		return nil, err
	}
	return &asg, nil
}

func (svc *Service) CreateExam(ctx context.Context, teacherID string, ne NewExam) (*Exam, error) {
	now := time.Now().UTC()
	exam := Exam{
		TeacherCreator: teacherID,
		Subject:        ne.Subject,
		Questions:      newQuestions(ne.Questions),
		SchoolYear:     ne.SchoolYear,
		TotalScore:     ne.TotalScore,
		Type:           ne.Type,
		Info:           ne.Info,
		ForMonth:       ne.ForMonth,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := svc.repo.CreateExam(ctx, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// AssignmentsForStudent lists the assignments targeting the student's class.
func (svc *Service) AssignmentsForStudent(ctx context.Context, studentID string) ([]Assignment, error) {
	res, err := svc.usrSvc.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	std, err := res.Student(ctx)
	if err != nil {
		return nil, err
	}
	return svc.repo.GetAssignmentsByClass(ctx, std.ClassID)
}

// GetExams searches exams. Non-privileged callers should pass a filter forced
// to Available=true; privileged rows additionally carry Approved/Available.
func (svc *Service) GetExams(ctx context.Context, filter ExamFilter, privileged bool) ([]ExamListItem, error) {
	exams, err := svc.repo.FindExams(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ExamListItem, 0, len(exams))
	for _, e := range exams {
		item := ExamListItem{
			ID:             e.ID,
			TeacherCreator: svc.creatorName(ctx, e.TeacherCreator),
			Subject:        e.Subject,
			SchoolYear:     e.SchoolYear,
			ForMonth:       e.ForMonth,
		}
		if privileged {
			approved, available := e.Approved, e.Available
			item.Approved = &approved
			item.Available = &available
		}
		items = append(items, item)
	}
	return items, nil
}

// creatorName resolves a creator id to a display name, falling back to the
// raw id when the identity no longer resolves.
func (svc *Service) creatorName(ctx context.Context, id string) string {
	res, err := svc.usrSvc.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return res.User.DisplayName()
}

// Assignment returns a handle on the assignment with the given id. Existence
// is checked lazily on first use and memoized for the handle's lifetime.
func (svc *Service) Assignment(id string) *AssignmentHandle {
	return &AssignmentHandle{id: id, svc: svc}
}

// Exam returns a handle on the exam with the given id, with the same lazy
// memoized existence check as Assignment.
func (svc *Service) Exam(id string) *ExamHandle {
	return &ExamHandle{id: id, svc: svc}
}

type fetchState int

const (
	fetchPending fetchState = iota
	fetchDone
	fetchFailed
)

type AssignmentHandle struct {
	id    string
	svc   *Service
	state fetchState
	asg   *Assignment
	err   error
}

// Get fetches the backing record once; subsequent calls return the cached
// record or the cached fetch error.
func (h *AssignmentHandle) Get(ctx context.Context) (*Assignment, error) {
	switch h.state {
	case fetchDone:
		return h.asg, nil
	case fetchFailed:
		return nil, h.err
	}
	asg, err := h.svc.repo.GetAssignmentByID(ctx, h.id)
	if err != nil {
		h.state = fetchFailed
		h.err = err
		return nil, err
	}
	h.state = fetchDone
	h.asg = asg
	return asg, nil
}

func (h *AssignmentHandle) CheckAnswer(ctx context.Context, submitted []user.Answer) ([]user.Answer, error) {
	asg, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	return checkAnswers(asg.Questions, submitted), nil
}

// Response shapes the full assignment detail: resolved creator name, class
// summaries and the creation date decomposed into day/month/year.
func (h *AssignmentHandle) Response(ctx context.Context) (*AssignmentResponse, error) {
	asg, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	classes := make([]ClassSummary, 0, len(asg.Classes))
	for _, clsID := range asg.Classes {
		cls, err := h.svc.clsSvc.GetByID(ctx, clsID)
		if err != nil {
			continue
		}
		classes = append(classes, ClassSummary{Year: cls.Year, Class: cls.Class})
	}
	resp := AssignmentResponse{
		ID:          asg.ID,
		Date:        user.NewDateResponse(asg.CreatedAt),
		Questions:   asg.Questions,
		TeacherName: h.svc.creatorName(ctx, asg.TeacherCreator),
		Subject:     asg.Subject,
		Classes:     classes,
	}
	return &resp, nil
}

type ExamHandle struct {
	id    string
	svc   *Service
	state fetchState
	exam  *Exam
	err   error
}

func (h *ExamHandle) Get(ctx context.Context) (*Exam, error) {
	switch h.state {
	case fetchDone:
		return h.exam, nil
	case fetchFailed:
		return nil, h.err
	}
	exam, err := h.svc.repo.GetExamByID(ctx, h.id)
	if err != nil {
		h.state = fetchFailed
		h.err = err
		return nil, err
	}
	h.state = fetchDone
	h.exam = exam
	return exam, nil
}

// CheckAnswer gates on Available before matching answers.
func (h *ExamHandle) CheckAnswer(ctx context.Context, submitted []user.Answer) ([]user.Answer, error) {
	exam, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !exam.Available {
		return nil, ErrExamUnavailable
	}
	return checkAnswers(exam.Questions, submitted), nil
}

// Response shapes the exam for the caller. Non-privileged callers are
// rejected while the exam is unavailable and never see the creator identity,
// Approved, Info, TotalScore or Available.
func (h *ExamHandle) Response(ctx context.Context, privileged bool) (*ExamResponse, error) {
	exam, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !privileged && !exam.Available {
		return nil, ErrExamRestricted
	}
	resp := ExamResponse{
		ID:         exam.ID,
		Questions:  exam.Questions,
		Subject:    exam.Subject,
		SchoolYear: exam.SchoolYear,
		Type:       exam.Type,
		ForMonth:   exam.ForMonth,
	}
	if privileged {
		ref := TeacherRef{ID: exam.TeacherCreator, Name: h.svc.creatorName(ctx, exam.TeacherCreator)}
		approved, available, totalScore := exam.Approved, exam.Available, exam.TotalScore
		resp.TeacherCreator = &ref
		resp.Approved = &approved
		resp.Info = exam.Info
		resp.TotalScore = &totalScore
		resp.Available = &available
	}
	return &resp, nil
}

// Approve turns the Approved flag on. It does not touch Available.
func (h *ExamHandle) Approve(ctx context.Context) error {
	if _, err := h.Get(ctx); err != nil {
		return err
	}
	if err := h.svc.repo.SetExamApproved(ctx, h.id); err != nil {
		return err
	}
	h.exam.Approved = true
	return nil
}

// SetAvailable toggles the Available flag independent of Approved.
func (h *ExamHandle) SetAvailable(ctx context.Context, available bool) error {
	if _, err := h.Get(ctx); err != nil {
		return err
	}
	if err := h.svc.repo.SetExamAvailable(ctx, h.id, available); err != nil {
		return err
	}
	h.exam.Available = available
	return nil
}

// Delete removes the exam entirely; it backs the reject action.
func (h *ExamHandle) Delete(ctx context.Context) error {
	if _, err := h.Get(ctx); err != nil {
		return err
	}
	return h.svc.repo.DeleteExam(ctx, h.id)
}
