package subject

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	ErrNotFound        = core.NewNotFoundError("subject not found")
	ErrLessonNotFound  = core.NewNotFoundError("lesson not found")
	ErrArticleNotFound = core.NewNotFoundError("article not found")
	ErrNotTeacher      = core.NewBadRequestError("this user is not a teacher")
)

type Repository interface {
	CreateSubject(ctx context.Context, s *Subject) error
	GetSubjectByID(ctx context.Context, id string) (*Subject, error)
	GetAllSubjects(ctx context.Context) ([]Subject, error)

	// AddLesson appends the lesson to the subject's embedded list and assigns
	// its generated id. Same contract for AddArticle.
	AddLesson(ctx context.Context, subjectID string, l *Lesson) error
	// UpdateLesson applies a field-path partial update targeting the embedded
	// lesson by its own id; empty edit fields are not touched.
	UpdateLesson(ctx context.Context, subjectID, lessonID string, edit EditLesson) error
	RemoveLesson(ctx context.Context, subjectID, lessonID string) error

	AddArticle(ctx context.Context, subjectID string, a *Article) error
	UpdateArticle(ctx context.Context, subjectID, articleID string, edit EditArticle) error
	RemoveArticle(ctx context.Context, subjectID, articleID string) error

	// AddSubjectTeacher appends the teacher id, skipping it if already present.
	AddSubjectTeacher(ctx context.Context, subjectID, teacherID string) error
}

type Service struct {
	repo     Repository
	usrSvc   *user.Service
	mediaSvc core.MediaStore
}

func NewService(repo Repository, usrSvc *user.Service, mediaSvc core.MediaStore) *Service {
	return &Service{
		repo:     repo,
		usrSvc:   usrSvc,
		mediaSvc: mediaSvc,
	}
}

func (svc *Service) Create(ctx context.Context, ns NewSubject) (*Subject, error) {
	now := time.Now().UTC()
	sub := Subject{
		Name:      ns.Name,
		Teachers:  []string{},
		Lessons:   []Lesson{},
		Articles:  []Article{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateSubject(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (svc *Service) GetAll(ctx context.Context) ([]Summary, error) {
	subs, err := svc.repo.GetAllSubjects(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, len(subs))
	for i, s := range subs {
		summaries[i] = Summary{ID: s.ID, Name: s.Name}
	}
	return summaries, nil
}

// Subject returns a handle on the subject with the given id; the backing
// record is fetched lazily on first use and memoized.
func (svc *Service) Subject(id string) *Handle {
	return &Handle{id: id, svc: svc}
}

type fetchState int

const (
	fetchPending fetchState = iota
	fetchDone
	fetchFailed
)

type Handle struct {
	id    string
	svc   *Service
	state fetchState
	sub   *Subject
	err   error
}

func (h *Handle) Get(ctx context.Context) (*Subject, error) {
	switch h.state {
	case fetchDone:
		return h.sub, nil
	case fetchFailed:
		return nil, h.err
	}
	sub, err := h.svc.repo.GetSubjectByID(ctx, h.id)
	if err != nil {
		h.state = fetchFailed
		h.err = err
		return nil, err
	}
	h.state = fetchDone
	h.sub = sub
	return sub, nil
}

// refresh drops the cached record so the next Get re-reads storage.
func (h *Handle) refresh() {
	h.state = fetchPending
	h.sub = nil
	h.err = nil
}

// AddLesson stores a new lesson authored by author, backed by the uploaded
// video already saved under videoLocator.
func (h *Handle) AddLesson(ctx context.Context, nl NewLesson, author, videoLocator string) (*Lesson, error) {
	if _, err := h.Get(ctx); err != nil {
		return nil, err
	}
	lesson := Lesson{
		Title:       nl.Title,
		Description: nl.Description,
		Video:       videoLocator,
		Author:      author,
	}
	if err := h.svc.repo.AddLesson(ctx, h.id, &lesson); err != nil {
		return nil, err
	}
	h.refresh()
	return &lesson, nil
}

func (h *Handle) AddArticle(ctx context.Context, na NewArticle, author string) (*Article, error) {
	if _, err := h.Get(ctx); err != nil {
		return nil, err
	}
	article := Article{
		Title:  na.Title,
		Body:   na.Body,
		Author: author,
	}
	if err := h.svc.repo.AddArticle(ctx, h.id, &article); err != nil {
		return nil, err
	}
	h.refresh()
	return &article, nil
}

func (h *Handle) Lesson(ctx context.Context, id string) (*Lesson, error) {
	sub, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sub.Lessons {
		if sub.Lessons[i].ID == id {
			return &sub.Lessons[i], nil
		}
	}
	return nil, ErrLessonNotFound
}

func (h *Handle) Article(ctx context.Context, id string) (*Article, error) {
	sub, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range sub.Articles {
		if sub.Articles[i].ID == id {
			return &sub.Articles[i], nil
		}
	}
	return nil, ErrArticleNotFound
}

// LessonResponse resolves the lesson author for display, falling back to the
// raw author id when the identity no longer resolves.
func (h *Handle) LessonResponse(ctx context.Context, l *Lesson) *LessonResponse {
	return &LessonResponse{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		ThumbnailURL: l.ThumbnailURL,
		Author:       h.svc.resolveAuthor(ctx, l.Author),
	}
}

func (h *Handle) ArticleResponse(ctx context.Context, a *Article) *ArticleResponse {
	return &ArticleResponse{
		ID:     a.ID,
		Title:  a.Title,
		Body:   a.Body,
		Author: h.svc.resolveAuthor(ctx, a.Author),
	}
}

// Lessons lists all lessons with resolved authors. Author-resolution failures
// never abort the listing.
func (h *Handle) Lessons(ctx context.Context) ([]*LessonResponse, error) {
	sub, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	lessons := make([]*LessonResponse, len(sub.Lessons))
	for i := range sub.Lessons {
		lessons[i] = h.LessonResponse(ctx, &sub.Lessons[i])
	}
	return lessons, nil
}

func (h *Handle) Articles(ctx context.Context) ([]*ArticleResponse, error) {
	sub, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	articles := make([]*ArticleResponse, len(sub.Articles))
	for i := range sub.Articles {
		articles[i] = h.ArticleResponse(ctx, &sub.Articles[i])
	}
	return articles, nil
}

func (h *Handle) EditLesson(ctx context.Context, id string, edit EditLesson) error {
	if _, err := h.Lesson(ctx, id); err != nil {
		return err
	}
	if err := h.svc.repo.UpdateLesson(ctx, h.id, id, edit); err != nil {
		return err
	}
	h.refresh()
	return nil
}

func (h *Handle) EditArticle(ctx context.Context, id string, edit EditArticle) error {
	if _, err := h.Article(ctx, id); err != nil {
		return err
	}
	if err := h.svc.repo.UpdateArticle(ctx, h.id, id, edit); err != nil {
		return err
	}
	h.refresh()
	return nil
}

// DeleteLesson releases the backing media resource, then removes the lesson.
// A failed release fails the whole delete; the lesson stays listed.
func (h *Handle) DeleteLesson(ctx context.Context, id string) error {
	lesson, err := h.Lesson(ctx, id)
	if err != nil {
		return err
	}
	if lesson.Video != "" {
		if err = h.svc.mediaSvc.Remove(lesson.Video); err != nil {
			return err
		}
	}
	if err = h.svc.repo.RemoveLesson(ctx, h.id, id); err != nil {
		return err
	}
	h.refresh()
	return nil
}

func (h *Handle) DeleteArticle(ctx context.Context, id string) error {
	if _, err := h.Article(ctx, id); err != nil {
		return err
	}
	if err := h.svc.repo.RemoveArticle(ctx, h.id, id); err != nil {
		return err
	}
	h.refresh()
	return nil
}

// AddTeacher registers the teacher on the subject. Adding twice is a no-op.
func (h *Handle) AddTeacher(ctx context.Context, teacherID string) error {
	if _, err := h.Get(ctx); err != nil {
		return err
	}
	res, err := h.svc.usrSvc.GetByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if !res.User.IsTeacher() {
		return ErrNotTeacher
	}
	if err = h.svc.repo.AddSubjectTeacher(ctx, h.id, teacherID); err != nil {
		return err
	}
	h.refresh()
	return nil
}

// Teachers lists the subject's teachers as display identities, skipping ids
// that no longer resolve.
func (h *Handle) Teachers(ctx context.Context) ([]user.Response, error) {
	sub, err := h.Get(ctx)
	if err != nil {
		return nil, err
	}
	teachers := make([]user.Response, 0, len(sub.Teachers))
	for _, id := range sub.Teachers {
		res, err := h.svc.usrSvc.GetByID(ctx, id)
		if err != nil {
			continue
		}
		teachers = append(teachers, res.Response(false))
	}
	return teachers, nil
}

func (svc *Service) resolveAuthor(ctx context.Context, id string) interface{} {
	res, err := svc.usrSvc.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return res.Response(false)
}
