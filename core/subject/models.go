package subject

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Lesson is embedded in a Subject. ID is generated at insertion and is the
// key used for targeted edits and deletes. Video holds the media locator of
// the backing upload; it is never exposed directly, streaming goes through
// its own endpoint.
type Lesson struct {
	ID           string `json:"id" bson:"_id,omitempty"`
	Title        string `json:"title" bson:"title"`
	Description  string `json:"description" bson:"description"`
	ThumbnailURL string `json:"thumbnail_url" bson:"thumbnailUrl"`
	Video        string `json:"-" bson:"videoUrl"`
	Author       string `json:"author" bson:"author"`
}

// Article is embedded in a Subject, keyed like Lesson.
type Article struct {
	ID     string `json:"id" bson:"_id,omitempty"`
	Title  string `json:"title" bson:"title"`
	Body   string `json:"body" bson:"body"`
	Author string `json:"author" bson:"author"`
}

type Subject struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Teachers  []string  `json:"teachers" bson:"teachers"`
	Lessons   []Lesson  `json:"lessons" bson:"lessons"`
	Articles  []Article `json:"articles" bson:"articles"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// Summary is the list row shape for subjects.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LessonResponse is a lesson with its author resolved for display. Author is
// either a *user.Response or, when resolution fails, the raw author id.
type LessonResponse struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Author       interface{} `json:"author"`
}

type ArticleResponse struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Body   string      `json:"body"`
	Author interface{} `json:"author"`
}

type NewSubject struct {
	Name string `json:"name" validate:"required"`
}

func (ns *NewSubject) Validate() error {
	ns.Name = core.CleanString(ns.Name, true /* lower */)
	return core.Validate.Struct(ns)
}

type NewLesson struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	nl.Description = core.CleanString(nl.Description)
	return core.Validate.Struct(nl)
}

type NewArticle struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

func (na *NewArticle) Validate() error {
	na.Title = core.CleanString(na.Title)
	return core.Validate.Struct(na)
}

// EditLesson is a partial edit; empty fields are left untouched.
type EditLesson struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (el *EditLesson) Validate() error {
	el.Title = core.CleanString(el.Title)
	el.Description = core.CleanString(el.Description)
	return core.Validate.Struct(el)
}

// EditArticle is a partial edit; empty fields are left untouched.
type EditArticle struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (ea *EditArticle) Validate() error {
	ea.Title = core.CleanString(ea.Title)
	return core.Validate.Struct(ea)
}

type AddTeacher struct {
	TeacherID string `json:"teacher_id" validate:"required"`
}

func (at *AddTeacher) Validate() error {
	at.TeacherID = core.CleanString(at.TeacherID)
	return core.Validate.Struct(at)
}
