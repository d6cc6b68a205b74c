package assess

import (
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// Question is one entry of an assessable item's ordered question list. ID is
// the 0-based sequence id assigned at creation; it is the only stable key
// used for answer matching and never changes afterwards.
type Question struct {
	ID       int      `json:"id" bson:"id"`
	Type     string   `json:"type" bson:"type"`
	Question string   `json:"question" bson:"question"`
	Answers  []string `json:"answers" bson:"answers"`
}

// Assignment is scoped to the classes it targets and is visible to them
// immediately; it has no approval gate.
type Assignment struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	TeacherCreator string     `json:"teacher_creator" bson:"teacherCreator"`
	Subject        string     `json:"subject" bson:"subject"`
	Questions      []Question `json:"questions" bson:"questions"`
	Classes        []string   `json:"classes" bson:"classes"`
	CreatedAt      time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updatedAt"`
}

// Exam is not class-scoped; visibility is gated by Available. Approved and
// Available are independent booleans, both false at creation.
type Exam struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	TeacherCreator string     `json:"teacher_creator" bson:"teacherCreator"`
	Subject        string     `json:"subject" bson:"subject"`
	Questions      []Question `json:"questions" bson:"questions"`
	SchoolYear     int        `json:"school_year" bson:"schoolYear"`
	TotalScore     int        `json:"total_score" bson:"totalScore"`
	Type           string     `json:"type,omitempty" bson:"type,omitempty"`
	Info           string     `json:"info,omitempty" bson:"info,omitempty"`
	ForMonth       int        `json:"for_month,omitempty" bson:"forMonth,omitempty"`
	Approved       bool       `json:"approved" bson:"approved"`
	Available      bool       `json:"available" bson:"available"`
	CreatedAt      time.Time  `json:"created_at" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updatedAt"`
}

type NewQuestion struct {
	Type     string   `json:"type" validate:"required"`
	Question string   `json:"question" validate:"required"`
	Answers  []string `json:"answers"`
}

type NewAssignment struct {
	Subject   string        `json:"subject" validate:"required"`
	Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
	Classes   []string      `json:"classes" validate:"dive,required"`
}

func (na *NewAssignment) Validate() error {
	na.Subject = core.CleanString(na.Subject, true /* lower */)
	return core.Validate.Struct(na)
}

type NewExam struct {
	Subject    string        `json:"subject" validate:"required"`
	Questions  []NewQuestion `json:"questions" validate:"required,min=1,dive"`
	SchoolYear int           `json:"school_year" validate:"required,min=1,max=12"`
	TotalScore int           `json:"total_score" validate:"required,min=1"`
	Type       string        `json:"type"`
	Info       string        `json:"info"`
	ForMonth   int           `json:"for_month" validate:"omitempty,min=1,max=12"`
}

func (ne *NewExam) Validate() error {
	ne.Subject = core.CleanString(ne.Subject, true /* lower */)
	return core.Validate.Struct(ne)
}

// SubmitAnswers is a student's answer submission body. Answers reference
// questions by sequence id; unknown ids are dropped and missing ones are
// blank-filled by CheckAnswer.
type SubmitAnswers struct {
	Answers []user.Answer `json:"answers" validate:"required"`
}

func (sa *SubmitAnswers) Validate() error {
	return core.Validate.Struct(sa)
}

// ClassSummary identifies a targeted class in an assignment response.
type ClassSummary struct {
	Year  int    `json:"year"`
	Class string `json:"class"`
}

type AssignmentResponse struct {
	ID          string            `json:"id"`
	Date        user.DateResponse `json:"date"`
	Questions   []Question        `json:"questions"`
	TeacherName string            `json:"teacher_name"`
	Subject     string            `json:"subject"`
	Classes     []ClassSummary    `json:"classes"`
}

// TeacherRef identifies an exam's creator in privileged responses.
type TeacherRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExamResponse is the public exam shape. The pointer fields are only set for
// privileged callers and are omitted otherwise.
type ExamResponse struct {
	ID             string      `json:"id"`
	Questions      []Question  `json:"questions"`
	Subject        string      `json:"subject"`
	SchoolYear     int         `json:"school_year"`
	Type           string      `json:"type,omitempty"`
	ForMonth       int         `json:"for_month,omitempty"`
	TeacherCreator *TeacherRef `json:"teacher_creator,omitempty"`
	Approved       *bool       `json:"approved,omitempty"`
	Info           string      `json:"info,omitempty"`
	TotalScore     *int        `json:"total_score,omitempty"`
	Available      *bool       `json:"available,omitempty"`
}

// ExamListItem is one row of an exam search result. Approved/Available are
// only populated for privileged callers.
type ExamListItem struct {
	ID             string `json:"id"`
	TeacherCreator string `json:"teacher_creator"`
	Subject        string `json:"subject"`
	SchoolYear     int    `json:"school_year"`
	ForMonth       int    `json:"for_month,omitempty"`
	Approved       *bool  `json:"approved,omitempty"`
	Available      *bool  `json:"available,omitempty"`
}

// ExamFilter narrows an exam search; nil/empty fields are not applied.
type ExamFilter struct {
	ForMonth   *int
	Approved   *bool
	Available  *bool
	Subject    string
	SchoolYear *int
}
