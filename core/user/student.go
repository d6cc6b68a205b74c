package user

import (
	"math"
	"time"

	"github.com/trezcool/darasa/core"
)

// Answer history kinds.
const (
	KindAssignment = "assignment"
	KindExam       = "exam"
)

type (
	Health struct {
		Weight          float64 `json:"weight,omitempty" bson:"weight,omitempty"`
		Height          float64 `json:"height,omitempty" bson:"height,omitempty"`
		AllergicHistory string  `json:"allergic_history,omitempty" bson:"allergicHistory,omitempty"`
		BloodGroup      string  `json:"blood_group,omitempty" bson:"bloodGroup,omitempty"`
	}

	Parents struct {
		FatherName  string `json:"father_name,omitempty" bson:"fatherName,omitempty"`
		FatherEmail string `json:"father_email,omitempty" bson:"fatherEmail,omitempty"`
		FatherPhone string `json:"father_phone,omitempty" bson:"fatherPhone,omitempty"`
		MotherName  string `json:"mother_name,omitempty" bson:"motherName,omitempty"`
		MotherEmail string `json:"mother_email,omitempty" bson:"motherEmail,omitempty"`
		MotherPhone string `json:"mother_phone,omitempty" bson:"motherPhone,omitempty"`
		Address1    string `json:"address1,omitempty" bson:"address1,omitempty"`
		Address2    string `json:"address2,omitempty" bson:"address2,omitempty"`
		Zip         int    `json:"zip,omitempty" bson:"zip,omitempty"`
	}

	// Answer pairs a question's sequence id with the submitted text.
	Answer struct {
		QuestionID int    `json:"question_id" bson:"questionId"`
		Answer     string `json:"answer" bson:"answer"`
	}

	// AnswerSheet is one append-only history entry: a student may hold at
	// most one sheet per item id.
	AnswerSheet struct {
		ItemID  string   `json:"item_id" bson:"itemId"`
		Answers []Answer `json:"answers" bson:"answers"`
	}

	// Student is the student role profile, owned 1:1 by its User.
	Student struct {
		ID          string        `json:"-" bson:"_id,omitempty"`
		ClassID     string        `json:"class_id" bson:"classId"`
		Class       string        `json:"class" bson:"class"`
		YearLevel   int           `json:"year_level" bson:"yearLevel"`
		About       string        `json:"about" bson:"about"`
		Health      Health        `json:"health" bson:"health"`
		Parents     Parents       `json:"parents" bson:"parents"`
		Assignments []AnswerSheet `json:"assignments" bson:"assignments"`
		Exams       []AnswerSheet `json:"exams" bson:"exams"`
		CreatedAt   time.Time     `json:"created_at" bson:"createdAt"` // UTC
		UpdatedAt   time.Time     `json:"updated_at" bson:"updatedAt"` // UTC
	}
)

// History returns the answer-history list for the given kind.
func (s *Student) History(kind string) []AnswerSheet {
	if kind == KindExam {
		return s.Exams
	}
	return s.Assignments
}

// HasAnswered reports whether an answer sheet for itemID is already recorded.
func (s *Student) HasAnswered(kind, itemID string) bool {
	for _, sheet := range s.History(kind) {
		if sheet.ItemID == itemID {
			return true
		}
	}
	return false
}

type (
	WeightResponse struct {
		Kg    float64 `json:"kg"`
		Pound float64 `json:"pound"`
	}

	HeightResponse struct {
		Cm   float64 `json:"cm"`
		Inch float64 `json:"inch"`
	}

	HealthResponse struct {
		Weight          *WeightResponse `json:"weight"`
		Height          *HeightResponse `json:"height"`
		AllergicHistory string          `json:"allergic_history,omitempty"`
		BloodGroup      string          `json:"blood_group,omitempty"`
	}

	ContactResponse struct {
		Name  string `json:"name,omitempty"`
		Email string `json:"email,omitempty"`
		Phone string `json:"phone,omitempty"`
	}

	AddressResponse struct {
		Address1 string `json:"address1,omitempty"`
		Address2 string `json:"address2,omitempty"`
		Zip      int    `json:"zip,omitempty"`
	}

	ParentsResponse struct {
		Father  ContactResponse `json:"father"`
		Mother  ContactResponse `json:"mother"`
		Address AddressResponse `json:"address"`
	}

	StudentResponse struct {
		Class     string          `json:"class"`
		ClassID   string          `json:"class_id"`
		YearLevel *SchoolLevel    `json:"year_level"`
		About     string          `json:"about"`
		Health    HealthResponse  `json:"health"`
		Parents   ParentsResponse `json:"parents"`
	}
)

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (s *Student) Response() StudentResponse {
	resp := StudentResponse{
		Class:     s.Class,
		ClassID:   s.ClassID,
		YearLevel: SchoolLevelFor(s.YearLevel),
		About:     s.About,
		Health: HealthResponse{
			AllergicHistory: s.Health.AllergicHistory,
			BloodGroup:      s.Health.BloodGroup,
		},
		Parents: ParentsResponse{
			Father: ContactResponse{Name: s.Parents.FatherName, Email: s.Parents.FatherEmail, Phone: s.Parents.FatherPhone},
			Mother: ContactResponse{Name: s.Parents.MotherName, Email: s.Parents.MotherEmail, Phone: s.Parents.MotherPhone},
			Address: AddressResponse{
				Address1: s.Parents.Address1,
				Address2: s.Parents.Address2,
				Zip:      s.Parents.Zip,
			},
		},
	}
	if s.Health.Weight > 0 {
		resp.Health.Weight = &WeightResponse{Kg: round2(s.Health.Weight), Pound: round2(s.Health.Weight * 2.20462)}
	}
	if s.Health.Height > 0 {
		resp.Health.Height = &HeightResponse{Cm: round2(s.Health.Height), Inch: round2(s.Health.Height * 0.393701)}
	}
	return resp
}

// NewStudent holds the profile part of an admin-initiated student
// registration; identity fields ride along in NewUser.
type NewStudent struct {
	NewUser
	ClassID         string  `json:"class_id" validate:"required"`
	About           string  `json:"about"`
	Weight          float64 `json:"weight" validate:"omitempty,max=250"`
	Height          float64 `json:"height" validate:"omitempty,max=200"`
	AllergicHistory string  `json:"allergic_history"`
	BloodGroup      string  `json:"blood_group"`
	FatherName      string  `json:"father_name" validate:"omitempty,min=2,max=100"`
	FatherEmail     string  `json:"father_email" validate:"omitempty,email"`
	FatherPhone     string  `json:"father_phone" validate:"omitempty,phone"`
	MotherName      string  `json:"mother_name" validate:"omitempty,min=2,max=100"`
	MotherEmail     string  `json:"mother_email" validate:"omitempty,email"`
	MotherPhone     string  `json:"mother_phone" validate:"omitempty,phone"`
	Address1        string  `json:"address1"`
	Address2        string  `json:"address2"`
	Zip             int     `json:"zip" validate:"omitempty,max=9999999"`
}

func (ns *NewStudent) Validate() error {
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	return core.Validate.Struct(ns)
}

func (ns *NewStudent) Profile() Student {
	return Student{
		ClassID: ns.ClassID,
		About:   ns.About,
		Health: Health{
			Weight:          ns.Weight,
			Height:          ns.Height,
			AllergicHistory: ns.AllergicHistory,
			BloodGroup:      ns.BloodGroup,
		},
		Parents: Parents{
			FatherName:  ns.FatherName,
			FatherEmail: ns.FatherEmail,
			FatherPhone: ns.FatherPhone,
			MotherName:  ns.MotherName,
			MotherEmail: ns.MotherEmail,
			MotherPhone: ns.MotherPhone,
			Address1:    ns.Address1,
			Address2:    ns.Address2,
			Zip:         ns.Zip,
		},
	}
}

// EditStudent defines what may be modified on an existing profile.
// Empty fields are ignored, set fields overwrite.
type EditStudent struct {
	ClassID         string  `json:"class_id"`
	About           string  `json:"about"`
	YearLevel       int     `json:"year_level" validate:"omitempty,min=1,max=12"`
	Class           string  `json:"class"`
	Weight          float64 `json:"weight" validate:"omitempty,max=250"`
	Height          float64 `json:"height" validate:"omitempty,max=200"`
	AllergicHistory string  `json:"allergic_history"`
	BloodGroup      string  `json:"blood_group"`
	FatherEmail     string  `json:"father_email" validate:"omitempty,email"`
	FatherPhone     string  `json:"father_phone" validate:"omitempty,phone"`
	MotherEmail     string  `json:"mother_email" validate:"omitempty,email"`
	MotherPhone     string  `json:"mother_phone" validate:"omitempty,phone"`
	Address1        string  `json:"address1"`
	Address2        string  `json:"address2"`
	Zip             int     `json:"zip" validate:"omitempty,max=9999999"`
}

func (es *EditStudent) Validate() error { return core.Validate.Struct(es) }

// apply overwrites the set fields onto s, leaving empty ones untouched.
func (es *EditStudent) apply(s *Student) {
	if es.ClassID != "" {
		s.ClassID = es.ClassID
	}
	if es.About != "" {
		s.About = es.About
	}
	if es.YearLevel != 0 {
		s.YearLevel = es.YearLevel
	}
	if es.Class != "" {
		s.Class = es.Class
	}
	if es.Weight != 0 {
		s.Health.Weight = es.Weight
	}
	if es.Height != 0 {
		s.Health.Height = es.Height
	}
	if es.AllergicHistory != "" {
		s.Health.AllergicHistory = es.AllergicHistory
	}
	if es.BloodGroup != "" {
		s.Health.BloodGroup = es.BloodGroup
	}
	if es.FatherEmail != "" {
		s.Parents.FatherEmail = es.FatherEmail
	}
	if es.FatherPhone != "" {
		s.Parents.FatherPhone = es.FatherPhone
	}
	if es.MotherEmail != "" {
		s.Parents.MotherEmail = es.MotherEmail
	}
	if es.MotherPhone != "" {
		s.Parents.MotherPhone = es.MotherPhone
	}
	if es.Address1 != "" {
		s.Parents.Address1 = es.Address1
	}
	if es.Address2 != "" {
		s.Parents.Address2 = es.Address2
	}
	if es.Zip != 0 {
		s.Parents.Zip = es.Zip
	}
}
