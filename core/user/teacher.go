package user

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// Teacher is the teacher role profile, owned 1:1 by its User.
type Teacher struct {
	ID            string    `json:"-" bson:"_id,omitempty"`
	Qualification string    `json:"qualification" bson:"qualification"`
	Experience    int       `json:"experience" bson:"experience"`
	Address       string    `json:"address" bson:"address"`
	Subject       string    `json:"subject" bson:"subject"`
	Bio           string    `json:"bio" bson:"bio"`
	ClassesTaken  []string  `json:"classes_taken" bson:"classesTaken"`
	CreatedAt     time.Time `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt     time.Time `json:"updated_at" bson:"updatedAt"` // UTC
}

// TakesClass reports whether classID is already assigned to this teacher.
func (t *Teacher) TakesClass(classID string) bool {
	for _, id := range t.ClassesTaken {
		if id == classID {
			return true
		}
	}
	return false
}

type TeacherResponse struct {
	Qualification string `json:"qualification"`
	Experience    int    `json:"experience"`
	Address       string `json:"address"`
	Subject       string `json:"subject"`
	Bio           string `json:"bio"`
}

func (t *Teacher) Response() TeacherResponse {
	return TeacherResponse{
		Qualification: t.Qualification,
		Experience:    t.Experience,
		Address:       t.Address,
		Subject:       t.Subject,
		Bio:           t.Bio,
	}
}

// NewTeacher holds the profile part of an admin-initiated teacher
// registration; identity fields ride along in NewUser.
type NewTeacher struct {
	NewUser
	Qualification string `json:"qualification" validate:"required"`
	Experience    int    `json:"experience" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Bio           string `json:"bio" validate:"required"`
}

func (nt *NewTeacher) Validate() error {
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	return core.Validate.Struct(nt)
}

func (nt *NewTeacher) Profile() Teacher {
	return Teacher{
		Qualification: nt.Qualification,
		Experience:    nt.Experience,
		Address:       nt.Address,
		Subject:       nt.Subject,
		Bio:           nt.Bio,
		ClassesTaken:  []string{},
	}
}

// EditTeacher replaces the mutable profile fields wholesale.
type EditTeacher struct {
	Qualification string `json:"qualification" validate:"required"`
	Experience    int    `json:"experience" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Subject       string `json:"subject" validate:"required"`
	Bio           string `json:"bio" validate:"required"`
}

func (et *EditTeacher) Validate() error { return core.Validate.Struct(et) }

func (et *EditTeacher) apply(t *Teacher) {
	t.Qualification = et.Qualification
	t.Experience = et.Experience
	t.Address = et.Address
	t.Subject = et.Subject
	t.Bio = et.Bio
}
