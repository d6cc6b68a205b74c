package class

import (
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

// Class is a school class roster. A class is uniquely identified by its
// (Year, Class) pair; storage enforces that with a unique index.
type Class struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Year      int       `json:"year" bson:"year"`
	Class     string    `json:"class" bson:"class"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Students  []string  `json:"students" bson:"students"`
	Teachers  []string  `json:"teachers" bson:"teachers"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

func (c Class) IncludesStudent(id string) bool { return includes(c.Students, id) }
func (c Class) IncludesTeacher(id string) bool { return includes(c.Teachers, id) }

func includes(ids []string, id string) bool {
	for _, mid := range ids {
		if mid == id {
			return true
		}
	}
	return false
}

// Response is a Class with its member ids expanded into full identities.
// Members whose identity can no longer be resolved are skipped.
type Response struct {
	ID        string          `json:"id"`
	Year      int             `json:"year"`
	Class     string          `json:"class"`
	Name      string          `json:"name,omitempty"`
	Students  []user.Response `json:"students"`
	Teachers  []user.Response `json:"teachers"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type NewClass struct {
	Year  int    `json:"year" validate:"required,min=1,max=12"`
	Class string `json:"class" validate:"required"`
	Name  string `json:"name"`
}

func (nc *NewClass) Validate() error {
	nc.Class = core.CleanString(nc.Class, true /* lower */)
	nc.Name = core.CleanString(nc.Name)
	return core.Validate.Struct(nc)
}

// AddMembers is a batch of member ids to enroll in a class, all of the same kind.
type AddMembers struct {
	Members []string `json:"members" validate:"required,min=1,dive,required"`
}

func (am *AddMembers) Validate() error {
	for i, id := range am.Members {
		am.Members[i] = core.CleanString(id)
	}
	return core.Validate.Struct(am)
}

// AddMembersResult reports the outcome of a batch enrollment. Ids that could
// not be enrolled each contribute an entry to Errors; the rest are persisted.
type AddMembersResult struct {
	Class *Class `json:"class"`
	// Errors marshals as `err`: null on full success, one entry per
	// rejected id otherwise.
	Errors []string `json:"err"`
}
