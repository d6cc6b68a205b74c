package user

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Roles
const (
	RoleUser    = "user"
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Genders
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

var AllRoles = []string{RoleUser, RoleStudent, RoleTeacher, RoleAdmin}

// User is the authenticable account record, any role. A student or teacher
// account additionally references its role profile via RoleID; the profile is
// created first so RoleID never dangles.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash []byte    `json:"-" bson:"password"`
	FirstName    string    `json:"first_name" bson:"firstName"`
	LastName     string    `json:"last_name" bson:"lastName"`
	Phone        string    `json:"phone" bson:"phone"`
	Gender       string    `json:"gender" bson:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth" bson:"dateOfBirth"`
	Role         string    `json:"role" bson:"role"`
	RoleID       string    `json:"-" bson:"roleId,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// HasProfile reports whether this role keeps a separate profile record.
func (u *User) HasProfile() bool { return u.IsStudent() || u.IsTeacher() }

type (
	// DateResponse decomposes a date for display.
	DateResponse struct {
		Timestamp  time.Time `json:"timestamp"`
		Day        int       `json:"day"`
		Month      int       `json:"month"`
		Year       int       `json:"year"`
		FormatDate string    `json:"format_date"`
	}

	// Response is the public shape of a User; internal ids are replaced with
	// `id` and the password hash is never included. Info embeds the
	// role-specific shape when requested and attached.
	Response struct {
		ID          string       `json:"id"`
		Email       string       `json:"email"`
		FirstName   string       `json:"first_name"`
		LastName    string       `json:"last_name"`
		DisplayName string       `json:"display_name"`
		Phone       string       `json:"phone"`
		Gender      string       `json:"gender"`
		DateOfBirth DateResponse `json:"date_of_birth"`
		Role        string       `json:"role"`
		CreatedAt   time.Time    `json:"created_at"`
		UpdatedAt   time.Time    `json:"updated_at"`
		Info        interface{}  `json:"info,omitempty"`
	}
)

func NewDateResponse(t time.Time) DateResponse {
	return DateResponse{
		Timestamp:  t,
		Day:        t.Day(),
		Month:      int(t.Month()),
		Year:       t.Year(),
		FormatDate: fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year()),
	}
}

func (u *User) Response() Response {
	return Response{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		Phone:       u.Phone,
		Gender:      u.Gender,
		DateOfBirth: NewDateResponse(u.DateOfBirth),
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone" validate:"required,phone"`
	Gender          string `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth     time.Time `json:"date_of_birth" validate:"required"`
}

func (nu *NewUser) Validate() error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	return core.Validate.Struct(nu)
}
