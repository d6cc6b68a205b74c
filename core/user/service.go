package user

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("user not found")
	ErrEmailExists     = core.NewBadRequestError("a user with this email already exists")
	ErrProfileNotFound = core.NewNotFoundError("role profile not found")
	ErrNotStudent      = core.NewBadRequestError("user role is not student")
	ErrNotTeacher      = core.NewBadRequestError("user role is not teacher")
	ErrAlreadyAnswered = core.NewUnauthorizedError("this item has already been answered")
	ErrClassTaken      = core.NewBadRequestError("class already assigned to this teacher")
	errUnknownRole     = core.NewError(http.StatusInternalServerError, "unrecognized user role")
)

type (
	Repository interface {
		// CreateUser persists usr and must fail with ErrEmailExists when the
		// email is already registered (unique index at the storage boundary).
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id string) error

		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// AppendAnswerSheet appends one history entry iff no entry for
		// sheet.ItemID exists yet; fails with ErrAlreadyAnswered otherwise.
		// The check-and-append must be a single conditional write.
		AppendAnswerSheet(ctx context.Context, studentID, kind string, sheet AnswerSheet) error
		DeleteStudent(ctx context.Context, id string) error

		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		// AddClassTaken appends classID iff not present; ErrClassTaken otherwise.
		AddClassTaken(ctx context.Context, teacherID, classID string) error
		DeleteTeacher(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// Register creates a plain self-service account.
func (svc *Service) Register(ctx context.Context, nu NewUser) (*Resolved, error) {
	usr, err := svc.create(ctx, nu, RoleUser, "")
	if err != nil {
		return nil, err
	}
	return svc.resolved(usr), nil
}

// CreateStudent creates the student profile first, then the identity
// referencing it. A failed identity insert may orphan the profile; that is
// accepted, the reference itself can never dangle.
func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent, class string, yearLevel int) (*Resolved, error) {
	std := ns.Profile()
	std.Class = class
	std.YearLevel = yearLevel
	now := time.Now().UTC()
	std.CreatedAt, std.UpdatedAt = now, now

	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return nil, err
	}
	usr, err := svc.create(ctx, ns.NewUser, RoleStudent, std.ID)
	if err != nil {
		return nil, err
	}
	svc.sendWelcomeEmail(usr)

	res := svc.resolved(usr)
	res.state = roleResolved
	res.student = &std
	return res, nil
}

// CreateTeacher creates the teacher profile first, then the identity
// referencing it; same orphaning trade-off as CreateStudent.
func (svc *Service) CreateTeacher(ctx context.Context, nt NewTeacher) (*Resolved, error) {
	tch := nt.Profile()
	now := time.Now().UTC()
	tch.CreatedAt, tch.UpdatedAt = now, now

	tch, err := svc.repo.CreateTeacher(ctx, tch)
	if err != nil {
		return nil, err
	}
	usr, err := svc.create(ctx, nt.NewUser, RoleTeacher, tch.ID)
	if err != nil {
		return nil, err
	}
	svc.sendWelcomeEmail(usr)

	res := svc.resolved(usr)
	res.state = roleResolved
	res.teacher = &tch
	return res, nil
}

func (svc *Service) create(ctx context.Context, nu NewUser, role, roleID string) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Email:       nu.Email,
		FirstName:   nu.FirstName,
		LastName:    nu.LastName,
		Phone:       nu.Phone,
		Gender:      nu.Gender,
		DateOfBirth: nu.DateOfBirth,
		Role:        role,
		RoleID:      roleID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (*Resolved, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return svc.resolved(usr), nil
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (*Resolved, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return nil, err
	}
	return svc.resolved(usr), nil
}

func (svc *Service) resolved(usr User) *Resolved {
	return &Resolved{User: usr, svc: svc}
}

// EditStudent overwrites the set fields of a student profile; empty fields
// are left untouched.
func (svc *Service) EditStudent(ctx context.Context, res *Resolved, es EditStudent) (StudentResponse, error) {
	std, err := res.Student(ctx)
	if err != nil {
		return StudentResponse{}, err
	}
	es.apply(std)
	std.UpdatedAt = time.Now().UTC()
	updated, err := svc.repo.UpdateStudent(ctx, *std)
	if err != nil {
		return StudentResponse{}, err
	}
	res.student = &updated
	return updated.Response(), nil
}

// EditTeacher replaces the mutable teacher profile fields.
func (svc *Service) EditTeacher(ctx context.Context, res *Resolved, et EditTeacher) (TeacherResponse, error) {
	tch, err := res.Teacher(ctx)
	if err != nil {
		return TeacherResponse{}, err
	}
	et.apply(tch)
	tch.UpdatedAt = time.Now().UTC()
	updated, err := svc.repo.UpdateTeacher(ctx, *tch)
	if err != nil {
		return TeacherResponse{}, err
	}
	res.teacher = &updated
	return updated.Response(), nil
}

// RecordAnswer appends one answer sheet to the student's history; at most
// one sheet may exist per item id, there is no update or retract.
func (svc *Service) RecordAnswer(ctx context.Context, res *Resolved, kind, itemID string, answers []Answer) error {
	std, err := res.Student(ctx)
	if err != nil {
		return err
	}
	sheet := AnswerSheet{ItemID: itemID, Answers: answers}
	if err := svc.repo.AppendAnswerSheet(ctx, std.ID, kind, sheet); err != nil {
		return err
	}
	res.student = nil
	res.state = roleUnresolved // history changed; next access re-fetches
	return nil
}

// AddClassTaken back-links a class onto the teacher's profile; assigning the
// same class twice is rejected.
func (svc *Service) AddClassTaken(ctx context.Context, res *Resolved, classID string) error {
	tch, err := res.Teacher(ctx)
	if err != nil {
		return err
	}
	return svc.repo.AddClassTaken(ctx, tch.ID, classID)
}

func (svc *Service) sendWelcomeEmail(usr User) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.DisplayName(), Address: usr.Email}},
		Subject: "Your account is ready",
		Body: fmt.Sprintf(
			"Hi %s,\n\nAn account has been created for you on %s. Log in with %s using the password you were given.\n",
			usr.FirstName, svc.conf.AppName, usr.Email,
		),
	})
}

// resolution state of a handle's role profile
type roleState int

const (
	roleUnresolved roleState = iota
	roleResolved
	roleFailed
)

// Resolved is an identity handle: the fetched User plus its lazily attached
// role profile. A handle resolves its profile at most once; the outcome
// (including failure) sticks for the handle's lifetime.
type Resolved struct {
	User User

	svc     *Service
	state   roleState
	rolErr  error
	student *Student
	teacher *Teacher
}

// AttachRole resolves and caches the linked role profile. It is a no-op for
// the user and admin roles and fails with a 500 on an unrecognized role tag.
func (r *Resolved) AttachRole(ctx context.Context) error {
	switch r.state {
	case roleResolved:
		return nil
	case roleFailed:
		return r.rolErr
	}

	switch r.User.Role {
	case RoleUser, RoleAdmin:
		r.state = roleResolved
	case RoleStudent:
		std, err := r.svc.repo.GetStudentByID(ctx, r.User.RoleID)
		if err != nil {
			r.state, r.rolErr = roleFailed, err
			return err
		}
		r.student = &std
		r.state = roleResolved
	case RoleTeacher:
		tch, err := r.svc.repo.GetTeacherByID(ctx, r.User.RoleID)
		if err != nil {
			r.state, r.rolErr = roleFailed, err
			return err
		}
		r.teacher = &tch
		r.state = roleResolved
	default:
		r.state, r.rolErr = roleFailed, errUnknownRole
		return errUnknownRole
	}
	return nil
}

// Student returns the attached student profile, resolving it first if needed.
func (r *Resolved) Student(ctx context.Context) (*Student, error) {
	if !r.User.IsStudent() {
		return nil, ErrNotStudent
	}
	if err := r.AttachRole(ctx); err != nil {
		return nil, err
	}
	return r.student, nil
}

// Teacher returns the attached teacher profile, resolving it first if needed.
func (r *Resolved) Teacher(ctx context.Context) (*Teacher, error) {
	if !r.User.IsTeacher() {
		return nil, ErrNotTeacher
	}
	if err := r.AttachRole(ctx); err != nil {
		return nil, err
	}
	return r.teacher, nil
}

// Response shapes the public view; withInfo embeds the role-specific shape
// when a profile is attached.
func (r *Resolved) Response(withInfo bool) Response {
	resp := r.User.Response()
	if withInfo {
		if r.student != nil {
			resp.Info = r.student.Response()
		} else if r.teacher != nil {
			resp.Info = r.teacher.Response()
		}
	}
	return resp
}

// Remove deletes the identity record, cascading into the linked role profile
// for students and teachers.
func (r *Resolved) Remove(ctx context.Context) error {
	if r.User.HasProfile() {
		if err := r.AttachRole(ctx); err != nil {
			return err
		}
		var err error
		switch {
		case r.student != nil:
			err = r.svc.repo.DeleteStudent(ctx, r.student.ID)
		case r.teacher != nil:
			err = r.svc.repo.DeleteTeacher(ctx, r.teacher.ID)
		}
		if err != nil {
			return err
		}
	}
	return r.svc.repo.DeleteUser(ctx, r.User.ID)
}
