package class

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// ErrNotFound is returned when the requested class does not exist.
	ErrNotFound = core.NewNotFoundError("class not found")
	// ErrClassExists is returned on an attempt to create a duplicate (year, class) pair.
	ErrClassExists = core.NewBadRequestError("this class is already existing")
	// ErrInvalidKind is returned for a member kind other than student or teacher.
	ErrInvalidKind = core.NewBadRequestError("invalid member kind")
)

type Repository interface {
	// CreateClass persists a new class. It returns ErrClassExists if a class with
	// the same (year, class) pair already exists.
	CreateClass(ctx context.Context, c *Class) error
	GetClassByID(ctx context.Context, id string) (*Class, error)
	GetAllClasses(ctx context.Context) ([]Class, error)
	// AddClassMembers appends ids to the class member list for kind in a single
	// write, skipping ids already present.
	AddClassMembers(ctx context.Context, classID, kind string, ids []string) error
	DeleteClass(ctx context.Context, id string) error
}

type Service struct {
	repo   Repository
	usrSvc *user.Service
}

func NewService(repo Repository, usrSvc *user.Service) *Service {
	return &Service{
		repo:   repo,
		usrSvc: usrSvc,
	}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (*Class, error) {
	now := time.Now().UTC()
	cls := Class{
		Year:      nc.Year,
		Class:     nc.Class,
		Name:      nc.Name,
		Students:  []string{},
		Teachers:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateClass(ctx, &cls); err != nil {
		return nil, err
	}
	return &cls, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (*Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) GetAll(ctx context.Context) ([]Class, error) {
	return svc.repo.GetAllClasses(ctx)
}

// Get returns the class with its member ids expanded into full identities.
// Members that can no longer be resolved are left out of the response.
func (svc *Service) Get(ctx context.Context, id string) (*Response, error) {
	cls, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := Response{
		ID:        cls.ID,
		Year:      cls.Year,
		Class:     cls.Class,
		Name:      cls.Name,
		Students:  svc.resolveMembers(ctx, cls.Students),
		Teachers:  svc.resolveMembers(ctx, cls.Teachers),
		CreatedAt: cls.CreatedAt,
		UpdatedAt: cls.UpdatedAt,
	}
	return &resp, nil
}

func (svc *Service) resolveMembers(ctx context.Context, ids []string) []user.Response {
	if len(ids) == 0 {
		return nil
	}
	members := make([]user.Response, 0, len(ids))
	for _, id := range ids {
		res, err := svc.usrSvc.GetByID(ctx, id)
		if err != nil {
			continue
		}
		members = append(members, res.Response(false))
	}
	return members
}

// AddMembers enrolls a batch of users of the given kind (user.RoleStudent or
// user.RoleTeacher) in the class. Ids that are unknown, of the wrong role or
// already enrolled are reported per-id in the result instead of failing the
// batch; accepted ids are persisted in a single write. Enrolled teachers get
// the class appended to their ClassesTaken back-link.
func (svc *Service) AddMembers(ctx context.Context, id, kind string, am AddMembers) (*AddMembersResult, error) {
	if kind != user.RoleStudent && kind != user.RoleTeacher {
		return nil, ErrInvalidKind
	}

	cls, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var accepted []string
	var handles []*user.Resolved
	var errs []string
	for _, mid := range am.Members {
		res, err := svc.usrSvc.GetByID(ctx, mid)
		if err != nil || res.User.Role != kind {
			errs = append(errs, fmt.Sprintf("id %s is not %s", mid, kind))
			continue
		}
		enrolled := cls.IncludesStudent(mid)
		if kind == user.RoleTeacher {
			enrolled = cls.IncludesTeacher(mid)
		}
		if enrolled || includes(accepted, mid) {
			errs = append(errs, fmt.Sprintf("id %s is already existing in class", mid))
			continue
		}
		accepted = append(accepted, mid)
		handles = append(handles, res)
	}

	if len(accepted) > 0 {
		if err = svc.repo.AddClassMembers(ctx, cls.ID, kind, accepted); err != nil {
			return nil, err
		}
		if kind == user.RoleTeacher {
			for _, res := range handles {
				if err = svc.usrSvc.AddClassTaken(ctx, res, cls.ID); err != nil && err != user.ErrClassTaken {
					return nil, err
				}
			}
		}
	}

	cls, err = svc.repo.GetClassByID(ctx, cls.ID)
	if err != nil {
		return nil, err
	}
	return &AddMembersResult{Class: cls, Errors: errs}, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteClass(ctx, id)
}

// IncludesStudent reports whether the student is enrolled in the class.
func (svc *Service) IncludesStudent(ctx context.Context, classID, studentID string) (bool, error) {
	cls, err := svc.repo.GetClassByID(ctx, classID)
	if err != nil {
		return false, err
	}
	return cls.IncludesStudent(studentID), nil
}
