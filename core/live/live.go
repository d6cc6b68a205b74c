// Package live manages live-session rooms: a teacher opens a room identified
// by a generated room id, optionally scoped to classes, optionally backed by
// a recorded video.
package live

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = core.NewNotFoundError("live session not found")

type Session struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	TeacherID string    `json:"teacher_id" bson:"teacherId"`
	RoomID    string    `json:"room_id" bson:"roomId"`
	Subject   string    `json:"subject" bson:"subject"`
	Classes   []string  `json:"for_classes,omitempty" bson:"forClasses,omitempty"`
	Video     string    `json:"video,omitempty" bson:"video,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

type NewSession struct {
	Subject string   `json:"subject" validate:"required"`
	Classes []string `json:"for_classes" validate:"dive,required"`
	Video   string   `json:"video"`
}

func (ns *NewSession) Validate() error {
	ns.Subject = core.CleanString(ns.Subject, true /* lower */)
	return core.Validate.Struct(ns)
}

type Repository interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSessionByID(ctx context.Context, id string) (*Session, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a room for the teacher; the room id is generated here.
func (svc *Service) Create(ctx context.Context, teacherID string, ns NewSession) (*Session, error) {
	now := time.Now().UTC()
	sess := Session{
		TeacherID: teacherID,
		RoomID:    uuid.New().String(),
		Subject:   ns.Subject,
		Classes:   ns.Classes,
		Video:     ns.Video,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.repo.CreateSession(ctx, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (svc *Service) Get(ctx context.Context, id string) (*Session, error) {
	return svc.repo.GetSessionByID(ctx, id)
}
