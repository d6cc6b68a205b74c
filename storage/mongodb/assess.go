package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/darasa/core/assess"
)

type assessRepository struct {
	assignments *mongo.Collection
	exams       *mongo.Collection
}

var _ assess.Repository = (*assessRepository)(nil) // interface compliance check

func NewAssessRepository(db *mongo.Database) assess.Repository {
	return &assessRepository{
		assignments: db.Collection(assignmentsCol),
		exams:       db.Collection(examsCol),
	}
}

func (repo *assessRepository) CreateAssignment(ctx context.Context, a *assess.Assignment) error {
	a.ID = newID()
	if a.Classes == nil {
		a.Classes = []string{}
	}
	_, err := repo.assignments.InsertOne(ctx, a)
	return err
}

func (repo *assessRepository) GetAssignmentByID(ctx context.Context, id string) (*assess.Assignment, error) {
	var asg assess.Assignment
	if err := repo.assignments.FindOne(ctx, bson.M{"_id": id}).Decode(&asg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, assess.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &asg, nil
}

func (repo *assessRepository) GetAssignmentsByClass(ctx context.Context, classID string) ([]assess.Assignment, error) {
	cursor, err := repo.assignments.Find(ctx, bson.M{"classes": classID})
	if err != nil {
		return nil, err
	}
	asgs := make([]assess.Assignment, 0)
	if err = cursor.All(ctx, &asgs); err != nil {
		return nil, err
	}
	return asgs, nil
}

func (repo *assessRepository) CreateExam(ctx context.Context, e *assess.Exam) error {
	e.ID = newID()
	_, err := repo.exams.InsertOne(ctx, e)
	return err
}

func (repo *assessRepository) GetExamByID(ctx context.Context, id string) (*assess.Exam, error) {
	var exam assess.Exam
	if err := repo.exams.FindOne(ctx, bson.M{"_id": id}).Decode(&exam); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, assess.ErrExamNotFound
		}
		return nil, err
	}
	return &exam, nil
}

func (repo *assessRepository) FindExams(ctx context.Context, filter assess.ExamFilter) ([]assess.Exam, error) {
	query := bson.M{}
	if filter.ForMonth != nil {
		query["forMonth"] = *filter.ForMonth
	}
	if filter.Approved != nil {
		query["approved"] = *filter.Approved
	}
	if filter.Available != nil {
		query["available"] = *filter.Available
	}
	if filter.Subject != "" {
		query["subject"] = filter.Subject
	}
	if filter.SchoolYear != nil {
		query["schoolYear"] = *filter.SchoolYear
	}

	cursor, err := repo.exams.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	exams := make([]assess.Exam, 0)
	if err = cursor.All(ctx, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

func (repo *assessRepository) SetExamApproved(ctx context.Context, id string) error {
	return repo.setExamFlag(ctx, id, bson.M{"approved": true})
}

func (repo *assessRepository) SetExamAvailable(ctx context.Context, id string, available bool) error {
	return repo.setExamFlag(ctx, id, bson.M{"available": available})
}

func (repo *assessRepository) setExamFlag(ctx context.Context, id string, set bson.M) error {
	res, err := repo.exams.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return assess.ErrExamNotFound
	}
	return nil
}

func (repo *assessRepository) DeleteExam(ctx context.Context, id string) error {
	res, err := repo.exams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return assess.ErrExamNotFound
	}
	return nil
}
