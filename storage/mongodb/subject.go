package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/darasa/core/subject"
)

type subjectRepository struct {
	subjects *mongo.Collection
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *mongo.Database) subject.Repository {
	return &subjectRepository{subjects: db.Collection(subjectsCol)}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, s *subject.Subject) error {
	s.ID = newID()
	_, err := repo.subjects.InsertOne(ctx, s)
	return err
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id string) (*subject.Subject, error) {
	var sub subject.Subject
	if err := repo.subjects.FindOne(ctx, bson.M{"_id": id}).Decode(&sub); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, subject.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (repo *subjectRepository) GetAllSubjects(ctx context.Context) ([]subject.Subject, error) {
	cursor, err := repo.subjects.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	subs := make([]subject.Subject, 0)
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (repo *subjectRepository) AddLesson(ctx context.Context, subjectID string, l *subject.Lesson) error {
	l.ID = newID()
	return repo.push(ctx, subjectID, "lessons", l)
}

func (repo *subjectRepository) AddArticle(ctx context.Context, subjectID string, a *subject.Article) error {
	a.ID = newID()
	return repo.push(ctx, subjectID, "articles", a)
}

func (repo *subjectRepository) push(ctx context.Context, subjectID, field string, doc interface{}) error {
	res, err := repo.subjects.UpdateOne(ctx,
		bson.M{"_id": subjectID},
		bson.M{"$push": bson.M{field: doc}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return subject.ErrNotFound
	}
	return nil
}

// UpdateLesson targets the embedded lesson by its own id with a field-path
// update; empty edit fields are not touched.
func (repo *subjectRepository) UpdateLesson(ctx context.Context, subjectID, lessonID string, edit subject.EditLesson) error {
	set := bson.M{}
	if edit.Title != "" {
		set["lessons.$[elem].title"] = edit.Title
	}
	if edit.Description != "" {
		set["lessons.$[elem].description"] = edit.Description
	}
	return repo.updateEmbedded(ctx, subjectID, lessonID, set)
}

func (repo *subjectRepository) UpdateArticle(ctx context.Context, subjectID, articleID string, edit subject.EditArticle) error {
	set := bson.M{}
	if edit.Title != "" {
		set["articles.$[elem].title"] = edit.Title
	}
	if edit.Body != "" {
		set["articles.$[elem].body"] = edit.Body
	}
	return repo.updateEmbedded(ctx, subjectID, articleID, set)
}

func (repo *subjectRepository) updateEmbedded(ctx context.Context, subjectID, elemID string, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem._id": elemID}},
	})
	res, err := repo.subjects.UpdateOne(ctx, bson.M{"_id": subjectID}, bson.M{"$set": set}, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return subject.ErrNotFound
	}
	return nil
}

func (repo *subjectRepository) RemoveLesson(ctx context.Context, subjectID, lessonID string) error {
	return repo.pull(ctx, subjectID, "lessons", lessonID)
}

func (repo *subjectRepository) RemoveArticle(ctx context.Context, subjectID, articleID string) error {
	return repo.pull(ctx, subjectID, "articles", articleID)
}

func (repo *subjectRepository) pull(ctx context.Context, subjectID, field, elemID string) error {
	res, err := repo.subjects.UpdateOne(ctx,
		bson.M{"_id": subjectID},
		bson.M{"$pull": bson.M{field: bson.M{"_id": elemID}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return subject.ErrNotFound
	}
	return nil
}

func (repo *subjectRepository) AddSubjectTeacher(ctx context.Context, subjectID, teacherID string) error {
	res, err := repo.subjects.UpdateOne(ctx,
		bson.M{"_id": subjectID},
		bson.M{"$addToSet": bson.M{"teachers": teacherID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return subject.ErrNotFound
	}
	return nil
}
