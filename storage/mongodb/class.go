package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/darasa/core/class"
	"github.com/trezcool/darasa/core/user"
)

type classRepository struct {
	classes *mongo.Collection
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *mongo.Database) class.Repository {
	return &classRepository{classes: db.Collection(classesCol)}
}

func (repo *classRepository) CreateClass(ctx context.Context, c *class.Class) error {
	c.ID = newID()
	if _, err := repo.classes.InsertOne(ctx, c); err != nil {
		if isDup(err) {
			return class.ErrClassExists
		}
		return err
	}
	return nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (*class.Class, error) {
	var cls class.Class
	if err := repo.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&cls); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, class.ErrNotFound
		}
		return nil, err
	}
	return &cls, nil
}

func (repo *classRepository) GetAllClasses(ctx context.Context) ([]class.Class, error) {
	cursor, err := repo.classes.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	classes := make([]class.Class, 0)
	if err = cursor.All(ctx, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

// AddClassMembers appends the batch in one write; $addToSet keeps a racing
// duplicate from being admitted twice.
func (repo *classRepository) AddClassMembers(ctx context.Context, classID, kind string, ids []string) error {
	field := "students"
	if kind == user.RoleTeacher {
		field = "teachers"
	}
	res, err := repo.classes.UpdateOne(ctx,
		bson.M{"_id": classID},
		bson.M{"$addToSet": bson.M{field: bson.M{"$each": ids}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	res, err := repo.classes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return class.ErrNotFound
	}
	return nil
}
