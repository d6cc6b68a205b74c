package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/trezcool/darasa/core"
)

// collection names
const (
	usersCol       = "users"
	studentsCol    = "students"
	teachersCol    = "teachers"
	classesCol     = "classes"
	assignmentsCol = "assignments"
	examsCol       = "exams"
	subjectsCol    = "subjects"
	livesCol       = "lives"
)

// Open connects to the database and pings it before returning a handle.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	return client.Database(conf.Database.Name), nil
}

// EnsureIndexes creates the unique indexes backing the uniqueness invariants:
// one account per email, one class per (year, class) pair. Racing writers
// lose at the index instead of admitting a duplicate.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(usersCol).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return errors.Wrap(err, "creating users email index")
	}

	_, err = db.Collection(classesCol).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "year", Value: 1}, {Key: "class", Value: 1}},
		Options: unique,
	})
	return errors.Wrap(err, "creating classes (year, class) index")
}

// newID generates a document id; ids are stored and exposed as hex strings so
// the domain packages stay driver-free.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// isDup reports whether err is a unique index violation.
func isDup(err error) bool {
	var wErr mongo.WriteException
	if errors.As(err, &wErr) {
		for _, we := range wErr.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	return false
}
