package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/darasa/core/live"
)

type liveRepository struct {
	lives *mongo.Collection
}

var _ live.Repository = (*liveRepository)(nil) // interface compliance check

func NewLiveRepository(db *mongo.Database) live.Repository {
	return &liveRepository{lives: db.Collection(livesCol)}
}

func (repo *liveRepository) CreateSession(ctx context.Context, s *live.Session) error {
	s.ID = newID()
	_, err := repo.lives.InsertOne(ctx, s)
	return err
}

func (repo *liveRepository) GetSessionByID(ctx context.Context, id string) (*live.Session, error) {
	var sess live.Session
	if err := repo.lives.FindOne(ctx, bson.M{"_id": id}).Decode(&sess); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, live.ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}
