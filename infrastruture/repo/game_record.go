package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-sweeper/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GameRecordRepo stores finished games.
type GameRecordRepo struct {
	collection *mongo.Collection
}

func NewGameRecordRepo(client *mongo.Client, dbName, collectionName string) *GameRecordRepo {
	return &GameRecordRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes supports the per player history query.
func (g *GameRecordRepo) EnsureIndexes(ctx context.Context) error {
	_, err := g.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "playerId", Value: 1}, {Key: "endedAt", Value: -1}},
	})
	return err
}

// Save writes a record. Saving the same game twice keeps the latest version.
func (g *GameRecordRepo) Save(record *dmn.GameRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := g.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByPlayer returns up to limit records of a player, most recent first.
func (g *GameRecordRepo) ByPlayer(playerID uuid.UUID, limit int) ([]*dmn.GameRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "endedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := g.collection.Find(ctx, bson.M{"playerId": playerID}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}

	records := []*dmn.GameRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return records, nil
}
