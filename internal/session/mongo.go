package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/sacsbot/internal/dialogue"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "sessions"

type sessionDoc struct {
	ChatID    int64     `bson:"chat_id"`
	State     string    `bson:"state"`
	Lines     int       `bson:"lines,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps sessions in MongoDB so a restart does not lose dialogues
// in progress. Abandoned sessions are removed by a TTL index.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore sets up the collection with a unique index on chat_id and a
// TTL index on updated_at.
func NewMongoStore(ctx context.Context, client *mongo.Client, dbName string, ttl time.Duration) (*MongoStore, error) {
	coll := client.Database(dbName).Collection(collectionName)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chat_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(ttl / time.Second)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create session indexes: %w", err)
	}
	return &MongoStore{coll: coll}, nil
}

func (s *MongoStore) Load(ctx context.Context, chatID int64) (dialogue.Session, bool, error) {
	var doc sessionDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "chat_id", Value: chatID}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dialogue.Session{}, false, nil
		}
		return dialogue.Session{}, false, fmt.Errorf("load session %d: %w", chatID, err)
	}
	return dialogue.Session{
		ChatID:    doc.ChatID,
		State:     dialogue.State(doc.State),
		Lines:     doc.Lines,
		UpdatedAt: doc.UpdatedAt,
	}, true, nil
}

func (s *MongoStore) Save(ctx context.Context, sess dialogue.Session) error {
	updated := sess.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "chat_id", Value: sess.ChatID}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "state", Value: string(sess.State)},
			{Key: "lines", Value: sess.Lines},
			{Key: "updated_at", Value: updated.UTC()},
		}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save session %d: %w", sess.ChatID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, chatID int64) error {
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "chat_id", Value: chatID}}); err != nil {
		return fmt.Errorf("delete session %d: %w", chatID, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
