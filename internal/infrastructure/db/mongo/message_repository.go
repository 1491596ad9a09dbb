package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

const messagesCollection = "messages"

type MessageRepository struct {
	coll *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{coll: db.Collection(messagesCollection)}
}

type messageDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	SenderUsername   string             `bson:"sender_username"`
	ReceiverUsername string             `bson:"receiver_username"`
	Text             string             `bson:"text"`
	CreatedAt        int64              `bson:"created_at"`
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	now := time.Now().UTC()
	doc := messageDoc{
		ID:               primitive.NewObjectID(),
		SenderUsername:   message.SenderUsername,
		ReceiverUsername: message.ReceiverUsername,
		Text:             message.Text,
		CreatedAt:        now.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MessageRepository) List(ctx context.Context) ([]domain.Message, error) {
	return r.find(ctx, bson.M{})
}

func (r *MessageRepository) ListByParticipant(ctx context.Context, username string) ([]domain.Message, error) {
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_username": username},
		bson.M{"receiver_username": username},
	}})
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M) ([]domain.Message, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer cur.Close(ctx)

	var messages []domain.Message
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		messages = append(messages, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

func (d *messageDoc) toDomain() *domain.Message {
	return &domain.Message{
		ID:               d.ID.Hex(),
		SenderUsername:   d.SenderUsername,
		ReceiverUsername: d.ReceiverUsername,
		Text:             d.Text,
		CreatedAt:        unixToTime(d.CreatedAt),
	}
}
