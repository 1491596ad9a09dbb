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

const auditCollection = "audit_logs"

// AuditRepository persists the append-only audit trail. Records are written
// once and never updated or removed.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Username    string             `bson:"username"`
	Description string             `bson:"description"`
	CreatedAt   int64              `bson:"created_at"`
}

func (r *AuditRepository) Append(ctx context.Context, record domain.AuditRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, auditDoc{
		Username:    record.Username,
		Description: record.Description,
		CreatedAt:   createdAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (r *AuditRepository) List(ctx context.Context) ([]domain.AuditRecord, error) {
	return r.find(ctx, bson.M{})
}

func (r *AuditRepository) ListByUsername(ctx context.Context, username string) ([]domain.AuditRecord, error) {
	return r.find(ctx, bson.M{"username": username})
}

func (r *AuditRepository) find(ctx context.Context, filter bson.M) ([]domain.AuditRecord, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer cur.Close(ctx)

	var records []domain.AuditRecord
	for cur.Next(ctx) {
		var doc auditDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit record: %w", err)
		}
		records = append(records, domain.AuditRecord{
			ID:          doc.ID.Hex(),
			Username:    doc.Username,
			Description: doc.Description,
			CreatedAt:   unixToTime(doc.CreatedAt),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	return records, nil
}
