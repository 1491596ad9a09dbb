package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

const (
	usersCollection  = "users"
	defaultMinPwdLen = 8
)

// dummyHash is compared against when a username does not resolve, so the
// unknown-user path costs the same bcrypt verification as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)

// UserRepository is the MongoDB credential store. It owns password hashing
// (bcrypt) and the password length policy; plaintext never leaves this type.
type UserRepository struct {
	coll      *mongo.Collection
	minPwdLen int
}

// NewUserRepository creates the credential store over db. minPasswordLen <= 0
// falls back to the default policy of 8 characters.
func NewUserRepository(db *mongo.Database, minPasswordLen int) *UserRepository {
	if minPasswordLen <= 0 {
		minPasswordLen = defaultMinPwdLen
	}
	return &UserRepository{coll: db.Collection(usersCollection), minPwdLen: minPasswordLen}
}

type userDoc struct {
	ID           string   `bson:"_id"`
	Username     string   `bson:"username"`
	Email        string   `bson:"email,omitempty"`
	FirstName    string   `bson:"first_name,omitempty"`
	LastName     string   `bson:"last_name,omitempty"`
	Address      string   `bson:"address,omitempty"`
	PasswordHash string   `bson:"password_hash"`
	Roles        []string `bson:"roles"`
	CreatedAt    int64    `bson:"created_at"`
	UpdatedAt    int64    `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User, plaintext string) (*domain.User, error) {
	if len(plaintext) < r.minPwdLen {
		return nil, fmt.Errorf("%w: minimum %d characters", domain.ErrWeakPassword, r.minPwdLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	doc := userDoc{
		ID:           uuid.NewString(),
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Address:      user.Address,
		PasswordHash: string(hash),
		Roles:        user.Roles,
		CreatedAt:    now.Unix(),
		UpdatedAt:    now.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	// Exact match: usernames are case-sensitive.
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) VerifyPassword(_ context.Context, user *domain.User, plaintext string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

// ReplaceRoles swaps the whole role set in a single $set, which MongoDB
// applies atomically per document: no reader ever observes zero roles.
func (r *UserRepository) ReplaceRoles(ctx context.Context, username string, roles []string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"roles": roles, "updated_at": time.Now().UTC().Unix()}},
	)
	if err != nil {
		return fmt.Errorf("replace roles: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, *doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Address:      d.Address,
		PasswordHash: d.PasswordHash,
		Roles:        d.Roles,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
