package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/folioworks/account-service/internal/core/domain"
)

const (
	usersCollection = "users"
	opTimeout       = 5 * time.Second
)

// UserRepository persists user accounts in the users collection. Email
// uniqueness is guaranteed by a unique index (see EnsureIndexes), so insert
// races surface as duplicate-key errors rather than double writes.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID            primitive.ObjectID         `bson:"_id,omitempty"`
	Email         string                     `bson:"email"`
	Password      string                     `bson:"password"`
	Name          string                     `bson:"name"`
	Summary       string                     `bson:"summary"`
	SocialLinks   map[domain.Platform]string `bson:"social_links,omitempty"`
	Experiences   []domain.Experience        `bson:"experiences,omitempty"`
	Skills        []string                   `bson:"skills,omitempty"`
	Achievements  []string                   `bson:"achievements,omitempty"`
	Organizations []string                   `bson:"organizations,omitempty"`
	Activated     bool                       `bson:"activated"`
	CreatedAt     int64                      `bson:"created_at"`
}

// EnsureIndexes creates the unique email index. Safe to call repeatedly;
// index creation is idempotent.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := userDoc{
		Email:         user.Email,
		Password:      user.Password,
		Name:          user.Name,
		Summary:       user.Summary,
		SocialLinks:   user.SocialLinks,
		Experiences:   user.Experiences,
		Skills:        user.Skills,
		Achievements:  user.Achievements,
		Organizations: user.Organizations,
		Activated:     user.Activated,
		CreatedAt:     user.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("%w: insert user: %v", domain.ErrStoreUnavailable, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: unexpected inserted id type %T", domain.ErrStoreUnavailable, res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user by email: %v", domain.ErrStoreUnavailable, err)
	}
	return docToUser(&doc), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: find user by id: %v", domain.ErrStoreUnavailable, err)
	}
	return docToUser(&doc), nil
}

func docToUser(doc *userDoc) *domain.User {
	return &domain.User{
		ID:            doc.ID.Hex(),
		Email:         doc.Email,
		Password:      doc.Password,
		Name:          doc.Name,
		Summary:       doc.Summary,
		SocialLinks:   doc.SocialLinks,
		Experiences:   doc.Experiences,
		Skills:        doc.Skills,
		Achievements:  doc.Achievements,
		Organizations: doc.Organizations,
		Activated:     doc.Activated,
		CreatedAt:     unixToTime(doc.CreatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
