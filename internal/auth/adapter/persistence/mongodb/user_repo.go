package mongodb

import (
	"context"
	"time"

	"campus-facilities/internal/auth/domain/model"
	"campus-facilities/internal/auth/usecase"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements the UserRepository interface using MongoDB.
type MongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository.
func NewMongoUserRepository(db *mongo.Database) (*MongoUserRepository, error) {
	repo := &MongoUserRepository{
		users: db.Collection("users"),
	}

	ctx := context.Background()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, emailIndex); err != nil {
		return nil, err
	}

	// UUID lookups go through the string id field.
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := repo.users.Indexes().CreateOne(ctx, idIndex); err != nil {
		return nil, err
	}

	return repo, nil
}

// CreateUser creates a new user in the database.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}
	return &user, nil
}

// GetUserByID retrieves a user by its string identifier.
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}

	if user.ID == "" && !user.ObjectID.IsZero() {
		user.ID = user.ObjectID.Hex()
	}
	return &user, nil
}
