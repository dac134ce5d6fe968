package report

import (
	"context"
	"time"

	"go-fitstaff/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DigestRepository interface {
	Create(ctx context.Context, digest *Digest) error
	List(ctx context.Context, limit int64) ([]Digest, error)
}

type DigestRepositoryImpl struct {
	collection *mongo.Collection
}

func NewDigestRepository(db *database.MongodbDB) DigestRepository {
	return &DigestRepositoryImpl{
		collection: db.DB.Collection("report_digests"),
	}
}

func (r *DigestRepositoryImpl) Create(ctx context.Context, digest *Digest) error {
	digest.ID = primitive.NewObjectID()
	digest.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, digest)
	return err
}

func (r *DigestRepositoryImpl) List(ctx context.Context, limit int64) ([]Digest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	digests := []Digest{}
	if err := cursor.All(ctx, &digests); err != nil {
		return nil, err
	}
	return digests, nil
}
