package staff

import (
	"context"
	"time"

	"go-fitstaff/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type StaffRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, staff *Staff) error
	FindByID(ctx context.Context, id string) (*Staff, error)
	FindByUsername(ctx context.Context, username string) (*Staff, error)
	List(ctx context.Context, filter map[string]interface{}) ([]Staff, error)
	Update(ctx context.Context, staff *Staff) error
	Delete(ctx context.Context, id string) error
	FindNames(ctx context.Context, ids []string) (map[string]string, error)
}

type StaffRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewStaffRepository(mongodb *database.MongodbDB) StaffRepository {
	return &StaffRepositoryImpl{
		Collection: mongodb.DB.Collection("staff"),
	}
}

func (r *StaffRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "department", Value: 1}},
		},
	})
	return err
}

func (r *StaffRepositoryImpl) Create(ctx context.Context, staff *Staff) error {
	_, err := r.Collection.InsertOne(ctx, staff)
	return err
}

func (r *StaffRepositoryImpl) FindByID(ctx context.Context, id string) (*Staff, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var staff Staff
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepositoryImpl) FindByUsername(ctx context.Context, username string) (*Staff, error) {
	var staff Staff
	if err := r.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepositoryImpl) List(ctx context.Context, filter map[string]interface{}) ([]Staff, error) {
	query := bson.M{}
	for k, v := range filter {
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		query[k] = v
	}

	opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	staff := []Staff{}
	if err := cursor.All(ctx, &staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *StaffRepositoryImpl) Update(ctx context.Context, staff *Staff) error {
	staff.UpdatedAt = time.Now()
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": staff.ID}, staff)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *StaffRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// FindNames maps staff ids to display names for audit listings
func (r *StaffRepositoryImpl) FindNames(ctx context.Context, ids []string) (map[string]string, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	opts := options.Find().SetProjection(bson.M{"name": 1, "username": 1})
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []Staff
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(found))
	for _, s := range found {
		name := s.Name
		if name == "" {
			name = s.Username
		}
		names[s.ID.Hex()] = name
	}
	return names, nil
}
