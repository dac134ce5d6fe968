package record

import (
	"context"
	"time"

	"go-fitstaff/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, record *Record) error
	Get(ctx context.Context, entity, id string) (*Record, error)
	List(ctx context.Context, entity string, filter bson.M, accessFilter bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Record, error)
	Count(ctx context.Context, entity string, filter bson.M, accessFilter bson.M) (int64, error)
	Update(ctx context.Context, entity, id string, set bson.M) error
	Delete(ctx context.Context, entity, id string, staffID string) error
	Aggregate(ctx context.Context, entity string, pipeline mongo.Pipeline) ([]bson.M, error)
}

type RecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRecordRepository(mongodb *database.MongodbDB) RecordRepository {
	return &RecordRepositoryImpl{
		Collection: mongodb.DB.Collection("entity_records"),
	}
}

// systemFields are stored at the top level, everything else under data.
var systemFields = map[string]bool{
	"_id": true, "owner_id": true, "department": true, "assigned_ids": true, "status": true,
	"created_at": true, "updated_at": true, "created_by": true, "updated_by": true,
}

func fieldPath(name string) string {
	if systemFields[name] {
		return name
	}
	return "data." + name
}

func (r *RecordRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "deleted", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "department", Value: 1}}},
		{Keys: bson.D{{Key: "entity", Value: 1}, {Key: "assigned_ids", Value: 1}}},
	})
	return err
}

func (r *RecordRepositoryImpl) Create(ctx context.Context, record *Record) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	record.Deleted = false

	_, err := r.Collection.InsertOne(ctx, record)
	return err
}

func (r *RecordRepositoryImpl) Get(ctx context.Context, entity, id string) (*Record, error) {
	recordID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}

	var record Record
	err = r.Collection.FindOne(ctx, bson.M{"_id": recordID, "entity": entity, "deleted": bson.M{"$ne": true}}).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *RecordRepositoryImpl) query(entity string, filter bson.M, accessFilter bson.M) bson.M {
	baseQuery := bson.M{
		"entity":  entity,
		"deleted": bson.M{"$ne": true},
	}

	userQuery := bson.M{}
	for k, v := range filter {
		userQuery[fieldPath(k)] = v
	}

	andConditions := []bson.M{baseQuery}
	if len(userQuery) > 0 {
		andConditions = append(andConditions, userQuery)
	}
	if len(accessFilter) > 0 {
		andConditions = append(andConditions, accessFilter)
	}
	return bson.M{"$and": andConditions}
}

func (r *RecordRepositoryImpl) List(ctx context.Context, entity string, filter bson.M, accessFilter bson.M, limit, offset int64, sortBy string, sortOrder int) ([]Record, error) {
	if sortBy == "" {
		sortBy = "created_at"
	}
	if sortOrder == 0 {
		sortOrder = -1
	}

	findOptions := options.Find().
		SetLimit(limit).
		SetSkip(offset).
		SetSort(bson.D{{Key: fieldPath(sortBy), Value: sortOrder}})

	cursor, err := r.Collection.Find(ctx, r.query(entity, filter, accessFilter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RecordRepositoryImpl) Count(ctx context.Context, entity string, filter bson.M, accessFilter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, r.query(entity, filter, accessFilter))
}

// Update sets the given fields. Keys are mapped the same way as filters.
func (r *RecordRepositoryImpl) Update(ctx context.Context, entity, id string, set bson.M) error {
	recordID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	updateSet := bson.M{
		"updated_at": time.Now(),
	}
	for k, v := range set {
		updateSet[fieldPath(k)] = v
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": recordID, "entity": entity, "deleted": bson.M{"$ne": true}}, bson.M{"$set": updateSet})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *RecordRepositoryImpl) Delete(ctx context.Context, entity, id string, staffID string) error {
	recordID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}

	update := bson.M{
		"$set": bson.M{
			"deleted":    true,
			"deleted_at": time.Now(),
			"deleted_by": staffID,
		},
	}

	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": recordID, "entity": entity, "deleted": bson.M{"$ne": true}}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Aggregate runs pipeline over the live records of entity
func (r *RecordRepositoryImpl) Aggregate(ctx context.Context, entity string, pipeline mongo.Pipeline) ([]bson.M, error) {
	match := bson.D{{Key: "$match", Value: bson.M{"entity": entity, "deleted": bson.M{"$ne": true}}}}
	full := append(mongo.Pipeline{match}, pipeline...)

	cursor, err := r.Collection.Aggregate(ctx, full)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
