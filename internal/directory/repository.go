package directory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakshamspr/MediLink/internal/models"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListDoctors(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error)
	FindDoctor(ctx context.Context, id string) (models.Doctor, error)
	ListOpenSlots(ctx context.Context, doctorID, fromDate string) ([]models.AvailableSlot, error)
}

type DoctorFilter struct {
	CategoryID string
}

type MongoRepository struct {
	categories *mongo.Collection
	doctors    *mongo.Collection
	slots      *mongo.Collection
}

func NewRepository(categories, doctors, slots *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		categories: categories,
		doctors:    doctors,
		slots:      slots,
	}
}

func (r *MongoRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Category, 0)
	for cursor.Next(ctx) {
		var cat models.Category
		if err := cursor.Decode(&cat); err != nil {
			return nil, err
		}
		items = append(items, cat)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) ListDoctors(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	query := bson.M{}
	if filter.CategoryID != "" {
		query["categoryId"] = filter.CategoryID
	}

	cursor, err := r.doctors.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Doctor, 0)
	for cursor.Next(ctx) {
		var doc models.Doctor
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) FindDoctor(ctx context.Context, id string) (models.Doctor, error) {
	var doc models.Doctor
	if err := r.doctors.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return models.Doctor{}, err
	}
	return doc, nil
}

func (r *MongoRepository) ListOpenSlots(ctx context.Context, doctorID, fromDate string) ([]models.AvailableSlot, error) {
	query := bson.M{
		"doctorId":    doctorID,
		"isAvailable": true,
		"slotDate":    bson.M{"$gte": fromDate},
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "slotDate", Value: 1},
		{Key: "slotTime", Value: 1},
	})

	cursor, err := r.slots.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.AvailableSlot, 0)
	for cursor.Next(ctx) {
		var slot models.AvailableSlot
		if err := cursor.Decode(&slot); err != nil {
			return nil, err
		}
		items = append(items, slot)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
