package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Categories     *mongo.Collection
	Doctors        *mongo.Collection
	AvailableSlots *mongo.Collection
	Appointments   *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Categories:     db.Collection("categories"),
		Doctors:        db.Collection("doctors"),
		AvailableSlots: db.Collection("available_slots"),
		Appointments:   db.Collection("appointments"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Doctors.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "categoryId", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.AvailableSlots.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctorId", Value: 1},
				{Key: "isAvailable", Value: 1},
				{Key: "slotDate", Value: 1},
				{Key: "slotTime", Value: 1},
			},
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "slotDate", Value: 1}, {Key: "slotTime", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	// One appointment per slot, enforced by the store itself. The booking flow
	// claims the slot atomically before inserting, this index backs the
	// invariant even if that ever regresses.
	_, err = cols.Appointments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slotId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "doctorId", Value: 1}, {Key: "appointmentDate", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	return nil
}
