package booking

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakshamspr/MediLink/internal/models"
)

type Repository interface {
	FindSlot(ctx context.Context, slotID string) (models.AvailableSlot, error)
	// ClaimSlot flips isAvailable false in a single conditional update and
	// reports whether this caller won the slot. Two concurrent bookers can
	// both reach this call; at most one gets true.
	ClaimSlot(ctx context.Context, slotID string) (bool, error)
	ReleaseSlot(ctx context.Context, slotID string) error
	FindDoctor(ctx context.Context, doctorID string) (models.Doctor, error)
	InsertAppointment(ctx context.Context, appointment models.Appointment) error
	FindAppointment(ctx context.Context, id string) (models.Appointment, error)
	ListAppointments(ctx context.Context, limit, offset int64) ([]models.Appointment, int64, error)
	FindOrphanedAppointments(ctx context.Context) ([]OrphanedAppointment, error)
}

type MongoRepository struct {
	slots        *mongo.Collection
	doctors      *mongo.Collection
	appointments *mongo.Collection
}

func NewRepository(slots, doctors, appointments *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		slots:        slots,
		doctors:      doctors,
		appointments: appointments,
	}
}

func (r *MongoRepository) FindSlot(ctx context.Context, slotID string) (models.AvailableSlot, error) {
	var slot models.AvailableSlot
	if err := r.slots.FindOne(ctx, bson.M{"_id": slotID}).Decode(&slot); err != nil {
		return models.AvailableSlot{}, err
	}
	return slot, nil
}

func (r *MongoRepository) ClaimSlot(ctx context.Context, slotID string) (bool, error) {
	res, err := r.slots.UpdateOne(ctx,
		bson.M{"_id": slotID, "isAvailable": true},
		bson.M{"$set": bson.M{"isAvailable": false}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoRepository) ReleaseSlot(ctx context.Context, slotID string) error {
	_, err := r.slots.UpdateOne(ctx,
		bson.M{"_id": slotID},
		bson.M{"$set": bson.M{"isAvailable": true}},
	)
	return err
}

func (r *MongoRepository) FindDoctor(ctx context.Context, doctorID string) (models.Doctor, error) {
	var doc models.Doctor
	if err := r.doctors.FindOne(ctx, bson.M{"_id": doctorID}).Decode(&doc); err != nil {
		return models.Doctor{}, err
	}
	return doc, nil
}

func (r *MongoRepository) InsertAppointment(ctx context.Context, appointment models.Appointment) error {
	_, err := r.appointments.InsertOne(ctx, appointment)
	return err
}

func (r *MongoRepository) FindAppointment(ctx context.Context, id string) (models.Appointment, error) {
	var appointment models.Appointment
	if err := r.appointments.FindOne(ctx, bson.M{"_id": id}).Decode(&appointment); err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

func (r *MongoRepository) ListAppointments(ctx context.Context, limit, offset int64) ([]models.Appointment, int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.appointments.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Appointment, 0)
	for cursor.Next(ctx) {
		var appointment models.Appointment
		if err := cursor.Decode(&appointment); err != nil {
			return nil, 0, err
		}
		items = append(items, appointment)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}

	total, err := r.appointments.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MongoRepository) FindOrphanedAppointments(ctx context.Context) ([]OrphanedAppointment, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "available_slots",
			"localField":   "slotId",
			"foreignField": "_id",
			"as":           "slot",
		}}},
		{{Key: "$unwind", Value: "$slot"}},
		{{Key: "$match", Value: bson.M{"slot.isAvailable": true}}},
	}

	cursor, err := r.appointments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]OrphanedAppointment, 0)
	for cursor.Next(ctx) {
		var doc struct {
			ID              string `bson:"_id"`
			SlotID          string `bson:"slotId"`
			DoctorID        string `bson:"doctorId"`
			AppointmentDate string `bson:"appointmentDate"`
			AppointmentTime string `bson:"appointmentTime"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, OrphanedAppointment{
			AppointmentID: doc.ID,
			SlotID:        doc.SlotID,
			DoctorID:      doc.DoctorID,
			Date:          doc.AppointmentDate,
			Time:          doc.AppointmentTime,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
