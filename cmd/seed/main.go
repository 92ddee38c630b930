package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakshamspr/MediLink/internal/config"
	"github.com/sakshamspr/MediLink/internal/db"
)

type seedCategory struct {
	Name string
	Icon string
}

type seedDoctor struct {
	Name            string
	Category        string
	Specialization  string
	Experience      string
	ConsultationFee int
	Rating          float64
	Education       []string
	About           string
	Location        string
	ImageURL        string
}

var slotTimes = []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30"}

const seedSlotDays = 14

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	categories := []seedCategory{
		{Name: "Cardiology", Icon: "heart"},
		{Name: "Neurology", Icon: "brain"},
		{Name: "Orthopedics", Icon: "bone"},
		{Name: "Pediatrics", Icon: "baby"},
		{Name: "Dermatology", Icon: "sparkles"},
		{Name: "Ophthalmology", Icon: "eye"},
		{Name: "General Medicine", Icon: "stethoscope"},
		{Name: "Dentistry", Icon: "smile"},
	}

	categoryIDs := make(map[string]string, len(categories))
	for _, cat := range categories {
		id, err := seedCategoryRow(ctx, cols, cat, cfg.Timezone)
		if err != nil {
			log.Fatalf("seed category %s: %v", cat.Name, err)
		}
		categoryIDs[cat.Name] = id
	}

	doctors := []seedDoctor{
		{
			Name: "Dr. Priya Sharma", Category: "Cardiology", Specialization: "Interventional Cardiologist",
			Experience: "14 years", ConsultationFee: 800, Rating: 4.8,
			Education: []string{"MBBS, AIIMS Delhi", "MD Cardiology, PGIMER"},
			About:     "Specialist in angioplasty and preventive cardiology.",
			Location:  "Apollo Hospital, Bengaluru",
		},
		{
			Name: "Dr. Arjun Mehta", Category: "Neurology", Specialization: "Neurologist",
			Experience: "11 years", ConsultationFee: 900, Rating: 4.7,
			Education: []string{"MBBS, KEM Mumbai", "DM Neurology, NIMHANS"},
			About:     "Focus on epilepsy and movement disorders.",
			Location:  "Fortis Hospital, Mumbai",
		},
		{
			Name: "Dr. Kavita Rao", Category: "Orthopedics", Specialization: "Orthopedic Surgeon",
			Experience: "16 years", ConsultationFee: 700, Rating: 4.6,
			Education: []string{"MBBS, CMC Vellore", "MS Orthopedics, CMC Vellore"},
			About:     "Joint replacement and sports injury surgery.",
			Location:  "Manipal Hospital, Bengaluru",
		},
		{
			Name: "Dr. Rohan Iyer", Category: "Pediatrics", Specialization: "Pediatrician",
			Experience: "9 years", ConsultationFee: 500, Rating: 4.9,
			Education: []string{"MBBS, Grant Medical College", "MD Pediatrics, Seth GS"},
			About:     "Newborn care and childhood immunization.",
			Location:  "Rainbow Children's Hospital, Hyderabad",
		},
		{
			Name: "Dr. Sneha Kulkarni", Category: "Dermatology", Specialization: "Dermatologist",
			Experience: "8 years", ConsultationFee: 600, Rating: 4.5,
			Education: []string{"MBBS, BJ Medical College", "MD Dermatology, AIIMS"},
			About:     "Clinical and cosmetic dermatology.",
			Location:  "Ruby Hall Clinic, Pune",
		},
		{
			Name: "Dr. Vikram Nair", Category: "Ophthalmology", Specialization: "Eye Surgeon",
			Experience: "13 years", ConsultationFee: 650, Rating: 4.7,
			Education: []string{"MBBS, JIPMER", "MS Ophthalmology, Sankara Nethralaya"},
			About:     "Cataract and refractive surgery.",
			Location:  "Sankara Nethralaya, Chennai",
		},
		{
			Name: "Dr. Ananya Das", Category: "General Medicine", Specialization: "General Physician",
			Experience: "7 years", ConsultationFee: 400, Rating: 4.6,
			Education: []string{"MBBS, Calcutta Medical College", "MD General Medicine"},
			About:     "Primary care, diabetes and hypertension management.",
			Location:  "AMRI Hospital, Kolkata",
		},
		{
			Name: "Dr. Sameer Khan", Category: "Dentistry", Specialization: "Dental Surgeon",
			Experience: "10 years", ConsultationFee: 450, Rating: 4.4,
			Education: []string{"BDS, Nair Hospital Dental College", "MDS Oral Surgery"},
			About:     "Root canal treatment and oral surgery.",
			Location:  "Clove Dental, Delhi",
		},
	}

	for _, doc := range doctors {
		catID, ok := categoryIDs[doc.Category]
		if !ok {
			log.Fatalf("seed doctor %s: unknown category %s", doc.Name, doc.Category)
		}
		doctorID, err := seedDoctorRow(ctx, cols, doc, catID, cfg.Timezone)
		if err != nil {
			log.Fatalf("seed doctor %s: %v", doc.Name, err)
		}
		if err := seedSlots(ctx, cols, doctorID, cfg.Timezone); err != nil {
			log.Fatalf("seed slots for %s: %v", doc.Name, err)
		}
	}

	log.Println("seed completed")
}

func seedCategoryRow(ctx context.Context, cols *db.Collections, cat seedCategory, loc *time.Location) (string, error) {
	filter := bson.M{"name": cat.Name}
	update := bson.M{
		"$set": bson.M{"icon": cat.Icon},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"name":      cat.Name,
			"createdAt": time.Now().In(loc),
		},
	}
	if _, err := cols.Categories.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return "", err
	}

	var row struct {
		ID string `bson:"_id"`
	}
	if err := cols.Categories.FindOne(ctx, filter).Decode(&row); err != nil {
		return "", err
	}
	return row.ID, nil
}

func seedDoctorRow(ctx context.Context, cols *db.Collections, doc seedDoctor, categoryID string, loc *time.Location) (string, error) {
	filter := bson.M{"name": doc.Name, "categoryId": categoryID}
	update := bson.M{
		"$set": bson.M{
			"specialization":  doc.Specialization,
			"experience":      doc.Experience,
			"consultationFee": doc.ConsultationFee,
			"rating":          doc.Rating,
			"education":       doc.Education,
			"about":           doc.About,
			"location":        doc.Location,
			"imageUrl":        doc.ImageURL,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"name":       doc.Name,
			"categoryId": categoryID,
			"createdAt":  time.Now().In(loc),
		},
	}
	if _, err := cols.Doctors.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return "", err
	}

	var row struct {
		ID string `bson:"_id"`
	}
	if err := cols.Doctors.FindOne(ctx, filter).Decode(&row); err != nil {
		return "", err
	}
	return row.ID, nil
}

// seedSlots upserts open slots for the next two weeks, Sundays excluded. The
// unique (doctorId, slotDate, slotTime) index keeps reruns idempotent, and
// $setOnInsert means an already-booked slot is never flipped back to open.
func seedSlots(ctx context.Context, cols *db.Collections, doctorID string, loc *time.Location) error {
	now := time.Now().In(loc)
	for day := 1; day <= seedSlotDays; day++ {
		date := now.AddDate(0, 0, day)
		if date.Weekday() == time.Sunday {
			continue
		}
		slotDate := date.Format("2006-01-02")
		for _, slotTime := range slotTimes {
			filter := bson.M{
				"doctorId": doctorID,
				"slotDate": slotDate,
				"slotTime": slotTime,
			}
			update := bson.M{
				"$setOnInsert": bson.M{
					"_id":         primitive.NewObjectID().Hex(),
					"doctorId":    doctorID,
					"slotDate":    slotDate,
					"slotTime":    slotTime,
					"isAvailable": true,
					"createdAt":   now,
				},
			}
			if _, err := cols.AvailableSlots.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
				return fmt.Errorf("slot %s %s: %w", slotDate, slotTime, err)
			}
		}
	}
	return nil
}
