package models

import "time"

const (
	AppointmentStatusConfirmed = "confirmed"

	CategoryAll = "all"
)

type Category struct {
	ID   string `bson:"_id,omitempty" json:"id"`
	Name string `bson:"name" json:"name"`
	Icon string `bson:"icon" json:"icon"`
}

type Doctor struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Name            string    `bson:"name" json:"name"`
	Specialization  string    `bson:"specialization" json:"specialization"`
	CategoryID      string    `bson:"categoryId" json:"categoryId"`
	Experience      string    `bson:"experience" json:"experience"`
	Rating          float64   `bson:"rating" json:"rating"`
	ImageURL        string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Location        string    `bson:"location" json:"location"`
	Phone           string    `bson:"phone" json:"phone"`
	Email           string    `bson:"email" json:"email"`
	About           string    `bson:"about" json:"about"`
	Education       []string  `bson:"education" json:"education"`
	ConsultationFee int       `bson:"consultationFee" json:"consultationFee"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// AvailableSlot is a bookable date/time unit for a doctor. Slots are created
// in bulk out of band (cmd/seed); the booking flow is the only writer of
// IsAvailable and only ever flips it true -> false.
type AvailableSlot struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	DoctorID    string    `bson:"doctorId" json:"doctorId"`
	SlotDate    string    `bson:"slotDate" json:"slotDate"`
	SlotTime    string    `bson:"slotTime" json:"slotTime"`
	IsAvailable bool      `bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

type Appointment struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	DoctorID        string    `bson:"doctorId" json:"doctorId"`
	SlotID          string    `bson:"slotId" json:"slotId"`
	PatientName     string    `bson:"patientName" json:"patientName"`
	PatientEmail    string    `bson:"patientEmail" json:"patientEmail"`
	AppointmentDate string    `bson:"appointmentDate" json:"appointmentDate"`
	AppointmentTime string    `bson:"appointmentTime" json:"appointmentTime"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}
