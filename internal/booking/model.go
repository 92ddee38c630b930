package booking

import "errors"

var (
	// ErrSlotUnavailable is the expected stale-state outcome: the slot was
	// taken between selection and confirmation.
	ErrSlotUnavailable = errors.New("slot no longer available")

	// ErrVerifyAvailability wraps store failures while checking or claiming
	// the slot, before any durable write happened.
	ErrVerifyAvailability = errors.New("failed to verify slot availability")

	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

type CreateAppointmentRequest struct {
	DoctorID     string `json:"doctorId" validate:"required"`
	SlotID       string `json:"slotId" validate:"required"`
	PatientName  string `json:"patientName" validate:"required"`
	PatientEmail string `json:"patientEmail" validate:"required,email"`
	// PatientToken is an optional client-persisted identifier for anonymous
	// patients, so repeat bookings from the same browser share a user id.
	PatientToken string `json:"patientToken" validate:"omitempty,uuid4"`
}

// OrphanedAppointment is an appointment whose slot is still marked available,
// the partial-completion inconsistency an operator needs to look at. The
// sweep only reports these, it never repairs them.
type OrphanedAppointment struct {
	AppointmentID string `json:"appointmentId"`
	SlotID        string `json:"slotId"`
	DoctorID      string `json:"doctorId"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
