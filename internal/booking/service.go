package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakshamspr/MediLink/internal/cache"
	"github.com/sakshamspr/MediLink/internal/dates"
	"github.com/sakshamspr/MediLink/internal/models"
)

// ErrSlotMismatch means the selected slot does not belong to the doctor the
// request names, a client-side bug rather than a conflict.
var ErrSlotMismatch = errors.New("slot does not belong to doctor")

type ConfirmationMailer interface {
	SendAppointmentConfirmation(ctx context.Context, appointment models.Appointment, doctor models.Doctor) error
}

type Service struct {
	repo     Repository
	mailer   ConfirmationMailer
	cache    cache.Cache
	location *time.Location
	log      *slog.Logger
}

func NewService(repo Repository, mailer ConfirmationMailer, cacheStore cache.Cache, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		mailer:   mailer,
		cache:    cacheStore,
		location: location,
		log:      log,
	}
}

// Reserve converts a selected slot into a confirmed appointment. The slot is
// claimed with a single conditional update before the appointment is written,
// so two concurrent bookers cannot both win it. The appointment's date and
// time come from the stored slot row, never from the client. Confirmation
// email is dispatched after the durable writes and cannot affect the outcome.
func (s *Service) Reserve(ctx context.Context, req CreateAppointmentRequest, userID string) (models.Appointment, error) {
	slot, err := s.repo.FindSlot(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, ErrSlotUnavailable
		}
		return models.Appointment{}, fmt.Errorf("%w: %v", ErrVerifyAvailability, err)
	}
	if slot.DoctorID != req.DoctorID {
		return models.Appointment{}, ErrSlotMismatch
	}
	if !slot.IsAvailable {
		return models.Appointment{}, ErrSlotUnavailable
	}
	if past, err := dates.IsDatePast(slot.SlotDate, s.location, time.Now()); err != nil || past {
		return models.Appointment{}, ErrSlotUnavailable
	}

	doctor, err := s.repo.FindDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, ErrDoctorNotFound
		}
		return models.Appointment{}, fmt.Errorf("find doctor: %w", err)
	}

	claimed, err := s.repo.ClaimSlot(ctx, req.SlotID)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("%w: %v", ErrVerifyAvailability, err)
	}
	if !claimed {
		return models.Appointment{}, ErrSlotUnavailable
	}

	appointment := models.Appointment{
		ID:              primitive.NewObjectID().Hex(),
		UserID:          userID,
		DoctorID:        doctor.ID,
		SlotID:          slot.ID,
		PatientName:     req.PatientName,
		PatientEmail:    req.PatientEmail,
		AppointmentDate: slot.SlotDate,
		AppointmentTime: slot.SlotTime,
		Status:          models.AppointmentStatusConfirmed,
		CreatedAt:       time.Now().In(s.location),
	}

	if err := s.repo.InsertAppointment(ctx, appointment); err != nil {
		// Give the slot back so a failed insert does not block it. If the
		// release fails too the reconciliation sweep will not see it (slot
		// is held, no appointment), so it gets a loud log line instead.
		if releaseErr := s.repo.ReleaseSlot(ctx, slot.ID); releaseErr != nil {
			s.log.Error("booking: slot release failed after insert error",
				slog.String("slot_id", slot.ID),
				slog.String("error", releaseErr.Error()),
			)
		}
		return models.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.DeletePrefix(ctx, "slots:"+doctor.ID)
	}

	if s.mailer != nil {
		appointmentCopy := appointment
		doctorCopy := doctor
		go s.sendConfirmation(appointmentCopy, doctorCopy)
	}

	return appointment, nil
}

func (s *Service) sendConfirmation(appointment models.Appointment, doctor models.Doctor) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	if err := s.mailer.SendAppointmentConfirmation(ctx, appointment, doctor); err != nil {
		s.log.Warn("booking email: send failed",
			slog.String("appointment_id", appointment.ID),
			slog.String("email", appointment.PatientEmail),
			slog.String("error", err.Error()),
		)
		return
	}

	s.log.Info("booking email: sent",
		slog.String("appointment_id", appointment.ID),
		slog.String("email", appointment.PatientEmail),
	)
}

func (s *Service) Appointment(ctx context.Context, id string) (models.Appointment, error) {
	appointment, err := s.repo.FindAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Appointment{}, ErrAppointmentNotFound
		}
		return models.Appointment{}, err
	}
	return appointment, nil
}

func (s *Service) Appointments(ctx context.Context, limit, offset int64) ([]models.Appointment, int64, error) {
	return s.repo.ListAppointments(ctx, limit, offset)
}

// OrphanedAppointments reports appointments whose slot is still marked
// available. Detection only, repairs are an operator decision.
func (s *Service) OrphanedAppointments(ctx context.Context) ([]OrphanedAppointment, error) {
	return s.repo.FindOrphanedAppointments(ctx)
}
