package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakshamspr/MediLink/internal/models"
)

type fakeRepo struct {
	mu sync.Mutex

	slot      models.AvailableSlot
	slotErr   error
	doctor    models.Doctor
	doctorErr error
	claimOK   bool
	claimErr  error
	insertErr error

	inserted []models.Appointment
	claimed  []string
	released []string
}

func (f *fakeRepo) FindSlot(ctx context.Context, slotID string) (models.AvailableSlot, error) {
	if f.slotErr != nil {
		return models.AvailableSlot{}, f.slotErr
	}
	return f.slot, nil
}

func (f *fakeRepo) ClaimSlot(ctx context.Context, slotID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.claimErr != nil {
		return false, f.claimErr
	}
	f.claimed = append(f.claimed, slotID)
	return f.claimOK, nil
}

func (f *fakeRepo) ReleaseSlot(ctx context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, slotID)
	return nil
}

func (f *fakeRepo) FindDoctor(ctx context.Context, doctorID string) (models.Doctor, error) {
	if f.doctorErr != nil {
		return models.Doctor{}, f.doctorErr
	}
	return f.doctor, nil
}

func (f *fakeRepo) InsertAppointment(ctx context.Context, appointment models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, appointment)
	return nil
}

func (f *fakeRepo) FindAppointment(ctx context.Context, id string) (models.Appointment, error) {
	return models.Appointment{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) ListAppointments(ctx context.Context, limit, offset int64) ([]models.Appointment, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) FindOrphanedAppointments(ctx context.Context) ([]OrphanedAppointment, error) {
	return nil, nil
}

type fakeMailer struct {
	err  error
	sent chan models.Appointment
}

func (m *fakeMailer) SendAppointmentConfirmation(ctx context.Context, appointment models.Appointment, doctor models.Doctor) error {
	m.sent <- appointment
	return m.err
}

type fakeCache struct {
	mu       sync.Mutex
	prefixes []string
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }
func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}
func (c *fakeCache) Delete(ctx context.Context, key string) error { return nil }
func (c *fakeCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefixes = append(c.prefixes, prefix)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func futureDate(loc *time.Location) string {
	return time.Now().In(loc).AddDate(0, 0, 7).Format("2006-01-02")
}

func openSlot(loc *time.Location) models.AvailableSlot {
	return models.AvailableSlot{
		ID:          "s1",
		DoctorID:    "d1",
		SlotDate:    futureDate(loc),
		SlotTime:    "14:00",
		IsAvailable: true,
	}
}

func bookingRequest() CreateAppointmentRequest {
	return CreateAppointmentRequest{
		DoctorID:     "d1",
		SlotID:       "s1",
		PatientName:  "Asha Rao",
		PatientEmail: "asha@example.com",
	}
}

func TestReserveHappyPath(t *testing.T) {
	loc := mustLoc(t)
	repo := &fakeRepo{
		slot:    openSlot(loc),
		doctor:  models.Doctor{ID: "d1", Name: "Dr. Mehta", ConsultationFee: 500},
		claimOK: true,
	}
	mailer := &fakeMailer{sent: make(chan models.Appointment, 1)}
	cacheStore := &fakeCache{}
	svc := NewService(repo, mailer, cacheStore, loc, testLogger())

	appointment, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if err != nil {
		t.Fatalf("Reserve error: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 appointment inserted, got %d", len(repo.inserted))
	}
	got := repo.inserted[0]
	if got.SlotID != "s1" || got.DoctorID != "d1" {
		t.Fatalf("unexpected appointment refs: %+v", got)
	}
	if got.AppointmentDate != repo.slot.SlotDate || got.AppointmentTime != "14:00" {
		t.Fatalf("appointment date/time not taken from slot row: %+v", got)
	}
	if got.Status != models.AppointmentStatusConfirmed {
		t.Fatalf("expected confirmed status, got %q", got.Status)
	}
	if got.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", got.UserID)
	}
	if appointment.ID == "" {
		t.Fatalf("expected generated appointment id")
	}
	if len(repo.claimed) != 1 || repo.claimed[0] != "s1" {
		t.Fatalf("expected slot s1 claimed, got %v", repo.claimed)
	}
	if len(repo.released) != 0 {
		t.Fatalf("slot must not be released on success")
	}

	select {
	case sent := <-mailer.sent:
		if sent.ID != appointment.ID {
			t.Fatalf("mailer got wrong appointment: %s", sent.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("confirmation email was never dispatched")
	}

	cacheStore.mu.Lock()
	defer cacheStore.mu.Unlock()
	if len(cacheStore.prefixes) != 1 || cacheStore.prefixes[0] != "slots:d1" {
		t.Fatalf("expected slots:d1 cache invalidation, got %v", cacheStore.prefixes)
	}
}

func TestReserveSlotAlreadyTaken(t *testing.T) {
	loc := mustLoc(t)
	slot := openSlot(loc)
	slot.IsAvailable = false
	repo := &fakeRepo{slot: slot, doctor: models.Doctor{ID: "d1"}, claimOK: true}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("no appointment may be created for an unavailable slot")
	}
	if len(repo.claimed) != 0 {
		t.Fatalf("claim must not run after a failed pre-check")
	}
}

func TestReserveLostClaimRace(t *testing.T) {
	loc := mustLoc(t)
	repo := &fakeRepo{slot: openSlot(loc), doctor: models.Doctor{ID: "d1"}, claimOK: false}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable on lost claim, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("no appointment may be created after a lost claim")
	}
}

func TestReserveSlotReadFailure(t *testing.T) {
	loc := mustLoc(t)
	repo := &fakeRepo{slotErr: errors.New("connection reset")}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if !errors.Is(err, ErrVerifyAvailability) {
		t.Fatalf("expected ErrVerifyAvailability, got %v", err)
	}
}

func TestReserveUnknownSlot(t *testing.T) {
	loc := mustLoc(t)
	repo := &fakeRepo{slotErr: mongo.ErrNoDocuments}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable for unknown slot, got %v", err)
	}
}

func TestReserveSlotDoctorMismatch(t *testing.T) {
	loc := mustLoc(t)
	slot := openSlot(loc)
	slot.DoctorID = "someone-else"
	repo := &fakeRepo{slot: slot}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if !errors.Is(err, ErrSlotMismatch) {
		t.Fatalf("expected ErrSlotMismatch, got %v", err)
	}
}

func TestReservePastSlot(t *testing.T) {
	loc := mustLoc(t)
	slot := openSlot(loc)
	slot.SlotDate = time.Now().In(loc).AddDate(0, 0, -1).Format("2006-01-02")
	repo := &fakeRepo{slot: slot}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable for past slot, got %v", err)
	}
}

func TestReserveInsertFailureReleasesSlot(t *testing.T) {
	loc := mustLoc(t)
	repo := &fakeRepo{
		slot:      openSlot(loc),
		doctor:    models.Doctor{ID: "d1"},
		claimOK:   true,
		insertErr: errors.New("write concern error"),
	}
	svc := NewService(repo, nil, nil, loc, testLogger())

	_, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if err == nil {
		t.Fatalf("expected insert failure to surface")
	}
	if errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrVerifyAvailability) {
		t.Fatalf("insert failure must not masquerade as a conflict: %v", err)
	}
	if len(repo.released) != 1 || repo.released[0] != "s1" {
		t.Fatalf("expected claimed slot released after insert failure, got %v", repo.released)
	}
}

func TestReserveEmailFailureDoesNotChangeOutcome(t *testing.T) {
	loc := mustLoc(t)
	repo := &fakeRepo{
		slot:    openSlot(loc),
		doctor:  models.Doctor{ID: "d1", Name: "Dr. Mehta"},
		claimOK: true,
	}
	mailer := &fakeMailer{err: errors.New("smtp relay down"), sent: make(chan models.Appointment, 1)}
	svc := NewService(repo, mailer, nil, loc, testLogger())

	appointment, err := svc.Reserve(context.Background(), bookingRequest(), "user-1")
	if err != nil {
		t.Fatalf("email failure must not fail the booking: %v", err)
	}
	if appointment.Status != models.AppointmentStatusConfirmed {
		t.Fatalf("expected confirmed booking, got %q", appointment.Status)
	}

	select {
	case <-mailer.sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("email dispatch was never attempted")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("appointment must survive email failure")
	}
}
