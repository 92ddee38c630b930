package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakshamspr/MediLink/internal/models"
)

type fakeRepo struct {
	doctors      []models.Doctor
	doctor       models.Doctor
	doctorErr    error
	slots        []models.AvailableSlot
	gotFilter    DoctorFilter
	gotDoctorID  string
	gotFromDate  string
	listDoctorsN int
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return []models.Category{{ID: "c1", Name: "Cardiology", Icon: "heart"}}, nil
}

func (f *fakeRepo) ListDoctors(ctx context.Context, filter DoctorFilter) ([]models.Doctor, error) {
	f.listDoctorsN++
	f.gotFilter = filter
	return f.doctors, nil
}

func (f *fakeRepo) FindDoctor(ctx context.Context, id string) (models.Doctor, error) {
	if f.doctorErr != nil {
		return models.Doctor{}, f.doctorErr
	}
	return f.doctor, nil
}

func (f *fakeRepo) ListOpenSlots(ctx context.Context, doctorID, fromDate string) ([]models.AvailableSlot, error) {
	f.gotDoctorID = doctorID
	f.gotFromDate = fromDate
	return f.slots, nil
}

func TestDoctorsCategoryFilter(t *testing.T) {
	cases := []struct {
		name     string
		category string
		want     string
	}{
		{"specific category", "c1", "c1"},
		{"all sentinel", "all", ""},
		{"empty", "", ""},
		{"whitespace", "  ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := NewService(repo, time.UTC)

			if _, err := svc.Doctors(context.Background(), tc.category); err != nil {
				t.Fatalf("Doctors error: %v", err)
			}
			if repo.gotFilter.CategoryID != tc.want {
				t.Fatalf("filter = %q, expected %q", repo.gotFilter.CategoryID, tc.want)
			}
		})
	}
}

func TestDoctorNotFound(t *testing.T) {
	repo := &fakeRepo{doctorErr: mongo.ErrNoDocuments}
	svc := NewService(repo, time.UTC)

	if _, err := svc.Doctor(context.Background(), "missing"); !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestDoctorOtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &fakeRepo{doctorErr: boom}
	svc := NewService(repo, time.UTC)

	if _, err := svc.Doctor(context.Background(), "d1"); !errors.Is(err, boom) {
		t.Fatalf("expected raw repository error, got %v", err)
	}
}

func TestOpenSlotsUsesTodayLowerBound(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.UTC)

	if _, err := svc.OpenSlots(context.Background(), " d1 "); err != nil {
		t.Fatalf("OpenSlots error: %v", err)
	}
	if repo.gotDoctorID != "d1" {
		t.Fatalf("doctor id not trimmed: %q", repo.gotDoctorID)
	}

	today := time.Now().UTC().Format("2006-01-02")
	if repo.gotFromDate != today {
		t.Fatalf("fromDate = %q, expected today %q", repo.gotFromDate, today)
	}
}
