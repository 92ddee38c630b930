package directory

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakshamspr/MediLink/internal/models"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// Doctors lists the directory, filtered by category unless the filter is
// empty or the "all" sentinel.
func (s *Service) Doctors(ctx context.Context, categoryID string) ([]models.Doctor, error) {
	categoryID = strings.TrimSpace(categoryID)
	filter := DoctorFilter{}
	if categoryID != "" && categoryID != models.CategoryAll {
		filter.CategoryID = categoryID
	}
	return s.repo.ListDoctors(ctx, filter)
}

func (s *Service) Doctor(ctx context.Context, id string) (models.Doctor, error) {
	doc, err := s.repo.FindDoctor(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Doctor{}, ErrDoctorNotFound
		}
		return models.Doctor{}, err
	}
	return doc, nil
}

// OpenSlots returns a doctor's future open slots: isAvailable only,
// slotDate >= today in the service timezone, ordered by date then time.
func (s *Service) OpenSlots(ctx context.Context, doctorID string) ([]models.AvailableSlot, error) {
	today := time.Now().In(s.location).Format("2006-01-02")
	return s.repo.ListOpenSlots(ctx, strings.TrimSpace(doctorID), today)
}
