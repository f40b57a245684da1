package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"dairy-herd-manager/internal/domain/lifecycle"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("settings not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Get devuelve la configuración guardada o los defaults si la granja no tiene.
func (s *Service) Get(ctx context.Context, farmID string) (FarmSettings, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return FarmSettings{}, ErrInvalidInput
	}
	cur, err := s.repo.Get(ctx, farmID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Defaults(farmID), nil
		}
		return FarmSettings{}, err
	}
	return cur.Clone(), nil
}

func (s *Service) SaveBreeding(ctx context.Context, farmID string, b Breeding) (FarmSettings, error) {
	if b.AgeCategories == nil {
		b.AgeCategories = []lifecycle.AgeCategory{}
	}
	for i := range b.AgeCategories {
		b.AgeCategories[i].Name = strings.TrimSpace(b.AgeCategories[i].Name)
	}
	if err := validateBreeding(b); err != nil {
		return FarmSettings{}, err
	}
	return s.save(ctx, farmID, func(fs *FarmSettings) { fs.Breeding = b })
}

func (s *Service) SaveHealth(ctx context.Context, farmID string, h Health) (FarmSettings, error) {
	h.DefaultVeterinarian = strings.TrimSpace(h.DefaultVeterinarian)
	h.VeterinarianPhone = strings.TrimSpace(h.VeterinarianPhone)
	if err := validateHealth(h); err != nil {
		return FarmSettings{}, err
	}
	return s.save(ctx, farmID, func(fs *FarmSettings) { fs.Health = h })
}

func (s *Service) SaveFinancial(ctx context.Context, farmID string, f Financial) (FarmSettings, error) {
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	if f.Buyers == nil {
		f.Buyers = []Buyer{}
	}
	for i := range f.Buyers {
		f.Buyers[i].Name = strings.TrimSpace(f.Buyers[i].Name)
	}
	if err := validateFinancial(f); err != nil {
		return FarmSettings{}, err
	}
	return s.save(ctx, farmID, func(fs *FarmSettings) { fs.Financial = f })
}

func (s *Service) SaveTagging(ctx context.Context, farmID string, t Tagging) (FarmSettings, error) {
	t.Prefix = strings.ToUpper(strings.TrimSpace(t.Prefix))
	if err := validateTagging(t); err != nil {
		return FarmSettings{}, err
	}
	return s.save(ctx, farmID, func(fs *FarmSettings) { fs.Tagging = t })
}

// save lee el documento actual, reemplaza una sección completa y lo guarda.
func (s *Service) save(ctx context.Context, farmID string, apply func(*FarmSettings)) (FarmSettings, error) {
	cur, err := s.Get(ctx, farmID)
	if err != nil {
		return FarmSettings{}, err
	}
	apply(&cur)
	cur.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, cur); err != nil {
		return FarmSettings{}, err
	}
	return cur.Clone(), nil
}
