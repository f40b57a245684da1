package animals

import (
	"context"
	"fmt"

	"dairy-herd-manager/internal/domain/settings"
)

// maxTagProbes limita la búsqueda de una caravana libre.
const maxTagProbes = 1000

// PreviewTag muestra la próxima caravana sin reservarla.
func (s *Service) PreviewTag(ctx context.Context, farmID string) (string, error) {
	fs, err := s.farmSettings(ctx, farmID)
	if err != nil {
		return "", err
	}
	year := s.now().Year()
	tags, err := s.repo.ListTags(ctx, farmID, fs.Tagging.TagPrefix(year))
	if err != nil {
		return "", err
	}
	return fs.Tagging.NextTag(tags, year), nil
}

// GenerateTag devuelve una caravana libre (verificada contra el repositorio).
func (s *Service) GenerateTag(ctx context.Context, farmID string) (string, error) {
	fs, err := s.farmSettings(ctx, farmID)
	if err != nil {
		return "", err
	}
	return s.generateTag(ctx, farmID, fs.Tagging)
}

func (s *Service) generateTag(ctx context.Context, farmID string, t settings.Tagging) (string, error) {
	year := s.now().Year()
	tags, err := s.repo.ListTags(ctx, farmID, t.TagPrefix(year))
	if err != nil {
		return "", err
	}

	next, _ := t.Sequence(t.NextTag(tags, year), year)
	for i := 0; i < maxTagProbes; i++ {
		tag := t.Format(year, next+i)
		exists, err := s.repo.TagExists(ctx, farmID, tag)
		if err != nil {
			return "", err
		}
		if !exists {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: no free tag found for prefix %s", ErrConflict, t.TagPrefix(year))
}
