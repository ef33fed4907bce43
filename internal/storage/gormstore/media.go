package gormstore

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm/clause"

	"github.com/UkralStul/sportalk/internal/domain"
)

func (s *Store) CreateMedia(ctx context.Context, media *domain.Media) (*domain.Media, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(media).Error; err != nil {
		return nil, translate(err, "media")
	}
	return media, nil
}

func (s *Store) GetMediaByID(ctx context.Context, id string) (*domain.Media, error) {
	var media domain.Media
	if err := s.db.WithContext(ctx).Preload("Post").First(&media, "id = ?", id).Error; err != nil {
		return nil, translate(err, "media %q", id)
	}
	return &media, nil
}

func (s *Store) UpdateMedia(ctx context.Context, media *domain.Media) error {
	now := s.db.NowFunc()
	err := s.updateLive(ctx, &domain.Media{}, media.ID, map[string]any{
		"status":     media.Status,
		"url":        media.URL,
		"updated_at": now,
	}, "media %q", media.ID)
	if err != nil {
		return err
	}
	media.UpdatedAt = now
	return nil
}

func (s *Store) SoftDeleteMedia(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Media{})
	if res.Error != nil {
		return errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf("media %q", id)
	}
	return nil
}
