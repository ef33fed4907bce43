package gormstore

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm/clause"

	"github.com/UkralStul/sportalk/internal/domain"
)

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err, "comment %q", id)
	}
	return &comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return comments, nil
}

// === Dataloader Method ===

func (s *Store) GetCommentsByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error) {
	var comments []*domain.Comment
	// Загружаем все дочерние комментарии для всех переданных parentID одним запросом
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("parent_id IN ?", parentIDs).
		Order("parent_id, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.Trace(err)
	}

	result := make(map[string][]*domain.Comment, len(parentIDs))
	for _, c := range comments {
		if c.ParentID != nil {
			result[*c.ParentID] = append(result[*c.ParentID], c)
		}
	}
	return result, nil
}

func (s *Store) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	now := s.db.NowFunc()
	err := s.updateLive(ctx, &domain.Comment{}, comment.ID, map[string]any{
		"content":    comment.Content,
		"updated_at": now,
	}, "comment %q", comment.ID)
	if err != nil {
		return err
	}
	comment.UpdatedAt = now
	return nil
}

func (s *Store) SoftDeleteComment(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	if res.Error != nil {
		return errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf("comment %q", id)
	}
	return nil
}
