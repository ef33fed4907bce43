package gormstore

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, translate(err, "post")
	}
	// ID и CreatedAt заполняются при создании
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string, opts storage.FindOptions) (*domain.Post, error) {
	q := s.db.WithContext(ctx)
	if opts.IncludeDeleted {
		q = q.Unscoped()
	}
	q = preloadPost(q, opts.Preload...)

	var post domain.Post
	if err := q.First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err, "post %q", id)
	}
	return &post, nil
}

func (s *Store) GetPostForUpdate(ctx context.Context, id string) (*domain.Post, error) {
	var post domain.Post
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "post %q", id)
	}
	return &post, nil
}

func (s *Store) GetPosts(ctx context.Context, args storage.PageArgs) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := preloadPost(s.db.WithContext(ctx), storage.RelAuthor, storage.RelComments, storage.RelMedia).
		Order("created_at DESC").
		Order("id DESC").
		Limit(args.Take).
		Offset(args.Skip).
		Find(&posts).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return posts, nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) error {
	now := s.db.NowFunc()
	err := s.updateLive(ctx, &domain.Post{}, post.ID, map[string]any{
		"content":    post.Content,
		"type":       post.Type,
		"updated_at": now,
	}, "post %q", post.ID)
	if err != nil {
		return err
	}
	post.UpdatedAt = now
	return nil
}

func (s *Store) SoftDeletePost(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Post{})
	if res.Error != nil {
		return errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf("post %q", id)
	}
	return nil
}

func (s *Store) IncrementPostViews(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf("post %q", id)
	}
	return nil
}

// === Version Methods ===

func (s *Store) CreatePostVersion(ctx context.Context, version *domain.PostVersion) error {
	return translate(s.db.WithContext(ctx).Create(version).Error, "version %d of post %q", version.Version, version.PostID)
}

func (s *Store) MaxPostVersion(ctx context.Context, postID string) (int, error) {
	var latest int
	err := s.db.WithContext(ctx).
		Model(&domain.PostVersion{}).
		Where("post_id = ?", postID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&latest).Error
	if err != nil {
		return 0, errors.Trace(err)
	}
	return latest, nil
}

func (s *Store) GetPostVersions(ctx context.Context, postID string) ([]*domain.PostVersion, error) {
	var versions []*domain.PostVersion
	err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("version ASC").
		Find(&versions).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return versions, nil
}

func preloadPost(q *gorm.DB, relations ...string) *gorm.DB {
	for _, rel := range relations {
		switch rel {
		case storage.RelComments:
			q = q.Preload(rel, func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC").Order("id ASC")
			})
		case storage.RelMedia:
			q = q.Preload(rel, func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC")
			})
		case storage.RelVersions:
			q = q.Preload(rel, func(db *gorm.DB) *gorm.DB {
				return db.Order("version ASC")
			})
		default:
			q = q.Preload(rel)
		}
	}
	return q
}
