package service

import (
	"context"
	"log/slog"

	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

const (
	initialEditReason = "Initial creation"
	defaultEditReason = "Content updated"
)

type CreatePostInput struct {
	Content string          `json:"content"`
	Type    domain.PostType `json:"type"`
}

// UpdatePostInput is a partial update: nil fields are left untouched.
type UpdatePostInput struct {
	ID         string           `json:"id"`
	Content    *string          `json:"content,omitempty"`
	Type       *domain.PostType `json:"type,omitempty"`
	EditReason *string          `json:"editReason,omitempty"`
}

// PostService creates, edits and removes posts. Every content edit appends a
// PostVersion holding the content it replaced.
type PostService struct {
	store storage.Storage
	pages config.Pagination
	log   *slog.Logger
}

func NewPostService(store storage.Storage, pages config.Pagination, log *slog.Logger) *PostService {
	return &PostService{store: store, pages: pages, log: log}
}

// Create inserts the post and its first version in one transaction.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*domain.Post, error) {
	content, err := domain.NormalizeContent("post", in.Content, domain.MaxPostContent)
	if err != nil {
		return nil, errors.Trace(err)
	}
	postType := in.Type
	if postType == "" {
		postType = domain.PostTypeGeneral
	}
	if err := postType.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	var created *domain.Post
	err = s.store.Transaction(ctx, func(tx storage.Storage) error {
		post, err := tx.CreatePost(ctx, &domain.Post{
			Content:  content,
			Type:     postType,
			AuthorID: authorID,
		})
		if err != nil {
			return errors.Trace(err)
		}
		err = tx.CreatePostVersion(ctx, &domain.PostVersion{
			PostID:     post.ID,
			AuthorID:   authorID,
			Version:    1,
			Content:    content,
			EditReason: initialEditReason,
		})
		if err != nil {
			return errors.Trace(err)
		}
		created = post
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("post created", "post_id", created.ID, "author_id", authorID)
	return created, nil
}

// Update applies the patch under a row lock on the post. The lock serialises
// concurrent edits so version numbers stay gap-free and unique. A version is
// written even when the patch changes nothing.
func (s *PostService) Update(ctx context.Context, principalID string, in UpdatePostInput) (*domain.Post, error) {
	var content string
	if in.Content != nil {
		var err error
		if content, err = domain.NormalizeContent("post", *in.Content, domain.MaxPostContent); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if in.Type != nil {
		if err := in.Type.Validate(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	reason := defaultEditReason
	if in.EditReason != nil && *in.EditReason != "" {
		r, err := domain.NormalizeEditReason(*in.EditReason)
		if err != nil {
			return nil, errors.Trace(err)
		}
		reason = r
	}

	var updated *domain.Post
	var version int
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		post, err := tx.GetPostForUpdate(ctx, in.ID)
		if err != nil {
			return errors.Trace(err)
		}
		if err := domain.CheckOwnership(principalID, post.AuthorID); err != nil {
			return errors.Trace(err)
		}

		latest, err := tx.MaxPostVersion(ctx, post.ID)
		if err != nil {
			return errors.Trace(err)
		}
		version = latest + 1
		err = tx.CreatePostVersion(ctx, &domain.PostVersion{
			PostID:     post.ID,
			AuthorID:   principalID,
			Version:    version,
			Content:    post.Content,
			EditReason: reason,
		})
		if err != nil {
			return errors.Trace(err)
		}

		if in.Content != nil {
			post.Content = content
		}
		if in.Type != nil {
			post.Type = *in.Type
		}
		if err := tx.UpdatePost(ctx, post); err != nil {
			return errors.Trace(err)
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("post updated", "post_id", updated.ID, "version", version)
	return updated, nil
}

// Remove soft-deletes the post and returns it as it was before deletion.
// Comments, media and versions are left in place.
func (s *PostService) Remove(ctx context.Context, principalID, id string) (*domain.Post, error) {
	post, err := s.store.GetPostByID(ctx, id, storage.FindOptions{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := domain.CheckOwnership(principalID, post.AuthorID); err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.store.SoftDeletePost(ctx, id); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("post removed", "post_id", id)
	return post, nil
}

// FindAll lists live posts, newest first. take <= 0 selects the default page
// size, larger values are capped.
func (s *PostService) FindAll(ctx context.Context, take, skip int) ([]*domain.Post, error) {
	args, err := s.pageArgs(take, skip)
	if err != nil {
		return nil, errors.Trace(err)
	}
	posts, err := s.store.GetPosts(ctx, args)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return posts, nil
}

// Get returns the live post without relations.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.store.GetPostByID(ctx, id, storage.FindOptions{})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return post, nil
}

func (s *PostService) FindOne(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.store.GetPostByID(ctx, id, storage.FindOptions{
		Preload: []string{storage.RelAuthor, storage.RelComments, storage.RelMedia, storage.RelVersions},
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return post, nil
}

func (s *PostService) RecordView(ctx context.Context, id string) error {
	return errors.Trace(s.store.IncrementPostViews(ctx, id))
}

// ListVersions returns the edit history in version order. includeDeleted also
// serves posts that have been soft-deleted.
func (s *PostService) ListVersions(ctx context.Context, postID string, includeDeleted bool) ([]*domain.PostVersion, error) {
	if _, err := s.store.GetPostByID(ctx, postID, storage.FindOptions{IncludeDeleted: includeDeleted}); err != nil {
		return nil, errors.Trace(err)
	}
	versions, err := s.store.GetPostVersions(ctx, postID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return versions, nil
}

func (s *PostService) pageArgs(take, skip int) (storage.PageArgs, error) {
	if skip < 0 {
		return storage.PageArgs{}, errors.BadRequestf("skip must not be negative")
	}
	switch {
	case take <= 0:
		take = s.pages.DefaultTake
	case take > s.pages.MaxTake:
		take = s.pages.MaxTake
	}
	return storage.PageArgs{Take: take, Skip: skip}, nil
}
