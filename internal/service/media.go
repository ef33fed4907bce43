package service

import (
	"context"
	"log/slog"

	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

type CreateMediaInput struct {
	PostID string           `json:"postId"`
	Type   domain.MediaType `json:"type"`
}

type UpdateMediaStatusInput struct {
	ID     string             `json:"id"`
	Status domain.MediaStatus `json:"status"`
	URL    *string            `json:"url,omitempty"`
}

// MediaService tracks uploads attached to posts. Only the post's author may
// attach, update or remove media.
type MediaService struct {
	store storage.Storage
	posts PostFinder
	log   *slog.Logger
}

func NewMediaService(store storage.Storage, posts PostFinder, log *slog.Logger) *MediaService {
	return &MediaService{store: store, posts: posts, log: log}
}

func (s *MediaService) Create(ctx context.Context, authorID string, in CreateMediaInput) (*domain.Media, error) {
	if err := in.Type.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	post, err := s.posts.Get(ctx, in.PostID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := domain.CheckOwnership(authorID, post.AuthorID); err != nil {
		return nil, errors.Trace(err)
	}
	media, err := s.store.CreateMedia(ctx, &domain.Media{
		PostID: post.ID,
		Type:   in.Type,
		Status: domain.MediaStatusUploading,
		URL:    "",
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return media, nil
}

// UpdateStatus moves an upload out of UPLOADING. Terminal states are final.
func (s *MediaService) UpdateStatus(ctx context.Context, authorID string, in UpdateMediaStatusInput) (*domain.Media, error) {
	if err := in.Status.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	media, err := s.load(ctx, authorID, in.ID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if !media.Status.CanTransition(in.Status) {
		return nil, errors.BadRequestf("media %q cannot move from %s to %s", media.ID, media.Status, in.Status)
	}

	media.Status = in.Status
	if in.Status == domain.MediaStatusCompleted && in.URL != nil {
		media.URL = *in.URL
	}
	if err := s.store.UpdateMedia(ctx, media); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("media status changed", "media_id", media.ID, "status", media.Status)
	return media, nil
}

func (s *MediaService) Remove(ctx context.Context, authorID, id string) (*domain.Media, error) {
	media, err := s.load(ctx, authorID, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.store.SoftDeleteMedia(ctx, id); err != nil {
		return nil, errors.Trace(err)
	}
	return media, nil
}

// load fetches the media row and checks the principal against the parent post's author.
func (s *MediaService) load(ctx context.Context, principalID, id string) (*domain.Media, error) {
	media, err := s.store.GetMediaByID(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	// пост удален (soft delete) - медиа считаем недоступным
	if media.Post == nil {
		return nil, errors.NotFoundf("post %q of media %q", media.PostID, id)
	}
	if err := domain.CheckOwnership(principalID, media.Post.AuthorID); err != nil {
		return nil, errors.Trace(err)
	}
	return media, nil
}
