package service

import (
	"context"
	"log/slog"

	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

type FollowService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewFollowService(store storage.Storage, log *slog.Logger) *FollowService {
	return &FollowService{store: store, log: log}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	if followerID == followingID {
		return nil, errors.BadRequestf("users cannot follow themselves")
	}
	if _, err := s.store.GetUserByID(ctx, followingID); err != nil {
		return nil, errors.Trace(err)
	}
	_, err := s.store.GetFollow(ctx, followerID, followingID)
	switch {
	case err == nil:
		return nil, errors.AlreadyExistsf("follow %q -> %q", followerID, followingID)
	case !errors.Is(err, errors.NotFound):
		return nil, errors.Trace(err)
	}
	// гонка двух запросов ловится уникальным индексом и тоже дает AlreadyExists
	follow, err := s.store.CreateFollow(ctx, &domain.Follow{FollowerID: followerID, FollowingID: followingID})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("user followed", "follower_id", followerID, "following_id", followingID)
	return follow, nil
}

// Unfollow hard-deletes the relation and returns it.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	follow, err := s.store.GetFollow(ctx, followerID, followingID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.store.DeleteFollow(ctx, follow.ID); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("user unfollowed", "follower_id", followerID, "following_id", followingID)
	return follow, nil
}

func (s *FollowService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, errors.Trace(err)
	}
	users, err := s.store.GetFollowers(ctx, userID)
	return users, errors.Trace(err)
}

func (s *FollowService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, errors.Trace(err)
	}
	users, err := s.store.GetFollowing(ctx, userID)
	return users, errors.Trace(err)
}
