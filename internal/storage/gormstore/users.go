package gormstore

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm/clause"

	"github.com/UkralStul/sportalk/internal/domain"
)

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translate(err, "user with nickname %q or email %q", user.Nickname, user.Email)
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user %q", id)
	}
	return &user, nil
}

func (s *Store) GetUserForUpdate(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "user %q", id)
	}
	return &user, nil
}

func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	var users []*domain.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Trace(err)
	}
	result := make(map[string]*domain.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// === Follow Methods ===

func (s *Store) GetFollow(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	var follow domain.Follow
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&follow).Error
	if err != nil {
		return nil, translate(err, "follow %q -> %q", followerID, followingID)
	}
	return &follow, nil
}

func (s *Store) CreateFollow(ctx context.Context, follow *domain.Follow) (*domain.Follow, error) {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(follow).Error; err != nil {
		return nil, translate(err, "follow %q -> %q", follow.FollowerID, follow.FollowingID)
	}
	return follow, nil
}

func (s *Store) DeleteFollow(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Follow{})
	if res.Error != nil {
		return errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf("follow %q", id)
	}
	return nil
}

func (s *Store) GetFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	var users []*domain.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return users, nil
}

func (s *Store) GetFollowing(ctx context.Context, userID string) ([]*domain.User, error) {
	var users []*domain.User
	err := s.db.WithContext(ctx).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return users, nil
}
