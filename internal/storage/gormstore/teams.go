package gormstore

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UkralStul/sportalk/internal/domain"
)

func (s *Store) CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	if err := s.db.WithContext(ctx).Create(team).Error; err != nil {
		return nil, translate(err, "team %q", team.Name)
	}
	return team, nil
}

func (s *Store) GetTeams(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := s.db.WithContext(ctx).Order("sport, name").Find(&teams).Error; err != nil {
		return nil, errors.Trace(err)
	}
	return teams, nil
}

func (s *Store) GetTeamsByIDs(ctx context.Context, ids []string) (map[string]*domain.Team, error) {
	var teams []*domain.Team
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, errors.Trace(err)
	}
	result := make(map[string]*domain.Team, len(teams))
	for _, t := range teams {
		result[t.ID] = t
	}
	return result, nil
}

func (s *Store) GetUserTeams(ctx context.Context, userID string) ([]*domain.UserTeam, error) {
	var teams []*domain.UserTeam
	err := s.db.WithContext(ctx).
		Preload("Team").
		Where("user_id = ?", userID).
		Order("priority ASC").
		Find(&teams).Error
	if err != nil {
		return nil, errors.Trace(err)
	}
	return teams, nil
}

func (s *Store) ReplaceUserTeams(ctx context.Context, userID string, teams []*domain.UserTeam) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.UserTeam{}).Error; err != nil {
			return errors.Trace(err)
		}
		if len(teams) == 0 {
			return nil
		}
		if err := tx.Omit(clause.Associations).Create(&teams).Error; err != nil {
			return translate(err, "teams of user %q", userID)
		}
		return nil
	})
}
