package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

// TeamService keeps a user's favourite teams ranked 1..N without gaps.
type TeamService struct {
	store storage.Storage
	log   *slog.Logger
}

func NewTeamService(store storage.Storage, log *slog.Logger) *TeamService {
	return &TeamService{store: store, log: log}
}

// CreateTeam adds a team to the catalogue.
func (s *TeamService) CreateTeam(ctx context.Context, name, sport, league string) (*domain.Team, error) {
	name, sport = strings.TrimSpace(name), strings.TrimSpace(sport)
	if name == "" || sport == "" {
		return nil, errors.BadRequestf("team name and sport are required")
	}
	team, err := s.store.CreateTeam(ctx, &domain.Team{Name: name, Sport: sport, League: strings.TrimSpace(league)})
	return team, errors.Trace(err)
}

func (s *TeamService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	teams, err := s.store.GetTeams(ctx)
	return teams, errors.Trace(err)
}

func (s *TeamService) ListMyTeams(ctx context.Context, userID string) ([]*domain.UserTeam, error) {
	teams, err := s.store.GetUserTeams(ctx, userID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return teams, nil
}

// SelectTeam appends the team at the lowest priority.
func (s *TeamService) SelectTeam(ctx context.Context, userID, teamID string) ([]*domain.UserTeam, error) {
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		current, err := s.lockedTeams(ctx, tx, userID)
		if err != nil {
			return errors.Trace(err)
		}
		ids := teamIDs(current)
		for _, id := range ids {
			if id == teamID {
				return errors.AlreadyExistsf("team %q in the list of user %q", teamID, userID)
			}
		}
		return s.replace(ctx, tx, userID, append(ids, teamID))
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("team selected", "user_id", userID, "team_id", teamID)
	return s.ListMyTeams(ctx, userID)
}

// UnselectTeam removes the team and shifts every lower-ranked team up by one.
func (s *TeamService) UnselectTeam(ctx context.Context, userID, teamID string) ([]*domain.UserTeam, error) {
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		current, err := s.lockedTeams(ctx, tx, userID)
		if err != nil {
			return errors.Trace(err)
		}
		ids := teamIDs(current)
		kept := ids[:0]
		for _, id := range ids {
			if id != teamID {
				kept = append(kept, id)
			}
		}
		if len(kept) == len(current) {
			return errors.NotFoundf("team %q in the list of user %q", teamID, userID)
		}
		return s.replace(ctx, tx, userID, kept)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("team unselected", "user_id", userID, "team_id", teamID)
	return s.ListMyTeams(ctx, userID)
}

// SetMyTeams replaces the list; the first id gets priority 1.
func (s *TeamService) SetMyTeams(ctx context.Context, userID string, ids []string) ([]*domain.UserTeam, error) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, errors.BadRequestf("team %q listed twice", id)
		}
		seen[id] = struct{}{}
	}
	err := s.store.Transaction(ctx, func(tx storage.Storage) error {
		if _, err := tx.GetUserForUpdate(ctx, userID); err != nil {
			return errors.Trace(err)
		}
		return s.replace(ctx, tx, userID, ids)
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("teams replaced", "user_id", userID, "count", len(ids))
	return s.ListMyTeams(ctx, userID)
}

// lockedTeams reads the user's list under a lock on the user row, so concurrent
// edits of the same list run one after another.
func (s *TeamService) lockedTeams(ctx context.Context, tx storage.Storage, userID string) ([]*domain.UserTeam, error) {
	if _, err := tx.GetUserForUpdate(ctx, userID); err != nil {
		return nil, errors.Trace(err)
	}
	current, err := tx.GetUserTeams(ctx, userID)
	return current, errors.Trace(err)
}

func (s *TeamService) replace(ctx context.Context, tx storage.Storage, userID string, ids []string) error {
	if len(ids) > 0 {
		known, err := tx.GetTeamsByIDs(ctx, ids)
		if err != nil {
			return errors.Trace(err)
		}
		for _, id := range ids {
			if _, ok := known[id]; !ok {
				return errors.NotFoundf("team %q", id)
			}
		}
	}
	rows := make([]*domain.UserTeam, len(ids))
	for i, id := range ids {
		rows[i] = &domain.UserTeam{UserID: userID, TeamID: id, Priority: i + 1}
	}
	return errors.Trace(tx.ReplaceUserTeams(ctx, userID, rows))
}

func teamIDs(teams []*domain.UserTeam) []string {
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.TeamID
	}
	return ids
}
