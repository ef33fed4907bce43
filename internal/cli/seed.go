package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/juju/errors"
	"github.com/spf13/cobra"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/httpapi"
	"github.com/UkralStul/sportalk/internal/service"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo data",
		Long: `Create demo users, teams, posts and comments. Intended for local
development against an empty database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := rootOpts.setup(cmd)
			if err != nil {
				return errors.Trace(err)
			}
			defer e.close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if e.cfg.Database.AutoMigrate {
				if err := e.migrate(ctx); err != nil {
					return errors.Trace(err)
				}
			}
			if err := seed(ctx, e.services(nil), e.log); err != nil {
				return errors.Trace(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo data created.")
			return nil
		},
	}
}

// seed заполняет базу тестовыми данными.
func seed(ctx context.Context, svc httpapi.Services, log *slog.Logger) error {
	// 1. Пользователи
	users := make(map[string]*domain.User)
	for _, in := range []service.RegisterInput{
		{Nickname: "admin", Email: "admin@sportalk.test", Password: "admin-password", Role: domain.RoleAdmin},
		{Nickname: "pundit", Email: "pundit@sportalk.test", Password: "pundit-password", Role: domain.RoleInfluencer},
		{Nickname: "fan", Email: "fan@sportalk.test", Password: "fan-password"},
	} {
		u, err := svc.Users.Register(ctx, in)
		if err != nil {
			return errors.Annotatef(err, "creating user %q", in.Nickname)
		}
		users[u.Nickname] = u
	}

	// 2. Команды и избранное болельщика
	var teamIDs []string
	for _, t := range []struct{ name, sport, league string }{
		{"Arsenal", "football", "Premier League"},
		{"Real Madrid", "football", "La Liga"},
		{"Boston Celtics", "basketball", "NBA"},
	} {
		team, err := svc.Teams.CreateTeam(ctx, t.name, t.sport, t.league)
		if err != nil {
			return errors.Annotatef(err, "creating team %q", t.name)
		}
		teamIDs = append(teamIDs, team.ID)
	}
	if _, err := svc.Teams.SetMyTeams(ctx, users["fan"].ID, teamIDs[:2]); err != nil {
		return errors.Annotate(err, "selecting teams")
	}

	// 3. Пост с правкой, чтобы в истории было две версии
	post, err := svc.Posts.Create(ctx, users["pundit"].ID, service.CreatePostInput{
		Content: "Arsenal will win the league this season.",
		Type:    domain.PostTypeGeneral,
	})
	if err != nil {
		return errors.Annotate(err, "creating post")
	}
	content, reason := "Arsenal will finish top two this season.", "Hedging after the derby"
	if _, err := svc.Posts.Update(ctx, users["pundit"].ID, service.UpdatePostInput{
		ID: post.ID, Content: &content, EditReason: &reason,
	}); err != nil {
		return errors.Annotate(err, "editing post")
	}

	// 4. Комментарий и ответ на него
	c1, err := svc.Comments.Create(ctx, users["fan"].ID, service.CreateCommentInput{
		PostID:  post.ID,
		Content: "Bold call. Their midfield is thin.",
	})
	if err != nil {
		return errors.Annotate(err, "creating comment")
	}
	if _, err := svc.Comments.Create(ctx, users["pundit"].ID, service.CreateCommentInput{
		PostID:          post.ID,
		Content:         "Depth will come back after the injuries.",
		ParentCommentID: &c1.ID,
	}); err != nil {
		return errors.Annotate(err, "creating reply")
	}

	// 5. Вопрос от болельщика и подписка на эксперта
	question, err := svc.Posts.Create(ctx, users["fan"].ID, service.CreatePostInput{
		Content: "Who starts in goal on Sunday?",
		Type:    domain.PostTypeQuestion,
	})
	if err != nil {
		return errors.Annotate(err, "creating question")
	}
	if _, err := svc.Follows.Follow(ctx, users["fan"].ID, users["pundit"].ID); err != nil {
		return errors.Annotate(err, "following")
	}

	log.Info("demo data filled", "post_id", post.ID, "question_id", question.ID)
	return nil
}
