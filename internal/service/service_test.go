package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/feed"
	"github.com/UkralStul/sportalk/internal/storage/gormstore"
)

type testEnv struct {
	store    *gormstore.Store
	hub      *feed.Hub
	posts    *PostService
	comments *CommentService
	media    *MediaService
	follows  *FollowService
	teams    *TeamService
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := gormstore.OpenInMemory(context.Background(), log)
	require.NoError(t, err)
	return newTestEnvWithStore(t, store, log)
}

// newTestEnvWithStore собирает сервисы поверх уже открытого хранилища и
// закрывает его по окончании теста.
func newTestEnvWithStore(t *testing.T, store *gormstore.Store, log *slog.Logger) *testEnv {
	t.Helper()
	t.Cleanup(func() { _ = store.Close() })

	hub := feed.NewHub(8)
	posts := NewPostService(store, config.Default().Pagination, log)
	return &testEnv{
		store:    store,
		hub:      hub,
		posts:    posts,
		comments: NewCommentService(store, posts, hub, log),
		media:    NewMediaService(store, posts, log),
		follows:  NewFollowService(store, log),
		teams:    NewTeamService(store, log),
		users:    NewUserService(store, log),
	}
}

func (e *testEnv) user(t *testing.T, nickname string) *domain.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{
		Nickname: nickname,
		Email:    nickname + "@sportalk.test",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) post(t *testing.T, author *domain.User, content string) *domain.Post {
	t.Helper()
	p, err := e.posts.Create(context.Background(), author.ID, CreatePostInput{Content: content, Type: domain.PostTypeGeneral})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }
