//go:build postgres

package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/sportalk/internal/config"
	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage/gormstore"
)

// Запуск: SPORTALK_TEST_POSTGRES_DSN=postgres://... go test -tags postgres ./internal/service/
func newPostgresEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := os.Getenv("SPORTALK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SPORTALK_TEST_POSTGRES_DSN is not set")
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := gormstore.Open(config.Database{
		Driver:       config.DriverPostgres,
		DSN:          dsn,
		MaxOpenConns: 16,
		MaxIdleConns: 4,
		LogLevel:     "silent",
	}, log)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	return newTestEnvWithStore(t, store, log)
}

// база общая между прогонами, поэтому имена уникальны
func uniqueNick(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func TestPostgres_ConcurrentPostUpdates(t *testing.T) {
	env := newPostgresEnv(t)
	author := env.user(t, uniqueNick("author"))
	ctx := context.Background()
	post := env.post(t, author, "start")

	const writers = 12
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.posts.Update(ctx, author.ID, UpdatePostInput{ID: post.ID, Content: ptr(fmt.Sprintf("w%d", i))})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	nums := versionNumbers(t, env, post.ID)
	expected := make([]int, writers+1)
	for i := range expected {
		expected[i] = i + 1
	}
	assert.Equal(t, expected, nums)
}

func TestPostgres_ConcurrentSelectTeam(t *testing.T) {
	env := newPostgresEnv(t)
	fan := env.user(t, uniqueNick("fan"))
	ctx := context.Background()

	const n = 8
	teams := make([]*domain.Team, n)
	for i := range teams {
		team, err := env.teams.CreateTeam(ctx, uniqueNick("team"), "football", "EPL")
		require.NoError(t, err)
		teams[i] = team
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, team := range teams {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.teams.SelectTeam(ctx, fan.ID, id)
			errs <- err
		}(team.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := env.teams.ListMyTeams(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, list, n)
	seen := make(map[string]bool, n)
	for i, ut := range list {
		assert.Equal(t, i+1, ut.Priority)
		seen[ut.TeamID] = true
	}
	assert.Len(t, seen, n)
}
