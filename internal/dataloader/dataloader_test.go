package dataloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/sportalk/internal/domain"
)

type fakeSource struct {
	mu          sync.Mutex
	replyCalls  [][]string
	userCalls   [][]string
	replies     map[string][]*domain.Comment
	users       map[string]*domain.User
	failReplies error
}

func (f *fakeSource) GetCommentsByParentIDs(_ context.Context, ids []string) (map[string][]*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replyCalls = append(f.replyCalls, ids)
	if f.failReplies != nil {
		return nil, f.failReplies
	}
	out := make(map[string][]*domain.Comment)
	for _, id := range ids {
		if r, ok := f.replies[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *fakeSource) GetUsersByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls = append(f.userCalls, ids)
	out := make(map[string]*domain.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func TestReplies_SingleBatch(t *testing.T) {
	src := &fakeSource{replies: map[string][]*domain.Comment{
		"a": {{ID: "a1"}, {ID: "a2"}},
	}}
	loaders := NewLoaders(src)

	got, err := loaders.Replies(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, got["a"], 2)
	assert.NotNil(t, got["b"])
	assert.Empty(t, got["b"])
	require.Len(t, src.replyCalls, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, src.replyCalls[0])
}

func TestReplies_ErrorPropagates(t *testing.T) {
	src := &fakeSource{failReplies: errors.New("db down")}
	_, err := NewLoaders(src).Replies(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestUser_ConcurrentLoadsAreBatched(t *testing.T) {
	src := &fakeSource{users: map[string]*domain.User{
		"u1": {ID: "u1", Nickname: "one"},
		"u2": {ID: "u2", Nickname: "two"},
	}}
	loaders := NewLoaders(src)
	ctx := context.Background()

	var wg sync.WaitGroup
	names := make([]string, 2)
	for i, id := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			u, err := loaders.User(ctx, id)
			if assert.NoError(t, err) {
				names[i] = u.Nickname
			}
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, []string{"one", "two"}, names)
	// запросы к хранилищу сгруппированы
	assert.LessOrEqual(t, len(src.userCalls), 2)

	_, err := loaders.User(ctx, "ghost")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestMiddleware_InjectsLoaders(t *testing.T) {
	var seen *Loaders
	h := Middleware(&fakeSource{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = For(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, seen)
	assert.NotNil(t, seen.RepliesByCommentID)
}

func TestUsers_SkipsMissing(t *testing.T) {
	src := &fakeSource{users: map[string]*domain.User{
		"u1": {ID: "u1", Nickname: "one"},
	}}
	got, err := NewLoaders(src).Users(context.Background(), []string{"u1", "gone"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "one", got["u1"].Nickname)
	assert.Len(t, src.userCalls, 1)
}
