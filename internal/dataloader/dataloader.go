package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/graph-gophers/dataloader"
	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

type contextKey string

const key = contextKey("dataloaders")

// Source is the part of the store the loaders batch against.
type Source interface {
	GetCommentsByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
}

var _ Source = (storage.Storage)(nil)

// Loaders содержит все дата-лоадеры запроса.
type Loaders struct {
	RepliesByCommentID *dataloader.Loader
	UserByID           *dataloader.Loader
}

// NewLoaders creates request-scoped loaders. They cache results, so never share
// them between requests.
func NewLoaders(src Source) *Loaders {
	repliesFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		// Вызываем метод хранилища, который делает ОДИН запрос к БД
		byParent, err := src.GetCommentsByParentIDs(ctx, keys.Keys())
		if err != nil {
			return failAll(len(keys), err)
		}
		results := make([]*dataloader.Result, len(keys))
		for i, k := range keys {
			replies := byParent[k.String()]
			if replies == nil {
				replies = []*domain.Comment{}
			}
			results[i] = &dataloader.Result{Data: replies}
		}
		return results
	}

	usersFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		users, err := src.GetUsersByIDs(ctx, keys.Keys())
		if err != nil {
			return failAll(len(keys), err)
		}
		results := make([]*dataloader.Result, len(keys))
		for i, k := range keys {
			if u, ok := users[k.String()]; ok {
				results[i] = &dataloader.Result{Data: u}
			} else {
				results[i] = &dataloader.Result{Error: errors.NotFoundf("user %q", k.String())}
			}
		}
		return results
	}

	return &Loaders{
		RepliesByCommentID: dataloader.NewBatchedLoader(repliesFn, dataloader.WithWait(time.Millisecond)),
		UserByID:           dataloader.NewBatchedLoader(usersFn, dataloader.WithWait(time.Millisecond)),
	}
}

func failAll(n int, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, n)
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}

// Middleware для внедрения лоадеров в контекст запроса.
func Middleware(src Source) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, NewLoaders(src))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// For извлекает лоадеры из контекста.
func For(ctx context.Context) *Loaders {
	return ctx.Value(key).(*Loaders)
}

// Replies resolves the direct replies of every comment id in one batch.
func (l *Loaders) Replies(ctx context.Context, commentIDs []string) (map[string][]*domain.Comment, error) {
	data, errs := l.RepliesByCommentID.LoadMany(ctx, dataloader.NewKeysFromStrings(commentIDs))()
	result := make(map[string][]*domain.Comment, len(commentIDs))
	for i, id := range commentIDs {
		if i < len(errs) && errs[i] != nil {
			return nil, errors.Trace(errs[i])
		}
		result[id] = data[i].([]*domain.Comment)
	}
	return result, nil
}

// User resolves a single user, batched with concurrent calls in the same request.
func (l *Loaders) User(ctx context.Context, id string) (*domain.User, error) {
	data, err := l.UserByID.Load(ctx, dataloader.StringKey(id))()
	if err != nil {
		return nil, errors.Trace(err)
	}
	return data.(*domain.User), nil
}

// Users resolves a set of users in one batch. Ids that no longer resolve to a
// user are left out of the result.
func (l *Loaders) Users(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	data, errs := l.UserByID.LoadMany(ctx, dataloader.NewKeysFromStrings(ids))()
	result := make(map[string]*domain.User, len(ids))
	for i, id := range ids {
		if i < len(errs) && errs[i] != nil {
			if errors.Is(errs[i], errors.NotFound) {
				continue
			}
			return nil, errors.Trace(errs[i])
		}
		result[id] = data[i].(*domain.User)
	}
	return result, nil
}
