package gormstore

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

// newTestStore создает хранилище, автора и один пост для тестов
func newTestStore(t *testing.T) (*Store, *domain.User, *domain.Post) {
	t.Helper()
	ctx := context.Background()
	store, err := OpenInMemory(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	author := createUser(t, store, "author")
	post, err := store.CreatePost(ctx, &domain.Post{
		Content:  "Content",
		Type:     domain.PostTypeGeneral,
		AuthorID: author.ID,
	})
	require.NoError(t, err)
	return store, author, post
}

func createUser(t *testing.T, store *Store, nickname string) *domain.User {
	t.Helper()
	user, err := store.CreateUser(context.Background(), &domain.User{
		Nickname:     nickname,
		Email:        nickname + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err)
	return user
}

func TestStore_CreateAndGetPost(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	retrieved, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{Preload: []string{storage.RelAuthor}})
	require.NoError(t, err)
	assert.Equal(t, post.Content, retrieved.Content)
	require.NotNil(t, retrieved.Author)
	assert.Equal(t, author.Nickname, retrieved.Author.Nickname)

	_, err = store.GetPostByID(ctx, "non-existent-id", storage.FindOptions{})
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_SoftDeletePost(t *testing.T) {
	store, _, post := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SoftDeletePost(ctx, post.ID))

	_, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{})
	assert.True(t, errors.Is(err, errors.NotFound))

	// данные не уничтожены
	deleted, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, "Content", deleted.Content)
	assert.True(t, deleted.DeletedAt.Valid)

	err = store.SoftDeletePost(ctx, post.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_GetPostsOrderAndPaging(t *testing.T) {
	store, author, first := newTestStore(t)
	ctx := context.Background()

	second, err := store.CreatePost(ctx, &domain.Post{Content: "second", Type: domain.PostTypeNews, AuthorID: author.ID})
	require.NoError(t, err)
	third, err := store.CreatePost(ctx, &domain.Post{Content: "third", Type: domain.PostTypeNews, AuthorID: author.ID})
	require.NoError(t, err)

	page, err := store.GetPosts(ctx, storage.PageArgs{Take: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, third.ID, page[0].ID)
	assert.Equal(t, second.ID, page[1].ID)
	assert.NotNil(t, page[0].Author)

	page, err = store.GetPosts(ctx, storage.PageArgs{Take: 2, Skip: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, first.ID, page[0].ID)
}

func TestStore_PostVersions(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	latest, err := store.MaxPostVersion(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, latest)

	for v := 1; v <= 3; v++ {
		require.NoError(t, store.CreatePostVersion(ctx, &domain.PostVersion{
			PostID: post.ID, AuthorID: author.ID, Version: v, Content: "c",
		}))
	}
	latest, err = store.MaxPostVersion(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest)

	err = store.CreatePostVersion(ctx, &domain.PostVersion{PostID: post.ID, AuthorID: author.ID, Version: 2, Content: "dup"})
	assert.True(t, errors.Is(err, errors.AlreadyExists), "got %v", err)

	versions, err := store.GetPostVersions(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	for i, v := range versions {
		assert.Equal(t, i+1, v.Version)
	}
}

func TestStore_IncrementPostViews(t *testing.T) {
	store, _, post := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.IncrementPostViews(ctx, post.ID))
	require.NoError(t, store.IncrementPostViews(ctx, post.ID))

	got, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.ViewCount)

	err = store.IncrementPostViews(ctx, "missing")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_TransactionRollsBack(t *testing.T) {
	store, author, _ := newTestStore(t)
	ctx := context.Background()

	var created *domain.Post
	err := store.Transaction(ctx, func(tx storage.Storage) error {
		var err error
		created, err = tx.CreatePost(ctx, &domain.Post{Content: "ghost", Type: domain.PostTypeGeneral, AuthorID: author.ID})
		require.NoError(t, err)
		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = store.GetPostByID(ctx, created.ID, storage.FindOptions{IncludeDeleted: true})
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_CommentsByPostAndParent(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	parent, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: author.ID, Content: "Parent"})
	require.NoError(t, err)
	child, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, ParentID: &parent.ID, AuthorID: author.ID, Content: "Child"})
	require.NoError(t, err)

	all, err := store.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, parent.ID, all[0].ID)
	assert.Equal(t, child.ID, all[1].ID)
	require.NotNil(t, all[0].Author)

	byParent, err := store.GetCommentsByParentIDs(ctx, []string{parent.ID, child.ID})
	require.NoError(t, err)
	require.Len(t, byParent[parent.ID], 1)
	assert.Equal(t, child.ID, byParent[parent.ID][0].ID)
	assert.Empty(t, byParent[child.ID])

	require.NoError(t, store.SoftDeleteComment(ctx, child.ID))
	all, err = store.GetCommentsByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_MediaWithPost(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	media, err := store.CreateMedia(ctx, &domain.Media{PostID: post.ID, Type: domain.MediaTypeImage, Status: domain.MediaStatusUploading})
	require.NoError(t, err)

	got, err := store.GetMediaByID(ctx, media.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Post)
	assert.Equal(t, author.ID, got.Post.AuthorID)
	assert.Equal(t, "", got.URL)

	got.Status = domain.MediaStatusCompleted
	got.URL = "https://cdn.example.com/a.png"
	require.NoError(t, store.UpdateMedia(ctx, got))

	again, err := store.GetMediaByID(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MediaStatusCompleted, again.Status)
	assert.Equal(t, "https://cdn.example.com/a.png", again.URL)
}

func TestStore_Follows(t *testing.T) {
	store, author, _ := newTestStore(t)
	ctx := context.Background()
	fan := createUser(t, store, "fan")

	follow, err := store.CreateFollow(ctx, &domain.Follow{FollowerID: fan.ID, FollowingID: author.ID})
	require.NoError(t, err)

	_, err = store.CreateFollow(ctx, &domain.Follow{FollowerID: fan.ID, FollowingID: author.ID})
	assert.True(t, errors.Is(err, errors.AlreadyExists), "got %v", err)

	followers, err := store.GetFollowers(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, fan.ID, followers[0].ID)

	following, err := store.GetFollowing(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, author.ID, following[0].ID)

	require.NoError(t, store.DeleteFollow(ctx, follow.ID))
	_, err = store.GetFollow(ctx, fan.ID, author.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_UserTeams(t *testing.T) {
	store, author, _ := newTestStore(t)
	ctx := context.Background()

	a, err := store.CreateTeam(ctx, &domain.Team{Name: "Arsenal", Sport: "football"})
	require.NoError(t, err)
	b, err := store.CreateTeam(ctx, &domain.Team{Name: "Lakers", Sport: "basketball"})
	require.NoError(t, err)

	err = store.ReplaceUserTeams(ctx, author.ID, []*domain.UserTeam{
		{UserID: author.ID, TeamID: b.ID, Priority: 1},
		{UserID: author.ID, TeamID: a.ID, Priority: 2},
	})
	require.NoError(t, err)

	teams, err := store.GetUserTeams(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Lakers", teams[0].Team.Name)
	assert.Equal(t, "Arsenal", teams[1].Team.Name)

	require.NoError(t, store.ReplaceUserTeams(ctx, author.ID, nil))
	teams, err = store.GetUserTeams(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestStore_UpdateSkipsSoftDeletedRows(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	comment, err := store.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: author.ID, Content: "before"})
	require.NoError(t, err)
	media, err := store.CreateMedia(ctx, &domain.Media{PostID: post.ID, Type: domain.MediaTypeImage, Status: domain.MediaStatusUploading})
	require.NoError(t, err)

	// строки загружены до удаления и записываются после него
	staleComment, err := store.GetCommentByID(ctx, comment.ID)
	require.NoError(t, err)
	staleMedia, err := store.GetMediaByID(ctx, media.ID)
	require.NoError(t, err)
	stalePost, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{})
	require.NoError(t, err)

	require.NoError(t, store.SoftDeleteComment(ctx, comment.ID))
	require.NoError(t, store.SoftDeleteMedia(ctx, media.ID))
	require.NoError(t, store.SoftDeletePost(ctx, post.ID))

	staleComment.Content = "edited"
	err = store.UpdateComment(ctx, staleComment)
	assert.True(t, errors.Is(err, errors.NotFound), "got %v", err)
	staleMedia.Status = domain.MediaStatusCompleted
	err = store.UpdateMedia(ctx, staleMedia)
	assert.True(t, errors.Is(err, errors.NotFound), "got %v", err)
	stalePost.Content = "edited"
	err = store.UpdatePost(ctx, stalePost)
	assert.True(t, errors.Is(err, errors.NotFound), "got %v", err)

	_, err = store.GetCommentByID(ctx, comment.ID)
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = store.GetMediaByID(ctx, media.ID)
	assert.True(t, errors.Is(err, errors.NotFound))

	var raw domain.Comment
	require.NoError(t, store.DB().Unscoped().First(&raw, "id = ?", comment.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
	assert.Equal(t, "before", raw.Content)

	var rawMedia domain.Media
	require.NoError(t, store.DB().Unscoped().First(&rawMedia, "id = ?", media.ID).Error)
	assert.True(t, rawMedia.DeletedAt.Valid)
	assert.Equal(t, domain.MediaStatusUploading, rawMedia.Status)

	deleted, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{IncludeDeleted: true})
	require.NoError(t, err)
	assert.True(t, deleted.DeletedAt.Valid)
	assert.Equal(t, "Content", deleted.Content)
}

func TestStore_UpdateWritesOnlyEditableColumns(t *testing.T) {
	store, author, post := newTestStore(t)
	ctx := context.Background()

	post.Content = "Edited"
	post.Type = domain.PostTypeNews
	post.AuthorID = "someone-else"
	post.ViewCount = 99
	require.NoError(t, store.UpdatePost(ctx, post))

	got, err := store.GetPostByID(ctx, post.ID, storage.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Content)
	assert.Equal(t, domain.PostTypeNews, got.Type)
	assert.Equal(t, author.ID, got.AuthorID)
	assert.Zero(t, got.ViewCount)

	err = store.UpdateComment(ctx, &domain.Comment{ID: "missing", Content: "x"})
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_GetUserForUpdate(t *testing.T) {
	store, author, _ := newTestStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx storage.Storage) error {
		u, err := tx.GetUserForUpdate(ctx, author.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, author.ID, u.ID)
		return nil
	})
	require.NoError(t, err)

	_, err = store.GetUserForUpdate(ctx, "ghost")
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestStore_UserTeamsPriorityIsUnique(t *testing.T) {
	store, author, _ := newTestStore(t)
	ctx := context.Background()

	a, err := store.CreateTeam(ctx, &domain.Team{Name: "Arsenal", Sport: "football"})
	require.NoError(t, err)
	b, err := store.CreateTeam(ctx, &domain.Team{Name: "Lakers", Sport: "basketball"})
	require.NoError(t, err)

	err = store.ReplaceUserTeams(ctx, author.ID, []*domain.UserTeam{
		{UserID: author.ID, TeamID: a.ID, Priority: 1},
		{UserID: author.ID, TeamID: b.ID, Priority: 1},
	})
	assert.True(t, errors.Is(err, errors.AlreadyExists), "got %v", err)

	teams, err := store.GetUserTeams(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
}
