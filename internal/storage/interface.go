package storage

import (
	"context"

	"github.com/UkralStul/sportalk/internal/domain"
)

// PageArgs - аргументы для offset-пагинации.
type PageArgs struct {
	Take int
	Skip int
}

// Relations that can be eagerly loaded with a post.
const (
	RelAuthor   = "Author"
	RelComments = "Comments"
	RelMedia    = "Media"
	RelVersions = "Versions"
)

// FindOptions tunes single-row lookups.
type FindOptions struct {
	Preload        []string
	IncludeDeleted bool
}

// Storage определяет контракт хранилища сущностей. Every method returns an error
// satisfying errors.Is(err, errors.NotFound) when the row is absent or soft-deleted.
type Storage interface {
	// Transaction runs fn atomically. The Storage passed to fn is bound to the
	// transaction and must be used for every access inside fn.
	Transaction(ctx context.Context, fn func(tx Storage) error) error

	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// GetUserForUpdate locks the user row until the surrounding transaction
	// ends. Edits of a user's own lists take it first.
	GetUserForUpdate(ctx context.Context, id string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)

	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByID(ctx context.Context, id string, opts FindOptions) (*domain.Post, error)
	// GetPostForUpdate loads the post holding a row-level write lock until the
	// surrounding transaction ends.
	GetPostForUpdate(ctx context.Context, id string) (*domain.Post, error)
	GetPosts(ctx context.Context, args PageArgs) ([]*domain.Post, error)
	// UpdatePost writes content and type of a live post. The Update* methods
	// never touch soft-deleted rows: they return NotFound instead.
	UpdatePost(ctx context.Context, post *domain.Post) error
	SoftDeletePost(ctx context.Context, id string) error
	IncrementPostViews(ctx context.Context, id string) error

	CreatePostVersion(ctx context.Context, version *domain.PostVersion) error
	MaxPostVersion(ctx context.Context, postID string) (int, error)
	GetPostVersions(ctx context.Context, postID string) ([]*domain.PostVersion, error)

	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error)
	// Методы для Dataloader'ов
	GetCommentsByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error)
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	SoftDeleteComment(ctx context.Context, id string) error

	CreateMedia(ctx context.Context, media *domain.Media) (*domain.Media, error)
	// GetMediaByID loads the media row together with its parent post.
	GetMediaByID(ctx context.Context, id string) (*domain.Media, error)
	UpdateMedia(ctx context.Context, media *domain.Media) error
	SoftDeleteMedia(ctx context.Context, id string) error

	GetFollow(ctx context.Context, followerID, followingID string) (*domain.Follow, error)
	CreateFollow(ctx context.Context, follow *domain.Follow) (*domain.Follow, error)
	DeleteFollow(ctx context.Context, id string) error
	GetFollowers(ctx context.Context, userID string) ([]*domain.User, error)
	GetFollowing(ctx context.Context, userID string) ([]*domain.User, error)

	CreateTeam(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetTeams(ctx context.Context) ([]*domain.Team, error)
	GetTeamsByIDs(ctx context.Context, ids []string) (map[string]*domain.Team, error)
	GetUserTeams(ctx context.Context, userID string) ([]*domain.UserTeam, error)
	// ReplaceUserTeams deletes the user's selection and inserts teams as given.
	ReplaceUserTeams(ctx context.Context, userID string, teams []*domain.UserTeam) error
}
