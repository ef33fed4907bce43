package service

import (
	"context"
	"log/slog"

	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/storage"
)

// PostFinder is the read capability comment and media writes depend on.
type PostFinder interface {
	Get(ctx context.Context, id string) (*domain.Post, error)
}

// CommentNotifier receives every newly created comment.
type CommentNotifier interface {
	Publish(comment *domain.Comment)
}

type CreateCommentInput struct {
	PostID          string  `json:"postId"`
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parentCommentId,omitempty"`
}

type UpdateCommentInput struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// CommentService manages comments. Edits overwrite content without history.
type CommentService struct {
	store    storage.Storage
	posts    PostFinder
	notifier CommentNotifier
	log      *slog.Logger
}

// NewCommentService builds the service. notifier may be nil.
func NewCommentService(store storage.Storage, posts PostFinder, notifier CommentNotifier, log *slog.Logger) *CommentService {
	return &CommentService{store: store, posts: posts, notifier: notifier, log: log}
}

func (s *CommentService) Create(ctx context.Context, authorID string, in CreateCommentInput) (*domain.Comment, error) {
	content, err := domain.NormalizeContent("comment", in.Content, domain.MaxCommentContent)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if _, err := s.posts.Get(ctx, in.PostID); err != nil {
		return nil, errors.Trace(err)
	}

	// Родитель должен принадлежать тому же посту
	if in.ParentCommentID != nil {
		parent, err := s.store.GetCommentByID(ctx, *in.ParentCommentID)
		if err != nil {
			return nil, errors.Annotate(err, "parent comment")
		}
		if parent.PostID != in.PostID {
			return nil, errors.NotValidf("parent comment %q belongs to post %q, not %q", parent.ID, parent.PostID, in.PostID)
		}
	}

	comment, err := s.store.CreateComment(ctx, &domain.Comment{
		PostID:   in.PostID,
		ParentID: in.ParentCommentID,
		AuthorID: authorID,
		Content:  content,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if s.notifier != nil {
		s.notifier.Publish(comment)
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, principalID string, in UpdateCommentInput) (*domain.Comment, error) {
	content, err := domain.NormalizeContent("comment", in.Content, domain.MaxCommentContent)
	if err != nil {
		return nil, errors.Trace(err)
	}
	comment, err := s.store.GetCommentByID(ctx, in.ID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := domain.CheckOwnership(principalID, comment.AuthorID); err != nil {
		return nil, errors.Trace(err)
	}
	comment.Content = content
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return nil, errors.Trace(err)
	}
	return comment, nil
}

func (s *CommentService) Remove(ctx context.Context, principalID, id string) (*domain.Comment, error) {
	comment, err := s.store.GetCommentByID(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := domain.CheckOwnership(principalID, comment.AuthorID); err != nil {
		return nil, errors.Trace(err)
	}
	if err := s.store.SoftDeleteComment(ctx, id); err != nil {
		return nil, errors.Trace(err)
	}
	s.log.Info("comment removed", "comment_id", id, "post_id", comment.PostID)
	return comment, nil
}

// FindAllByPost returns every live comment of the post, oldest first.
// TODO: paginate once threads on popular posts outgrow a single response.
func (s *CommentService) FindAllByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments, err := s.store.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return comments, nil
}

// ListReplies returns the direct replies to a comment.
func (s *CommentService) ListReplies(ctx context.Context, commentID string) ([]*domain.Comment, error) {
	if _, err := s.store.GetCommentByID(ctx, commentID); err != nil {
		return nil, errors.Trace(err)
	}
	byParent, err := s.store.GetCommentsByParentIDs(ctx, []string{commentID})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if replies := byParent[commentID]; replies != nil {
		return replies, nil
	}
	return []*domain.Comment{}, nil
}
