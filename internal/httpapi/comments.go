package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/dataloader"
	"github.com/UkralStul/sportalk/internal/service"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.svc.Comments.FindAllByPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch expand := r.URL.Query().Get("expand"); expand {
	case "":
	case "replies":
		ids := make([]string, len(comments))
		for i, c := range comments {
			ids[i] = c.ID
		}
		// один батч на весь список, без N+1
		replies, err := dataloader.For(r.Context()).Replies(r.Context(), ids)
		if err != nil {
			s.writeError(w, r, errors.Trace(err))
			return
		}
		for _, c := range comments {
			c.Replies = replies[c.ID]
		}
	default:
		s.writeError(w, r, errors.BadRequestf("unknown expand %q", expand))
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	author, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in service.CreateCommentInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	comment, err := s.svc.Comments.Create(r.Context(), author, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in service.UpdateCommentInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	comment, err := s.svc.Comments.Update(r.Context(), caller, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) removeComment(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	comment, err := s.svc.Comments.Remove(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) listReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := s.svc.Comments.ListReplies(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, replies)
}
