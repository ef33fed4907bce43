package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/dataloader"
	"github.com/UkralStul/sportalk/internal/domain"
	"github.com/UkralStul/sportalk/internal/service"
)

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	author, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in service.CreatePostInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	post, err := s.svc.Posts.Create(r.Context(), author, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	take, err := queryInt(r, "take")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	skip, err := queryInt(r, "skip")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	posts, err := s.svc.Posts.FindAll(r.Context(), take, skip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.svc.Posts.FindOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in service.UpdatePostInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	// id из пути главнее тела запроса
	in.ID = chi.URLParam(r, "id")
	post, err := s.svc.Posts.Update(r.Context(), caller, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) removePost(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	post, err := s.svc.Posts.Remove(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) recordView(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Posts.RecordView(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// versionView is a PostVersion with the user who made the edit resolved.
type versionView struct {
	*domain.PostVersion
	Editor *domain.User `json:"editor,omitempty"`
}

func (s *Server) listVersions(w http.ResponseWriter, r *http.Request) {
	includeDeleted, err := queryBool(r, "includeDeleted")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	versions, err := s.svc.Posts.ListVersions(r.Context(), chi.URLParam(r, "id"), includeDeleted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ids := make([]string, 0, len(versions))
	seen := make(map[string]bool)
	for _, v := range versions {
		if !seen[v.AuthorID] {
			seen[v.AuthorID] = true
			ids = append(ids, v.AuthorID)
		}
	}
	editors, err := dataloader.For(r.Context()).Users(r.Context(), ids)
	if err != nil {
		s.writeError(w, r, errors.Trace(err))
		return
	}

	out := make([]versionView, len(versions))
	for i, v := range versions {
		out[i] = versionView{PostVersion: v, Editor: editors[v.AuthorID]}
	}
	writeJSON(w, http.StatusOK, out)
}
