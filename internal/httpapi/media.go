package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/UkralStul/sportalk/internal/service"
)

func (s *Server) createMedia(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in service.CreateMediaInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	media, err := s.svc.Media.Create(r.Context(), caller, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, media)
}

func (s *Server) updateMediaStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in service.UpdateMediaStatusInput
	if err := decode(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	media, err := s.svc.Media.UpdateStatus(r.Context(), caller, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, media)
}

func (s *Server) removeMedia(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	media, err := s.svc.Media.Remove(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, media)
}
