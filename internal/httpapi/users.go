package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) follow(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	follow, err := s.svc.Follows.Follow(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, follow)
}

func (s *Server) unfollow(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	follow, err := s.svc.Follows.Unfollow(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, follow)
}

func (s *Server) followers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Follows.Followers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) following(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Follows.Following(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.Teams.ListTeams(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) userTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.Teams.ListMyTeams(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

type setTeamsRequest struct {
	TeamIDs []string `json:"teamIds"`
}

func (s *Server) setMyTeams(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req setTeamsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	teams, err := s.svc.Teams.SetMyTeams(r.Context(), caller, req.TeamIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) selectTeam(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	teams, err := s.svc.Teams.SelectTeam(r.Context(), caller, chi.URLParam(r, "teamId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (s *Server) unselectTeam(w http.ResponseWriter, r *http.Request) {
	caller, err := principal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	teams, err := s.svc.Teams.UnselectTeam(r.Context(), caller, chi.URLParam(r, "teamId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}
