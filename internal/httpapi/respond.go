package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/errors"

	"github.com/UkralStul/sportalk/internal/domain"
)

// PrincipalHeader carries the authenticated user id set by the auth gateway.
const PrincipalHeader = "X-User-ID"

type principalKey struct{}

func principalMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(PrincipalHeader); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), principalKey{}, id))
		}
		next.ServeHTTP(w, r)
	})
}

// principal returns the caller's user id or an Unauthorized error.
func principal(r *http.Request) (string, error) {
	id, _ := r.Context().Value(principalKey{}).(string)
	if id == "" {
		return "", errors.Unauthorizedf("missing %s header", PrincipalHeader)
	}
	return id, nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var statusByCode = map[string]int{
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodePermissionDenied: http.StatusForbidden,
	domain.CodeInvalidRelation:  http.StatusUnprocessableEntity,
	domain.CodeConflict:         http.StatusConflict,
	domain.CodeBadRequest:       http.StatusBadRequest,
	domain.CodeUnauthenticated:  http.StatusUnauthorized,
	domain.CodeInternal:         http.StatusInternalServerError,
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrCode(err)
	body := errorBody{Code: code, Message: err.Error()}
	if code == domain.CodeInternal {
		s.log.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", errors.ErrorStack(err),
		)
		body.Message = "internal error"
	}
	writeJSON(w, statusByCode[code], body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.BadRequestf("invalid request body: %v", err)
	}
	return nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequestf("query parameter %s=%q is not an integer", name, raw)
	}
	return n, nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.BadRequestf("query parameter %s=%q is not a boolean", name, raw)
	}
	return b, nil
}
