package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"food-ordering/auth"
	"food-ordering/cart"
	"food-ordering/models"
	"food-ordering/services"
	"food-ordering/store"
)

var (
	errBadRequest      = errors.New("bad request")
	errItemUnavailable = errors.New("menu item is not available")
	errNotStaff        = errors.New("account has no staff role")
)

type errorResponse struct {
	Error     string `json:"error"`
	ItemID    string `json:"itemId,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("write response")
	}
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, models.ErrSeatingRequired),
		errors.Is(err, models.ErrSeatingAmbiguous),
		errors.Is(err, models.ErrDeliveryDetailsRequired),
		errors.Is(err, cart.ErrQuantityOutOfRange),
		errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errNotStaff):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrInsufficientServings),
		errors.Is(err, errItemUnavailable),
		errors.Is(err, services.ErrDeliveryDisabled),
		errors.Is(err, services.ErrInvalidStatusTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status. Internal errors are logged and hidden
// from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	resp := errorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"url":    r.URL.String(),
		}).Error("request failed")
		resp.Error = http.StatusText(status)
	}

	var insufficient *cart.InsufficientServingsError
	if errors.As(err, &insufficient) {
		resp.ItemID = insufficient.ItemID
		resp.Remaining = &insufficient.Remaining
	}
	var throttled *auth.ThrottledError
	if errors.As(err, &throttled) {
		w.Header().Set("Retry-After", fmt.Sprint(int(throttled.Wait.Seconds())+1))
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into dst and runs its validate tags.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
