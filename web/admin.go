package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"food-ordering/auth"
	"food-ordering/models"
	"food-ordering/store"
)

type loginResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	sess, err := s.authn.SignIn(ctx, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := s.store.GetUser(ctx, sess.UID)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errNotStaff, err))
		return
	}
	role := auth.ParseRole(u.Role)
	if role == auth.RoleUnauthenticated {
		writeError(w, r, errNotStaff)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sess.Token,
		Path:     auth.AdminPrefix,
		MaxAge:   int(sess.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	log.WithFields(log.Fields{"uid": u.ID, "role": role.String()}).Info("staff signed in")
	writeJSON(w, http.StatusOK, loginResponse{Role: role.String(), Redirect: s.gate.Home(role)})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     auth.AdminPrefix,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
	})
	w.WriteHeader(http.StatusNoContent)
}

type homeResponse struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	Home string `json:"home"`
}

func (s *Server) adminHome(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	writeJSON(w, http.StatusOK, homeResponse{UID: id.UID, Role: id.Role.String(), Home: s.gate.Home(id.Role)})
}

// kitchenOrders lists orders for the chef. Without a status filter it shows
// everything not yet completed.
func (s *Server) kitchenOrders(w http.ResponseWriter, r *http.Request) {
	var filter store.OrderFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := models.ParseOrderStatus(raw)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: unknown status %q", errBadRequest, raw))
			return
		}
		filter.Status = &st
	}
	orders, err := s.store.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Status == nil {
		open := orders[:0]
		for _, o := range orders {
			if o.Status != models.OrderStatusCompleted {
				open = append(open, o)
			}
		}
		orders = open
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

type advanceRequest struct {
	Status string `json:"status" validate:"required,oneof=pending preparing ready completed"`
}

func (s *Server) advanceOrder(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := s.status.AdvanceStatus(r.Context(), mux.Vars(r)["id"], models.OrderStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) unpaidOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOrders(r.Context(), store.OrderFilter{Unpaid: true})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

func (s *Server) markPaid(w http.ResponseWriter, r *http.Request) {
	order, err := s.status.MarkPaid(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func seatingVars(r *http.Request) (int, bool, error) {
	vars := mux.Vars(r)
	number, err := strconv.Atoi(vars["number"])
	if err != nil || number <= 0 {
		return 0, false, fmt.Errorf("%w: invalid number %q", errBadRequest, vars["number"])
	}
	return number, strings.EqualFold(vars["state"], string(models.OccupancyOccupied)), nil
}

func (s *Server) setTableState(w http.ResponseWriter, r *http.Request) {
	number, occupied, err := seatingVars(r)
	if err == nil {
		if occupied {
			err = s.status.MarkTableOccupied(r.Context(), number)
		} else {
			err = s.status.MarkTableAvailable(r.Context(), number)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	table, err := s.store.GetTableByNumber(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) setRoomState(w http.ResponseWriter, r *http.Request) {
	number, occupied, err := seatingVars(r)
	if err == nil {
		if occupied {
			err = s.status.MarkRoomOccupied(r.Context(), number)
		} else {
			err = s.status.MarkRoomAvailable(r.Context(), number)
		}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	room, err := s.store.GetRoomByNumber(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type availabilityRequest struct {
	Available *bool `json:"isAvailable" validate:"required"`
}

func (s *Server) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.updateMenuItem(w, r, func(id string) error {
		return s.store.SetMenuItemAvailability(r.Context(), id, *req.Available)
	})
}

// servingsRequest takes a count, or null to fall back to the item's capacity.
type servingsRequest struct {
	RemainingServings models.Servings `json:"remainingServings"`
}

func (s *Server) setServings(w http.ResponseWriter, r *http.Request) {
	var req servingsRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if p := req.RemainingServings.Ptr(); p != nil && *p < 0 {
		writeError(w, r, fmt.Errorf("%w: remainingServings must not be negative", errBadRequest))
		return
	}
	s.updateMenuItem(w, r, func(id string) error {
		return s.store.SetRemainingServings(r.Context(), id, req.RemainingServings)
	})
}

func (s *Server) updateMenuItem(w http.ResponseWriter, r *http.Request, update func(id string) error) {
	id := mux.Vars(r)["id"]
	if err := update(id); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := s.store.GetMenuItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	s.settings(w, r)
}

type settingsRequest struct {
	DeliveryEnabled       bool  `json:"deliveryEnabled"`
	DeliveryFee           int64 `json:"deliveryFee" validate:"min=0"`
	DefaultContainerPrice int64 `json:"defaultContainerPrice" validate:"min=0"`
}

func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	settings := &models.OrderSettings{
		DeliveryEnabled:       req.DeliveryEnabled,
		DeliveryFee:           req.DeliveryFee,
		DefaultContainerPrice: req.DefaultContainerPrice,
	}
	if err := s.store.SaveOrderSettings(r.Context(), settings); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
