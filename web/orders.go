package web

import (
	"errors"
	"net/http"

	"food-ordering/devicestore"
	"food-ordering/models"
	"food-ordering/services"
	"food-ordering/store"
)

type submitOrderRequest struct {
	TableNumber int    `json:"tableNumber" validate:"min=0"`
	RoomNumber  int    `json:"roomNumber" validate:"min=0"`
	Phone       string `json:"phoneNumber" validate:"max=32"`
	Address     string `json:"address" validate:"max=256"`
}

func (s *Server) submitOrder(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, storage := s.loadCart(r)
	order, err := s.submitter.Submit(r.Context(), c, storage, services.SubmitInput{
		TableNumber: req.TableNumber,
		RoomNumber:  req.RoomNumber,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// myOrders lists the orders this device placed, newest first.
func (s *Server) myOrders(w http.ResponseWriter, r *http.Request) {
	ids := devicestore.RememberedOrders(r.Context(), s.deviceStorage(r))
	if len(ids) == 0 {
		writeJSON(w, http.StatusOK, []models.Order{})
		return
	}
	orders, err := s.store.ListOrders(r.Context(), store.OrderFilter{IDs: ids})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(orders))
}

type lastOrderResponse struct {
	LastOrder *devicestore.LastOrder `json:"lastOrder"`
	Order     *models.Order          `json:"order,omitempty"`
}

// lastOrder returns the device's last order record, with the live order
// document when it still exists.
func (s *Server) lastOrder(w http.ResponseWriter, r *http.Request) {
	rec := devicestore.LoadLastOrder(r.Context(), s.deviceStorage(r))
	if rec == nil {
		writeError(w, r, store.ErrNotFound)
		return
	}
	resp := lastOrderResponse{LastOrder: rec}
	order, err := s.store.GetOrder(r.Context(), rec.OrderID)
	switch {
	case err == nil:
		resp.Order = order
	case !errors.Is(err, store.ErrNotFound):
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
