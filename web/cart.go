package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"food-ordering/cart"
	"food-ordering/models"
)

type cartLine struct {
	Item     models.MenuItem `json:"item"`
	Quantity int             `json:"quantity"`
	Subtotal int64           `json:"subtotal"`
}

type cartResponse struct {
	Items      []cartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}

func cartView(c cart.Aggregator) cartResponse {
	lines := c.Lines()
	resp := cartResponse{
		Items:      make([]cartLine, len(lines)),
		TotalItems: c.TotalItemCount(),
		TotalPrice: c.TotalPrice(),
	}
	for i, l := range lines {
		resp.Items[i] = cartLine{Item: l.Item, Quantity: l.Quantity, Subtotal: l.Subtotal()}
	}
	return resp
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c, _ := s.loadCart(r)
	writeJSON(w, http.StatusOK, cartView(c))
}

type addToCartRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	Delta  int    `json:"delta" validate:"required,min=-999,max=999"`
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	item, err := s.store.GetMenuItem(ctx, req.ItemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Delta > 0 && !item.Available {
		writeError(w, r, fmt.Errorf("%w: %s", errItemUnavailable, item.Name))
		return
	}
	c, _ := s.loadCart(r)
	if err := c.Add(ctx, *item, req.Delta); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=999"`
}

func (s *Server) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := s.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	c, _ := s.loadCart(r)
	if *req.Quantity > c.QuantityOf(id) {
		item, err := s.store.GetMenuItem(ctx, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !item.Available {
			writeError(w, r, fmt.Errorf("%w: %s", errItemUnavailable, item.Name))
			return
		}
	}
	if err := c.SetQuantity(ctx, id, *req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	c, _ := s.loadCart(r)
	if err := c.Remove(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	c, _ := s.loadCart(r)
	if err := c.Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cartView(c))
}
