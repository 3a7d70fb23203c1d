package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"food-ordering/cart"
	"food-ordering/devicestore"
)

const (
	deviceCookie    = "device_id"
	deviceCookieAge = 365 * 24 * time.Hour
)

type deviceKey struct{}

// deviceMiddleware makes sure every customer request carries a device ID,
// issuing a new one when the cookie is missing or malformed.
func (s *Server) deviceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(deviceCookie); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     deviceCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(deviceCookieAge.Seconds()),
				HttpOnly: true,
				Secure:   s.opts.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), deviceKey{}, id)))
	})
}

func deviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceKey{}).(string)
	return id
}

func (s *Server) deviceStorage(r *http.Request) devicestore.Storage {
	return s.store.DeviceStorage(deviceID(r.Context()))
}

// loadCart hydrates the device's cart with the servings check enabled.
func (s *Server) loadCart(r *http.Request) (*cart.Cart, devicestore.Storage) {
	storage := s.deviceStorage(r)
	return cart.Load(r.Context(), storage, cart.WithServings(s.store)), storage
}
