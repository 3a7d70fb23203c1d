// Package web serves the customer JSON API and the role-gated staff area.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"food-ordering/auth"
	"food-ordering/services"
	"food-ordering/store"
)

type Options struct {
	SecureCookies bool
}

type Server struct {
	store     store.Store
	submitter *services.Submitter
	status    *services.StatusSync
	authn     auth.Authenticator
	gate      *auth.Gate
	validate  *validator.Validate
	opts      Options
}

func New(st store.Store, authn auth.Authenticator, notifier services.Notifier, opts Options) *Server {
	status := services.NewStatusSync(st, st, notifier)
	return &Server{
		store:     st,
		submitter: services.NewSubmitter(st, st, status, notifier),
		status:    status,
		authn:     authn,
		gate:      auth.NewGate(),
		validate:  validator.New(),
		opts:      opts,
	}
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.deviceMiddleware)
	api.HandleFunc("/menu", s.menu).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.categories).Methods(http.MethodGet)
	api.HandleFunc("/tables", s.tables).Methods(http.MethodGet)
	api.HandleFunc("/rooms", s.rooms).Methods(http.MethodGet)
	api.HandleFunc("/settings", s.settings).Methods(http.MethodGet)

	api.HandleFunc("/cart", s.getCart).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.clearCart).Methods(http.MethodDelete)
	api.HandleFunc("/cart/items", s.addToCart).Methods(http.MethodPost)
	api.HandleFunc("/cart/items/{id}", s.setCartQuantity).Methods(http.MethodPut)
	api.HandleFunc("/cart/items/{id}", s.removeFromCart).Methods(http.MethodDelete)

	api.HandleFunc("/orders", s.submitOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/mine", s.myOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/last", s.lastOrder).Methods(http.MethodGet)

	// The gate wraps the whole admin router so unmatched paths and methods
	// are gated too.
	adminRouter := mux.NewRouter()
	gate := auth.NewMiddleware(s.gate, s.authn, s.store)
	r.PathPrefix(auth.AdminPrefix).Handler(gate.Handler(adminRouter))

	admin := adminRouter.PathPrefix(auth.AdminPrefix).Subrouter()
	admin.HandleFunc("/login", s.login).Methods(http.MethodPost)
	admin.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	admin.HandleFunc("", s.adminHome).Methods(http.MethodGet)
	admin.HandleFunc("/chef", s.adminHome).Methods(http.MethodGet)
	admin.HandleFunc("/waiter", s.adminHome).Methods(http.MethodGet)

	admin.HandleFunc("/chef/orders", s.kitchenOrders).Methods(http.MethodGet)
	admin.HandleFunc("/chef/orders/{id}/status", s.advanceOrder).Methods(http.MethodPost)

	admin.HandleFunc("/waiter/orders", s.unpaidOrders).Methods(http.MethodGet)
	admin.HandleFunc("/waiter/orders/{id}/paid", s.markPaid).Methods(http.MethodPost)
	admin.HandleFunc("/waiter/tables/{number:[0-9]+}/{state:occupied|available}", s.setTableState).Methods(http.MethodPost)
	admin.HandleFunc("/waiter/rooms/{number:[0-9]+}/{state:occupied|available}", s.setRoomState).Methods(http.MethodPost)

	admin.HandleFunc("/menu/{id}/availability", s.setAvailability).Methods(http.MethodPut)
	admin.HandleFunc("/menu/{id}/servings", s.setServings).Methods(http.MethodPut)
	admin.HandleFunc("/settings", s.getSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", s.saveSettings).Methods(http.MethodPut)

	return logMiddleware(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL.String(),
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("handled request")
	})
}
