package web

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"food-ordering/models"
	"food-ordering/store"
)

type menuResponse struct {
	Categories []models.Category     `json:"categories"`
	Items      []models.MenuItem     `json:"items"`
	Settings   *models.OrderSettings `json:"settings"`
}

// menu returns the customer view: categories, available items and the
// order settings, read in parallel.
func (s *Server) menu(w http.ResponseWriter, r *http.Request) {
	var resp menuResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		resp.Categories, err = s.store.ListCategories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Items, err = s.store.ListMenuItems(ctx, store.MenuFilter{
			CategoryID:    r.URL.Query().Get("category"),
			AvailableOnly: true,
		})
		return err
	})
	g.Go(func() error {
		var err error
		resp.Settings, err = s.orderSettings(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}
	resp.Categories = nonNil(resp.Categories)
	resp.Items = nonNil(resp.Items)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cats))
}

func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.ListTables(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tables))
}

func (s *Server) rooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.store.ListRooms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(rooms))
}

func (s *Server) settings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.orderSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// orderSettings treats a missing settings document as delivery disabled.
func (s *Server) orderSettings(ctx context.Context) (*models.OrderSettings, error) {
	settings, err := s.store.GetOrderSettings(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return &models.OrderSettings{}, nil
	}
	return settings, err
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
