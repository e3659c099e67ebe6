package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/go-chi/chi/v5"
)

type CustomerService interface {
	Create(ctx context.Context, c library.Customer) (library.Customer, error)
	Get(ctx context.Context, id string, today time.Time) (library.Customer, error)
	List(ctx context.Context, today time.Time) ([]library.Customer, error)
	Search(ctx context.Context, keywords string, today time.Time) ([]library.Customer, error)
}

type CustomersHandler struct {
	Customers CustomerService
}

type CustomerReq struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

func (h *CustomersHandler) Register(r *chi.Mux) {
	r.Post("/customers", h.create)
	r.Get("/customers", h.list)
	r.Get("/customers/{id}", h.get)
}

func (h *CustomersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CustomerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Customers.Create(ctx, library.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Customers.Get(ctx, chi.URLParam(r, "id"), time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		cs  []library.Customer
		err error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		cs, err = h.Customers.Search(ctx, q, time.Now().UTC())
	} else {
		cs, err = h.Customers.List(ctx, time.Now().UTC())
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}
