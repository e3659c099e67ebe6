package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/go-chi/chi/v5"
)

type CatalogService interface {
	Create(ctx context.Context, b library.Book) (library.Book, error)
	Update(ctx context.Context, b library.Book) (library.Book, error)
	SetActive(ctx context.Context, isbn string, active bool) error
	Delete(ctx context.Context, isbn string) error
	Get(ctx context.Context, isbn string) (library.Book, error)
	List(ctx context.Context) ([]library.Book, error)
	ListAvailable(ctx context.Context) ([]library.Book, error)
	Search(ctx context.Context, keywords string) ([]library.Book, error)
}

type CatalogHandler struct {
	Catalog CatalogService
}

type BookReq struct {
	ISBN      string `json:"isbn" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Category  string `json:"category"`
	Stock     int    `json:"stock" validate:"gte=0"`
}

type SetActiveReq struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Post("/books", h.create)
	r.Get("/books", h.list)
	r.Get("/books/available", h.available)
	r.Get("/books/{isbn}", h.get)
	r.Put("/books/{isbn}", h.update)
	r.Patch("/books/{isbn}/active", h.setActive)
	r.Delete("/books/{isbn}", h.delete)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req BookReq
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

	b, err := h.Catalog.Create(ctx, library.Book{
		ISBN:      req.ISBN,
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Category:  req.Category,
		Stock:     req.Stock,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var req BookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.Catalog.Update(ctx, library.Book{
		ISBN:      chi.URLParam(r, "isbn"),
		Title:     req.Title,
		Author:    req.Author,
		Publisher: req.Publisher,
		Category:  req.Category,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *CatalogHandler) setActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveReq
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

	if err := h.Catalog.SetActive(ctx, chi.URLParam(r, "isbn"), *req.Active); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"active": *req.Active})
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Catalog.Delete(ctx, chi.URLParam(r, "isbn")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	b, err := h.Catalog.Get(ctx, chi.URLParam(r, "isbn"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var (
		books []library.Book
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		books, err = h.Catalog.Search(ctx, q)
	} else {
		books, err = h.Catalog.List(ctx)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *CatalogHandler) available(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	books, err := h.Catalog.ListAvailable(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}
