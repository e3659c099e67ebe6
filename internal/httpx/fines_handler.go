package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/go-chi/chi/v5"
)

type FineService interface {
	GenerateAutomatic(ctx context.Context, today time.Time, ratePerDay int64) (created, updated int, err error)
	Pay(ctx context.Context, fineID, method string, today time.Time) (library.PayFineResult, error)
	List(ctx context.Context) ([]library.Fine, error)
	ByCustomer(ctx context.Context, customerID string) ([]library.Fine, error)
	Stats(ctx context.Context) (library.FineStats, error)
}

type FinesHandler struct {
	Fines             FineService
	ProducerGenerated Publisher
	ProducerPaid      Publisher
	Service           string
	RatePerDay        int64
}

type GenerateFinesResp struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type PayFineReq struct {
	Method string `json:"method" validate:"required"`
}

func (h *FinesHandler) Register(r *chi.Mux) {
	r.Post("/fines/generate", h.generate)
	r.Get("/fines", h.list)
	r.Get("/fines/stats", h.stats)
	r.Post("/fines/{id}/pay", h.pay)
	r.Get("/customers/{id}/fines", h.byCustomer)
}

func (h *FinesHandler) generate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, updated, err := h.Fines.GenerateAutomatic(ctx, time.Now().UTC(), h.RatePerDay)
	if err != nil {
		writeErr(w, err)
		return
	}

	publishEvent(h.ProducerGenerated, h.Service, r.Header.Get("X-Request-Id"), "",
		library.EventFinesGenerated, library.FinesGeneratedPayload{
			Created:    created,
			Updated:    updated,
			RatePerDay: h.RatePerDay,
		})

	writeJSON(w, http.StatusOK, GenerateFinesResp{Created: created, Updated: updated})
}

func (h *FinesHandler) pay(w http.ResponseWriter, r *http.Request) {
	var req PayFineReq
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

	res, err := h.Fines.Pay(ctx, chi.URLParam(r, "id"), req.Method, time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}

	publishEvent(h.ProducerPaid, h.Service, r.Header.Get("X-Request-Id"), res.CustomerID,
		library.EventFinePaid, library.FinePaidPayload{
			FineID:     res.FineID,
			CustomerID: res.CustomerID,
			Amount:     res.Amount,
			Method:     res.Method,
		})

	writeJSON(w, http.StatusOK, res)
}

func (h *FinesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	fines, err := h.Fines.List(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fines)
}

func (h *FinesHandler) byCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	fines, err := h.Fines.ByCustomer(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fines)
}

func (h *FinesHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.Fines.Stats(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
