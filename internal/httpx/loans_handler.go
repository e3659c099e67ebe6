package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/ariefcatur/go-library-loans.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

var validate = validator.New()

type LoanService interface {
	Open(ctx context.Context, p library.OpenLoanParams) (library.Loan, bool, error)
	Return(ctx context.Context, copyID string) (library.ReturnResult, error)
	ResolveOpenCopy(ctx context.Context, loanID string) (string, error)
	Get(ctx context.Context, loanID string) (library.Loan, error)
	List(ctx context.Context) ([]library.LoanSummary, error)
	ListOverdue(ctx context.Context, today time.Time) ([]library.OverdueCopy, error)
	HistoryByCustomer(ctx context.Context, customerID string) ([]library.LoanSummary, error)
}

type LoansHandler struct {
	Loans            LoanService
	ProducerOpened   Publisher
	ProducerReturned Publisher
	Redis            *redis.Client
	Service          string
	BorrowDays       int
}

type OpenLoanReq struct {
	ExternalID string   `json:"external_id"`
	CustomerID string   `json:"customer_id" validate:"required"`
	ISBNs      []string `json:"isbns" validate:"required,min=1,dive,required"`
	LoanDate   string   `json:"loan_date"` // YYYY-MM-DD, default hari ini
}

type OpenLoanResp struct {
	Loan       library.Loan `json:"loan"`
	Idempotent bool         `json:"idempotent"`
}

type ReturnReq struct {
	CopyID string `json:"copy_id"`
	LoanID string `json:"loan_id"`
}

func (h *LoansHandler) Register(r *chi.Mux) {
	r.Post("/loans", h.open)
	r.Get("/loans", h.list)
	r.Get("/loans/overdue", h.overdue)
	r.Get("/loans/{id}", h.get)
	r.Get("/loans/{id}/status", h.status)
	r.Post("/loans/return", h.returnCopy)
	r.Get("/customers/{id}/loans", h.history)
}

func (h *LoansHandler) open(w http.ResponseWriter, r *http.Request) {
	var req OpenLoanReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	loanDate := time.Now().UTC()
	if req.LoanDate != "" {
		d, err := time.Parse("2006-01-02", req.LoanDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid loan_date"})
			return
		}
		loanDate = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	loan, existed, err := h.Loans.Open(ctx, library.OpenLoanParams{
		ExternalID: req.ExternalID,
		CustomerID: req.CustomerID,
		ISBNs:      req.ISBNs,
		LoanDate:   loanDate,
		BorrowDays: h.BorrowDays,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	// Shortcut idempotency + cache status; DB tetap jadi kebenaran.
	if h.Redis != nil {
		if req.ExternalID != "" {
			idemKey := fmt.Sprintf(redisx.KeyIdemLoanCreate, req.ExternalID)
			_ = h.Redis.Set(ctx, idemKey, loan.ID, redisx.TTLIdempotency).Err()
		}
		statusKey := fmt.Sprintf(redisx.KeyLoanStatus, loan.ID)
		_ = h.Redis.Set(ctx, statusKey, `{"status":"`+string(loan.Status)+`"}`, redisx.TTLStatusCache).Err()
	}

	if !existed {
		isbns := make([]string, 0, len(loan.Copies))
		for _, c := range loan.Copies {
			isbns = append(isbns, c.ISBN)
		}
		publishEvent(h.ProducerOpened, h.Service, r.Header.Get("X-Request-Id"), loan.CustomerID,
			library.EventLoanOpened, library.LoanOpenedPayload{
				LoanID:       loan.ID,
				Label:        loan.Label,
				ExternalID:   loan.ExternalID,
				CustomerID:   loan.CustomerID,
				CustomerName: loan.CustomerName,
				ISBNs:        isbns,
				DueDate:      loan.DueDate.Format("2006-01-02"),
			})
	}

	code := http.StatusCreated
	if existed {
		code = http.StatusOK
	}
	writeJSON(w, code, OpenLoanResp{Loan: loan, Idempotent: existed})
}

func (h *LoansHandler) returnCopy(w http.ResponseWriter, r *http.Request) {
	var req ReturnReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CopyID == "" && req.LoanID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "copy_id or loan_id required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	copyID := req.CopyID
	if copyID == "" {
		// Pengembalian harus menunjuk eksemplar spesifik; id peminjaman
		// cuma diterima kalau resolusinya tunggal.
		id, err := h.Loans.ResolveOpenCopy(ctx, req.LoanID)
		if err != nil {
			writeErr(w, err)
			return
		}
		copyID = id
	}

	res, err := h.Loans.Return(ctx, copyID)
	if err != nil {
		writeErr(w, err)
		return
	}

	if h.Redis != nil {
		statusKey := fmt.Sprintf(redisx.KeyLoanStatus, res.LoanID)
		_ = h.Redis.Del(ctx, statusKey).Err()
	}

	publishEvent(h.ProducerReturned, h.Service, r.Header.Get("X-Request-Id"), res.CustomerID,
		library.EventCopyReturned, library.CopyReturnedPayload{
			CopyID:     res.CopyID,
			LoanID:     res.LoanID,
			CustomerID: res.CustomerID,
			ISBN:       res.ISBN,
		})

	writeJSON(w, http.StatusOK, res)
}

func (h *LoansHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	loan, err := h.Loans.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (h *LoansHandler) status(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	key := fmt.Sprintf(redisx.KeyLoanStatus, loanID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	// 2) fallback DB
	loan, err := h.Loans.Get(ctx, loanID)
	if err != nil {
		writeErr(w, err)
		return
	}
	body := map[string]any{"status": loan.Status}
	if h.Redis != nil {
		b, _ := json.Marshal(body)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *LoansHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	loans, err := h.Loans.List(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

func (h *LoansHandler) overdue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Loans.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *LoansHandler) history(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	loans, err := h.Loans.HistoryByCustomer(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}
