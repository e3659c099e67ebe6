package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/go-chi/chi/v5"
)

type MembershipService interface {
	Purchase(ctx context.Context, customerID, packageName, method string, start time.Time) (library.Membership, error)
	Extend(ctx context.Context, membershipID string, months int) (library.Membership, error)
	List(ctx context.Context, today time.Time) ([]library.Membership, error)
	Active(ctx context.Context, today time.Time) ([]library.Membership, error)
	Expiring(ctx context.Context, today time.Time, windowDays int) ([]library.Membership, error)
}

type MembershipsHandler struct {
	Memberships       MembershipService
	ProducerPurchased Publisher
	ProducerExtended  Publisher
	Service           string
	ExpiringWindow    int
}

type PurchaseMembershipReq struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Package    string `json:"package" validate:"required"`
	Method     string `json:"method" validate:"required"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD, default hari ini
	// Nominal sengaja tidak ada di sini: harga datang dari tabel paket server.
}

type ExtendMembershipReq struct {
	Months int `json:"months" validate:"required,gt=0"`
}

func (h *MembershipsHandler) Register(r *chi.Mux) {
	r.Post("/memberships", h.purchase)
	r.Get("/memberships", h.list)
	r.Get("/memberships/packages", h.packages)
	r.Get("/memberships/active", h.active)
	r.Get("/memberships/expiring", h.expiring)
	r.Post("/memberships/{id}/extend", h.extend)
}

func (h *MembershipsHandler) purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseMembershipReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		d, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date"})
			return
		}
		start = d
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m, err := h.Memberships.Purchase(ctx, req.CustomerID, req.Package, req.Method, start)
	if err != nil {
		writeErr(w, err)
		return
	}

	pkg, _ := library.ResolvePackage(m.Package)
	publishEvent(h.ProducerPurchased, h.Service, r.Header.Get("X-Request-Id"), m.CustomerID,
		library.EventMembershipPurchased, library.MembershipPurchasedPayload{
			MembershipID: m.ID,
			CustomerID:   m.CustomerID,
			Package:      m.Package,
			Price:        pkg.Price,
			ExpiryDate:   m.ExpiryDate.Format("2006-01-02"),
		})

	writeJSON(w, http.StatusCreated, m)
}

func (h *MembershipsHandler) extend(w http.ResponseWriter, r *http.Request) {
	var req ExtendMembershipReq
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

	m, err := h.Memberships.Extend(ctx, chi.URLParam(r, "id"), req.Months)
	if err != nil {
		writeErr(w, err)
		return
	}

	publishEvent(h.ProducerExtended, h.Service, r.Header.Get("X-Request-Id"), m.CustomerID,
		library.EventMembershipExtended, library.MembershipExtendedPayload{
			MembershipID: m.ID,
			CustomerID:   m.CustomerID,
			AddedMonths:  req.Months,
			ExpiryDate:   m.ExpiryDate.Format("2006-01-02"),
		})

	writeJSON(w, http.StatusOK, m)
}

func (h *MembershipsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Memberships.List(ctx, time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *MembershipsHandler) active(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Memberships.Active(ctx, time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *MembershipsHandler) expiring(w http.ResponseWriter, r *http.Request) {
	window := h.ExpiringWindow
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			window = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Memberships.Expiring(ctx, time.Now().UTC(), window)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *MembershipsHandler) packages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, library.Packages())
}
