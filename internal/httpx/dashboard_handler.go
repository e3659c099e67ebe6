package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/ariefcatur/go-library-loans.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type DashboardService interface {
	Stats(ctx context.Context, today time.Time) (library.DashboardStats, error)
	Monthly(ctx context.Context, year, month int) (library.MonthlyReport, error)
}

type DashboardHandler struct {
	Dashboard DashboardService
	Redis     *redis.Client
}

type DashboardResp struct {
	Stats            library.DashboardStats `json:"stats"`
	RecentActivities []json.RawMessage      `json:"recent_activities"`
}

func (h *DashboardHandler) Register(r *chi.Mux) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/dashboard/monthly", h.monthly)
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	stats, err := h.Dashboard.Stats(ctx, time.Now().UTC())
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := DashboardResp{Stats: stats, RecentActivities: []json.RawMessage{}}
	// Feed aktivitas diisi worker activity; kalau Redis kosong/tumbang,
	// dashboard tetap jalan tanpa feed.
	if h.Redis != nil {
		if entries, err := h.Redis.LRange(ctx, redisx.KeyRecentActivity, 0, 4).Result(); err == nil {
			for _, e := range entries {
				resp.RecentActivities = append(resp.RecentActivities, json.RawMessage(e))
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DashboardHandler) monthly(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 12 {
			month = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rep, err := h.Dashboard.Monthly(ctx, year, month)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
