package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMemberships struct {
	purchaseFn func(customerID, pkg, method string, start time.Time) (library.Membership, error)
	extendFn   func(id string, months int) (library.Membership, error)
	expiringFn func(windowDays int) ([]library.Membership, error)
}

func (f *fakeMemberships) Purchase(_ context.Context, customerID, pkg, method string, start time.Time) (library.Membership, error) {
	return f.purchaseFn(customerID, pkg, method, start)
}

func (f *fakeMemberships) Extend(_ context.Context, id string, months int) (library.Membership, error) {
	return f.extendFn(id, months)
}

func (f *fakeMemberships) List(_ context.Context, _ time.Time) ([]library.Membership, error) {
	return nil, nil
}

func (f *fakeMemberships) Active(_ context.Context, _ time.Time) ([]library.Membership, error) {
	return nil, nil
}

func (f *fakeMemberships) Expiring(_ context.Context, _ time.Time, windowDays int) ([]library.Membership, error) {
	return f.expiringFn(windowDays)
}

func newMembershipsServer(svc MembershipService, pub *fakePublisher) http.Handler {
	r := NewRouter()
	h := &MembershipsHandler{
		Memberships:       svc,
		ProducerPurchased: pub,
		ProducerExtended:  pub,
		Service:           "test",
		ExpiringWindow:    7,
	}
	h.Register(r)
	return r
}

func TestPurchaseMembership(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeMemberships{
		purchaseFn: func(customerID, pkg, method string, start time.Time) (library.Membership, error) {
			require.Equal(t, "3 Bulan", pkg)
			return library.Membership{
				ID:         "mem-1",
				CustomerID: customerID,
				Package:    pkg,
				StartDate:  start,
				ExpiryDate: start.AddDate(0, 3, 0),
				Status:     library.MembershipActive,
			}, nil
		},
	}

	w := postJSON(t, newMembershipsServer(svc, pub), "/memberships", map[string]any{
		"customer_id": "cust-1",
		"package":     "3 Bulan",
		"method":      "Cash",
		"start_date":  "2025-06-01",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, pub.published, 1)
	assert.Equal(t, library.EventMembershipPurchased, pub.published[0].EventType)

	// harga diambil dari tabel paket server, bukan dari request
	var p library.MembershipPurchasedPayload
	require.NoError(t, json.Unmarshal(pub.published[0].Payload, &p))
	assert.Equal(t, int64(130000), p.Price)
}

func TestPurchaseMembershipInvalidPackage(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeMemberships{
		purchaseFn: func(_, _, _ string, _ time.Time) (library.Membership, error) {
			return library.Membership{}, library.ErrInvalidPackage
		},
	}

	w := postJSON(t, newMembershipsServer(svc, pub), "/memberships", map[string]any{
		"customer_id": "cust-1",
		"package":     "12 Bulan",
		"method":      "Cash",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, pub.published)
}

func TestExtendMembership(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeMemberships{
		extendFn: func(id string, months int) (library.Membership, error) {
			require.Equal(t, "mem-1", id)
			require.Equal(t, 3, months)
			return library.Membership{ID: id, CustomerID: "cust-1"}, nil
		},
	}
	h := newMembershipsServer(svc, pub)

	w := postJSON(t, h, "/memberships/mem-1/extend", map[string]any{"months": 3})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pub.published, 1)
	assert.Equal(t, library.EventMembershipExtended, pub.published[0].EventType)

	// months wajib > 0
	w = postJSON(t, h, "/memberships/mem-1/extend", map[string]any{"months": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, h, "/memberships/mem-1/extend", map[string]any{"months": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPackages(t *testing.T) {
	h := newMembershipsServer(&fakeMemberships{}, &fakePublisher{})
	req := httptest.NewRequest(http.MethodGet, "/memberships/packages", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var ps []library.Package
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ps))
	require.Len(t, ps, 3)
	assert.Equal(t, "1 Bulan", ps[0].Name)
}

func TestExpiringWindowOverride(t *testing.T) {
	svc := &fakeMemberships{
		expiringFn: func(windowDays int) ([]library.Membership, error) {
			assert.Equal(t, 30, windowDays)
			return []library.Membership{}, nil
		},
	}
	h := newMembershipsServer(svc, &fakePublisher{})
	req := httptest.NewRequest(http.MethodGet, "/memberships/expiring?days=30", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
