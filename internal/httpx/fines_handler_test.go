package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFines struct {
	generateFn func(ratePerDay int64) (int, int, error)
	payFn      func(fineID, method string) (library.PayFineResult, error)
}

func (f *fakeFines) GenerateAutomatic(_ context.Context, _ time.Time, ratePerDay int64) (int, int, error) {
	return f.generateFn(ratePerDay)
}

func (f *fakeFines) Pay(_ context.Context, fineID, method string, _ time.Time) (library.PayFineResult, error) {
	return f.payFn(fineID, method)
}

func (f *fakeFines) List(_ context.Context) ([]library.Fine, error) { return nil, nil }

func (f *fakeFines) ByCustomer(_ context.Context, _ string) ([]library.Fine, error) {
	return nil, nil
}

func (f *fakeFines) Stats(_ context.Context) (library.FineStats, error) {
	return library.FineStats{}, nil
}

func newFinesServer(svc FineService, pub *fakePublisher) http.Handler {
	r := NewRouter()
	h := &FinesHandler{
		Fines:             svc,
		ProducerGenerated: pub,
		ProducerPaid:      pub,
		Service:           "test",
		RatePerDay:        3000,
	}
	h.Register(r)
	return r
}

func TestGenerateFines(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeFines{
		generateFn: func(rate int64) (int, int, error) {
			require.Equal(t, int64(3000), rate)
			return 3, 2, nil
		},
	}

	w := postJSON(t, newFinesServer(svc, pub), "/fines/generate", map[string]any{})

	require.Equal(t, http.StatusOK, w.Code)
	var resp GenerateFinesResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Created)
	assert.Equal(t, 2, resp.Updated)

	require.Len(t, pub.published, 1)
	assert.Equal(t, library.EventFinesGenerated, pub.published[0].EventType)
}

func TestPayFine(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeFines{
		payFn: func(fineID, method string) (library.PayFineResult, error) {
			require.Equal(t, "fine-1", fineID)
			require.Equal(t, "Cash", method)
			return library.PayFineResult{FineID: fineID, CustomerID: "cust-1", Amount: 15000, Method: method}, nil
		},
	}

	w := postJSON(t, newFinesServer(svc, pub), "/fines/fine-1/pay", map[string]any{"method": "Cash"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pub.published, 1)
	assert.Equal(t, library.EventFinePaid, pub.published[0].EventType)

	var p library.FinePaidPayload
	require.NoError(t, json.Unmarshal(pub.published[0].Payload, &p))
	assert.Equal(t, int64(15000), p.Amount)
}

func TestPayFineAlreadyPaid(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeFines{
		payFn: func(string, string) (library.PayFineResult, error) {
			return library.PayFineResult{}, library.ErrAlreadyPaid
		},
	}

	w := postJSON(t, newFinesServer(svc, pub), "/fines/fine-1/pay", map[string]any{"method": "Cash"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, pub.published)
}

func TestPayFineRequiresMethod(t *testing.T) {
	svc := &fakeFines{}
	w := postJSON(t, newFinesServer(svc, &fakePublisher{}), "/fines/fine-1/pay", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
