package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePublisher merekam envelope yang dipublish, tanpa broker.
type fakePublisher struct {
	published []library.Envelope
}

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	var env library.Envelope
	_ = json.Unmarshal(value, &env)
	f.published = append(f.published, env)
}

type fakeLoans struct {
	openFn    func(p library.OpenLoanParams) (library.Loan, bool, error)
	returnFn  func(copyID string) (library.ReturnResult, error)
	resolveFn func(loanID string) (string, error)
	getFn     func(loanID string) (library.Loan, error)
}

func (f *fakeLoans) Open(_ context.Context, p library.OpenLoanParams) (library.Loan, bool, error) {
	return f.openFn(p)
}

func (f *fakeLoans) Return(_ context.Context, copyID string) (library.ReturnResult, error) {
	return f.returnFn(copyID)
}

func (f *fakeLoans) ResolveOpenCopy(_ context.Context, loanID string) (string, error) {
	return f.resolveFn(loanID)
}

func (f *fakeLoans) Get(_ context.Context, loanID string) (library.Loan, error) {
	return f.getFn(loanID)
}

func (f *fakeLoans) List(_ context.Context) ([]library.LoanSummary, error) { return nil, nil }

func (f *fakeLoans) ListOverdue(_ context.Context, _ time.Time) ([]library.OverdueCopy, error) {
	return nil, nil
}

func (f *fakeLoans) HistoryByCustomer(_ context.Context, _ string) ([]library.LoanSummary, error) {
	return nil, nil
}

func newLoansServer(svc LoanService, pub *fakePublisher) http.Handler {
	r := NewRouter()
	h := &LoansHandler{
		Loans:            svc,
		ProducerOpened:   pub,
		ProducerReturned: pub,
		Service:          "test",
		BorrowDays:       7,
	}
	h.Register(r)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestOpenLoanCreated(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeLoans{
		openFn: func(p library.OpenLoanParams) (library.Loan, bool, error) {
			require.Equal(t, 7, p.BorrowDays)
			return library.Loan{
				ID:         "loan-1",
				Label:      "PM001",
				CustomerID: p.CustomerID,
				Status:     library.CopyBorrowed,
				DueDate:    p.LoanDate.AddDate(0, 0, p.BorrowDays),
				Copies:     []library.LoanCopy{{ID: "copy-1", ISBN: "978-1"}},
			}, false, nil
		},
	}

	w := postJSON(t, newLoansServer(svc, pub), "/loans", map[string]any{
		"customer_id": "cust-1",
		"isbns":       []string{"978-1"},
		"loan_date":   "2025-06-01",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp OpenLoanResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Idempotent)
	assert.Equal(t, "loan-1", resp.Loan.ID)

	require.Len(t, pub.published, 1)
	assert.Equal(t, library.EventLoanOpened, pub.published[0].EventType)
	assert.Equal(t, "cust-1", pub.published[0].CorrelationID)
}

func TestOpenLoanIdempotentReplay(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeLoans{
		openFn: func(p library.OpenLoanParams) (library.Loan, bool, error) {
			return library.Loan{ID: "loan-1", CustomerID: p.CustomerID}, true, nil
		},
	}

	w := postJSON(t, newLoansServer(svc, pub), "/loans", map[string]any{
		"external_id": "ext-1",
		"customer_id": "cust-1",
		"isbns":       []string{"978-1"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp OpenLoanResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Idempotent)
	// replay tidak boleh publish ulang
	assert.Empty(t, pub.published)
}

func TestOpenLoanValidation(t *testing.T) {
	svc := &fakeLoans{}
	h := newLoansServer(svc, &fakePublisher{})

	// tanpa customer_id
	w := postJSON(t, h, "/loans", map[string]any{"isbns": []string{"978-1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// isbns kosong
	w = postJSON(t, h, "/loans", map[string]any{"customer_id": "cust-1", "isbns": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// tanggal rusak
	w = postJSON(t, h, "/loans", map[string]any{
		"customer_id": "cust-1", "isbns": []string{"978-1"}, "loan_date": "01-06-2025",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpenLoanErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{library.ErrOutOfStock, http.StatusConflict},
		{library.ErrNotFound, http.StatusNotFound},
	}
	for _, c := range cases {
		svc := &fakeLoans{
			openFn: func(library.OpenLoanParams) (library.Loan, bool, error) {
				return library.Loan{}, false, c.err
			},
		}
		w := postJSON(t, newLoansServer(svc, &fakePublisher{}), "/loans", map[string]any{
			"customer_id": "cust-1",
			"isbns":       []string{"978-1"},
		})
		assert.Equal(t, c.want, w.Code, "err=%v", c.err)
	}
}

func TestReturnByCopyID(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeLoans{
		returnFn: func(copyID string) (library.ReturnResult, error) {
			require.Equal(t, "copy-1", copyID)
			return library.ReturnResult{CopyID: "copy-1", LoanID: "loan-1", CustomerID: "cust-1", ISBN: "978-1"}, nil
		},
	}

	w := postJSON(t, newLoansServer(svc, pub), "/loans/return", map[string]any{"copy_id": "copy-1"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, pub.published, 1)
	assert.Equal(t, library.EventCopyReturned, pub.published[0].EventType)
}

func TestReturnByLoanIDResolvesSingleOpenCopy(t *testing.T) {
	svc := &fakeLoans{
		resolveFn: func(loanID string) (string, error) {
			require.Equal(t, "loan-1", loanID)
			return "copy-1", nil
		},
		returnFn: func(copyID string) (library.ReturnResult, error) {
			return library.ReturnResult{CopyID: copyID, LoanID: "loan-1", CustomerID: "cust-1"}, nil
		},
	}

	w := postJSON(t, newLoansServer(svc, &fakePublisher{}), "/loans/return", map[string]any{"loan_id": "loan-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReturnConflicts(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeLoans{
		returnFn: func(string) (library.ReturnResult, error) {
			return library.ReturnResult{}, library.ErrAlreadyReturned
		},
		resolveFn: func(string) (string, error) {
			return "", library.ErrAmbiguousReturn
		},
	}
	h := newLoansServer(svc, pub)

	w := postJSON(t, h, "/loans/return", map[string]any{"copy_id": "copy-1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, h, "/loans/return", map[string]any{"loan_id": "loan-1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, h, "/loans/return", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// gagal = tidak ada event
	assert.Empty(t, pub.published)
}

func TestGetLoanNotFound(t *testing.T) {
	svc := &fakeLoans{
		getFn: func(string) (library.Loan, error) { return library.Loan{}, library.ErrNotFound },
	}
	req := httptest.NewRequest(http.MethodGet, "/loans/nope", nil)
	w := httptest.NewRecorder()
	newLoansServer(svc, &fakePublisher{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
