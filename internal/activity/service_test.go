package activity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, eventType string, payload any) library.Envelope {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return library.Envelope{
		EventID:      "evt-1",
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC),
		Producer:     "library-api",
		Payload:      b,
	}
}

func TestFormatEntryLoanOpened(t *testing.T) {
	env := envelope(t, library.EventLoanOpened, library.LoanOpenedPayload{
		LoanID:       "abc",
		CustomerID:   "cust-1",
		CustomerName: "Budi",
		ISBNs:        []string{"978-1", "978-2"},
	})

	e, ok := FormatEntry(env)
	require.True(t, ok)
	assert.Equal(t, "Peminjaman Buku", e.Type)
	assert.Equal(t, "Budi - 978-1, 978-2", e.Detail)
	assert.Equal(t, "Dipinjam", e.Status)
	assert.Equal(t, env.OccurredAt, e.At)
}

func TestFormatEntryLoanOpenedFallsBackToID(t *testing.T) {
	env := envelope(t, library.EventLoanOpened, library.LoanOpenedPayload{
		CustomerID: "cust-1",
		ISBNs:      []string{"978-1"},
	})

	e, ok := FormatEntry(env)
	require.True(t, ok)
	assert.Equal(t, "cust-1 - 978-1", e.Detail)
}

func TestFormatEntryCopyReturned(t *testing.T) {
	env := envelope(t, library.EventCopyReturned, library.CopyReturnedPayload{
		CopyID: "copy-1",
		ISBN:   "978-1",
	})

	e, ok := FormatEntry(env)
	require.True(t, ok)
	assert.Equal(t, "Pengembalian Buku", e.Type)
	assert.Equal(t, "978-1", e.Detail)
	assert.Equal(t, "Dikembalikan", e.Status)
}

func TestFormatEntryFinePaid(t *testing.T) {
	env := envelope(t, library.EventFinePaid, library.FinePaidPayload{
		FineID: "fine-1",
		Amount: 15000,
		Method: "Cash",
	})

	e, ok := FormatEntry(env)
	require.True(t, ok)
	assert.Equal(t, "Pembayaran Denda", e.Type)
	assert.Equal(t, "Rp 15000 (Cash)", e.Detail)
	assert.Equal(t, "Lunas", e.Status)
}

func TestFormatEntryMembershipPurchased(t *testing.T) {
	env := envelope(t, library.EventMembershipPurchased, library.MembershipPurchasedPayload{
		CustomerID: "cust-1",
		Package:    "3 Bulan",
		Price:      130000,
	})

	e, ok := FormatEntry(env)
	require.True(t, ok)
	assert.Equal(t, "Transaksi Membership", e.Type)
	assert.Equal(t, "cust-1 - 3 Bulan", e.Detail)
	assert.Equal(t, "Berhasil", e.Status)
}

func TestFormatEntrySkipsNonFeedEvents(t *testing.T) {
	env := envelope(t, library.EventFinesGenerated, library.FinesGeneratedPayload{Created: 2})
	_, ok := FormatEntry(env)
	assert.False(t, ok)
}
