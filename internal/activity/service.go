package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkax "github.com/ariefcatur/go-library-loans.git/internal/kafka"
	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/ariefcatur/go-library-loans.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Entry = satu baris feed "aktivitas terbaru" di dashboard.
type Entry struct {
	Type   string    `json:"type"`
	Detail string    `json:"detail"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleEvent: dipasang sebagai handler consumer utk semua topic library.*.
// Efeknya idempoten (dedup via event_id), jadi redelivery aman.
func (s *Service) HandleEvent(ctx context.Context, m kafkago.Message) error {
	var env library.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	entry, ok := FormatEntry(env)
	if !ok {
		return nil // event yang tidak masuk feed, commit saja
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := s.Redis.Pipeline()
	pipe.LPush(ctx, redisx.KeyRecentActivity, b)
	pipe.LTrim(ctx, redisx.KeyRecentActivity, 0, redisx.RecentActivityMax-1)
	_, err = pipe.Exec(ctx)
	return err
}

// FormatEntry menerjemahkan envelope ke baris feed. false = event bukan
// konsumsi dashboard.
func FormatEntry(env library.Envelope) (Entry, bool) {
	switch env.EventType {
	case library.EventLoanOpened:
		p, err := kafkax.UnwrapPayload[library.LoanOpenedPayload](env.Payload)
		if err != nil {
			return Entry{}, false
		}
		who := p.CustomerName
		if who == "" {
			who = p.CustomerID
		}
		return Entry{
			Type:   "Peminjaman Buku",
			Detail: who + " - " + strings.Join(p.ISBNs, ", "),
			Status: "Dipinjam",
			At:     env.OccurredAt,
		}, true

	case library.EventCopyReturned:
		p, err := kafkax.UnwrapPayload[library.CopyReturnedPayload](env.Payload)
		if err != nil {
			return Entry{}, false
		}
		return Entry{
			Type:   "Pengembalian Buku",
			Detail: p.ISBN,
			Status: "Dikembalikan",
			At:     env.OccurredAt,
		}, true

	case library.EventFinePaid:
		p, err := kafkax.UnwrapPayload[library.FinePaidPayload](env.Payload)
		if err != nil {
			return Entry{}, false
		}
		return Entry{
			Type:   "Pembayaran Denda",
			Detail: fmt.Sprintf("Rp %d (%s)", p.Amount, p.Method),
			Status: "Lunas",
			At:     env.OccurredAt,
		}, true

	case library.EventMembershipPurchased:
		p, err := kafkax.UnwrapPayload[library.MembershipPurchasedPayload](env.Payload)
		if err != nil {
			return Entry{}, false
		}
		return Entry{
			Type:   "Transaksi Membership",
			Detail: p.CustomerID + " - " + p.Package,
			Status: "Berhasil",
			At:     env.OccurredAt,
		}, true
	}
	return Entry{}, false
}
