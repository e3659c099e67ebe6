package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-library-loans.git/internal/config"
	"github.com/ariefcatur/go-library-loans.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-library-loans.git/internal/kafka"
	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/ariefcatur/go-library-loans.git/internal/postgres"
	"github.com/ariefcatur/go-library-loans.git/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, satu per topic
	producers := map[string]*kafkax.Producer{
		library.TopicLoanOpened:          kafkax.NewProducer(cfg.KafkaBrokers, library.TopicLoanOpened, 1024),
		library.TopicCopyReturned:        kafkax.NewProducer(cfg.KafkaBrokers, library.TopicCopyReturned, 1024),
		library.TopicFinesGenerated:      kafkax.NewProducer(cfg.KafkaBrokers, library.TopicFinesGenerated, 1024),
		library.TopicFinePaid:            kafkax.NewProducer(cfg.KafkaBrokers, library.TopicFinePaid, 1024),
		library.TopicMembershipPurchased: kafkax.NewProducer(cfg.KafkaBrokers, library.TopicMembershipPurchased, 1024),
		library.TopicMembershipExtended:  kafkax.NewProducer(cfg.KafkaBrokers, library.TopicMembershipExtended, 1024),
	}
	for _, p := range producers {
		p.Start(ctx)
	}

	// Repos & handlers
	router := httpx.NewRouter()

	lh := &httpx.LoansHandler{
		Loans:            &library.LoanRepo{DB: db},
		ProducerOpened:   producers[library.TopicLoanOpened],
		ProducerReturned: producers[library.TopicCopyReturned],
		Redis:            rdb,
		Service:          cfg.ServiceName,
		BorrowDays:       cfg.BorrowDays,
	}
	lh.Register(router)

	fh := &httpx.FinesHandler{
		Fines:             &library.FineRepo{DB: db},
		ProducerGenerated: producers[library.TopicFinesGenerated],
		ProducerPaid:      producers[library.TopicFinePaid],
		Service:           cfg.ServiceName,
		RatePerDay:        cfg.FinePerDay,
	}
	fh.Register(router)

	mh := &httpx.MembershipsHandler{
		Memberships:       &library.MembershipRepo{DB: db},
		ProducerPurchased: producers[library.TopicMembershipPurchased],
		ProducerExtended:  producers[library.TopicMembershipExtended],
		Service:           cfg.ServiceName,
		ExpiringWindow:    cfg.ExpiringWindowDays,
	}
	mh.Register(router)

	(&httpx.CatalogHandler{Catalog: &library.CatalogRepo{DB: db}}).Register(router)
	(&httpx.CustomersHandler{Customers: &library.CustomerRepo{DB: db}}).Register(router)
	(&httpx.DashboardHandler{Dashboard: &library.DashboardRepo{DB: db}, Redis: rdb}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // tutup inbox -> flush & close writer
	}
	cancel()
	for _, p := range producers {
		p.WaitClosed()
	}
}
