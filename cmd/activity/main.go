package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ariefcatur/go-library-loans.git/internal/activity"
	"github.com/ariefcatur/go-library-loans.git/internal/config"
	kafkax "github.com/ariefcatur/go-library-loans.git/internal/kafka"
	"github.com/ariefcatur/go-library-loans.git/internal/library"
	"github.com/ariefcatur/go-library-loans.git/internal/redisx"
	"github.com/joho/godotenv"
)

// Worker feed aktivitas: consume event library.* lalu dorong ke list Redis
// yang dibaca endpoint /dashboard.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &activity.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-activity",
	}

	topics := []string{
		library.TopicLoanOpened,
		library.TopicCopyReturned,
		library.TopicFinePaid,
		library.TopicMembershipPurchased,
	}

	var wg sync.WaitGroup
	for _, topic := range topics {
		c := kafkax.NewConsumer(cfg.KafkaBrokers, "library-activity", topic, 4)
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			log.Printf("consuming %s", topic)
			if err := c.Start(ctx, svc.HandleEvent); err != nil {
				log.Printf("consumer %s stopped: %v", topic, err)
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	cancel()
	wg.Wait()
}
