// sync-sweep runs one pull reconciliation over every connected Google
// Calendar account and exits. Meant to run from cron.
package main

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/InkLinkStudio/studio-crm/internal/config"
	dbpkg "github.com/InkLinkStudio/studio-crm/internal/db"
	"github.com/InkLinkStudio/studio-crm/internal/gcal"
	infraRepo "github.com/InkLinkStudio/studio-crm/internal/infra/repository"
	"github.com/InkLinkStudio/studio-crm/internal/synclock"
	ucSync "github.com/InkLinkStudio/studio-crm/internal/usecase/sync"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	locker := synclock.New(rdb, 5*time.Minute)

	reconciler := ucSync.NewReconciler(
		infraRepo.NewSyncStore(db),
		gcal.New(cfg),
		locker,
		cfg.SyncPastDays,
		cfg.SyncFutureDays,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := reconciler.SweepAll(ctx)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	log.Printf("sweep done: %d users, %d created, %d updated",
		len(result.Users), result.Created, result.Updated)
}
