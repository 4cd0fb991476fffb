// cmd/syncraces/main.go
// One-shot sync of a day's race program into the database.
//
// Usage:
//
//	go run ./cmd/syncraces -date 2026-08-30
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/turfnote/turfapi/config"
	bundb "github.com/turfnote/turfapi/db"
	"github.com/turfnote/turfapi/ingest"
	applog "github.com/turfnote/turfapi/logger"
	"github.com/turfnote/turfapi/pmu"
	"github.com/turfnote/turfapi/settlement"
	"github.com/turfnote/turfapi/store"
)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "program date, YYYY-MM-DD")
	flag.Parse()

	if _, err := time.Parse("2006-01-02", *date); err != nil {
		log.Fatal("-date must be YYYY-MM-DD")
	}

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(context.Background(), db); err != nil {
		log.Fatal("create tables:", err)
	}

	client := pmu.NewClient(cfg.PMUBaseURL, cfg.PMUFetchTimeout, logger)
	svc := ingest.New(client, store.New(db), settlement.NewReportStore(db, logger), logger)
	svc.FetchDelay = cfg.PMUFetchDelay

	res := svc.SyncProgramByDate(context.Background(), *date)
	fmt.Printf("sync %s: %s\n", *date, res.Summary())
	for _, e := range res.Errors {
		fmt.Println("  error:", e)
	}
}
