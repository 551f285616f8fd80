package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sort"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/common"
	repo "github.com/joseph-ayodele/doc2json/internal/repository"
)

func main() {
	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if cfg.Jobs.DBPath == "" {
		log.Println("ERROR: jobs.db_path is not configured")
		log.Println("  mac/Linux (bash/zsh): export DOC2JSON_JOBS_DB_PATH=./doc2json.db")
		log.Println("  Windows (PowerShell): $env:DOC2JSON_JOBS_DB_PATH='./doc2json.db'")
		os.Exit(2)
	}
	if _, err := os.Stat(cfg.Jobs.DBPath); err != nil {
		log.Fatalf("ledger %s: %v", cfg.Jobs.DBPath, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repo.Open(ctx, cfg.Jobs.DBPath, nil)
	if err != nil {
		log.Fatalf("DB health: FAIL (%v)", err)
	}
	defer repo.Close(db, nil)
	log.Println("DB health: OK")

	jobs, err := repo.NewJobRepository(db, nil).List(ctx)
	if err != nil {
		log.Fatalf("listing jobs: %v", err)
	}

	counts := map[constants.JobStatus]int{}
	for _, j := range jobs {
		counts[j.Status]++
	}
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)

	log.Printf("jobs count: %d", len(jobs))
	for _, s := range statuses {
		log.Printf("- %s: %d", s, counts[constants.JobStatus(s)])
	}
	for _, j := range jobs {
		if j.Status == constants.JobStatusFailed {
			log.Printf("  failed [%s] %s at %s: %s", j.ID, j.SourcePath, j.Stage, j.ErrorMessage)
		}
	}
}
