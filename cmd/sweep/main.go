// Command sweep applies the event lifecycle once and exits. It is meant to be
// run from cron.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"esport-events-backend/internal/config"
	"esport-events-backend/internal/repositories"
	"esport-events-backend/internal/services"
	"esport-events-backend/pkg/database"
	"esport-events-backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

type changeLine struct {
	EventID string `json:"event_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type report struct {
	At      time.Time             `json:"at"`
	DryRun  bool                  `json:"dry_run"`
	Result  *services.SweepResult `json:"result"`
	Changes []changeLine          `json:"changes,omitempty"`
}

func main() {
	var (
		at      string
		dryRun  bool
		verbose bool
	)
	flag.StringVar(&at, "at", "", "reference time in RFC3339 (default: now)")
	flag.BoolVarP(&dryRun, "dry-run", "n", false, "compute the changes without saving them")
	flag.BoolVarP(&verbose, "verbose", "v", false, "list every status change")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debugf(".env file not found: %v", err)
	}

	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.Env)

	now := time.Now()
	if at != "" {
		now, err = time.Parse(time.RFC3339, at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --at %q: %v\n", at, err)
			os.Exit(2)
		}
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logrus.Fatalf("Database connection error: %v", err)
	}

	lifecycle := services.NewLifecycleService(repositories.NewRepository(db)).
		WithClock(func() time.Time { return now })

	var result *services.SweepResult
	if dryRun {
		result, err = lifecycle.Preview()
	} else {
		result, err = lifecycle.UpdateAll()
	}
	if err != nil {
		logrus.WithError(err).Fatal("status sweep failed")
	}

	out := report{At: now, DryRun: dryRun, Result: result}
	if verbose || dryRun {
		for _, change := range result.Changes {
			out.Changes = append(out.Changes, changeLine{
				EventID: change.EventID.String(),
				From:    string(change.From),
				To:      string(change.To),
			})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logrus.WithError(err).Fatal("failed to write report")
	}
}
