package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"immunization_reporter/internal/app"
	"immunization_reporter/internal/domain/schoolyear"
	"immunization_reporter/internal/infra/config"
	idb "immunization_reporter/internal/infra/database"
	"immunization_reporter/internal/infra/email"
	"immunization_reporter/internal/infra/logger"
	"immunization_reporter/internal/infra/queries"

	"github.com/sirupsen/logrus"
)

const exitInterrupted = 130

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("immunization-reporter", flag.ContinueOnError)
	yearFlag := fs.Int("school-year", 0, "Override school year (default: current school year)")
	testEmail := fs.Bool("test-email", false, "Test email connection without sending report")
	testDB := fs.Bool("test-db", false, "Test database connection without running query")
	dryRun := fs.Bool("dry-run", false, "Run query but do not send email")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: could not load application configuration: %v\n", err)
		return 1
	}

	log := logger.New(cfg)
	log.Info("Starting immunization report automation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := time.Now()
	epoch := schoolyear.Epoch{Month: cfg.SchoolYearStartMonth, Day: cfg.SchoolYearStartDay}

	year := schoolyear.Current(now, epoch)
	if *yearFlag != 0 {
		year = schoolyear.Year(*yearFlag)
	}
	if !year.Valid(now) {
		log.Errorf("Invalid school year: %d", year)
		return 1
	}

	if *testDB || *testEmail {
		return runConnectionTests(ctx, cfg, log, *testDB, *testEmail)
	}

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Errorf("Could not connect to database: %v", err)
		return 1
	}
	client := idb.NewClient(db, log.WithField("component", "database"))
	defer client.Close()

	svc := app.NewReportService(
		client,
		email.NewSender(cfg, log.WithField("component", "email")),
		queries.NewLoader(cfg.QueryFile, log.WithField("component", "queries")),
		log.WithField("component", "report"),
	)

	if err := svc.Run(ctx, year, *dryRun); err != nil {
		if ctx.Err() != nil {
			log.Info("Process interrupted by user")
			return exitInterrupted
		}
		log.Errorf("Immunization report automation failed: %v", err)
		return 1
	}

	log.Info("Immunization report automation completed successfully")
	return 0
}

// runConnectionTests performs only the requested health checks. The mailer
// is constructed solely when --test-email asks for it.
func runConnectionTests(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger, testDB, testEmail bool) int {
	ok := true

	if testDB {
		log.Info("Testing database connection...")
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Errorf("Database connection test: FAILED: %v", err)
			ok = false
		} else {
			client := idb.NewClient(db, log.WithField("component", "database"))
			if err := client.TestConnection(ctx); err != nil {
				log.Errorf("Database connection test: FAILED: %v", err)
				ok = false
			} else {
				log.Info("Database connection test: PASSED")
			}
			client.Close()
		}
	}

	if testEmail {
		log.Info("Testing email connection...")
		sender := email.NewSender(cfg, log.WithField("component", "email"))
		if err := sender.TestConnection(ctx); err != nil {
			log.Errorf("Email connection test: FAILED: %v", err)
			ok = false
		} else {
			log.Info("Email connection test: PASSED")
		}
	}

	if !ok {
		return 1
	}
	return 0
}
