package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/prasetia/lending-engine/internal/config"
	"github.com/prasetia/lending-engine/internal/repository"
	"github.com/prasetia/lending-engine/internal/service"
)

func main() {
	log.Info().Msg("starting lending scheduler")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loanRepo := repository.NewLoanRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	snapshotCache := repository.NewSnapshotCache(redisClient)

	lendingService := service.NewLendingService(loanRepo, installmentRepo, paymentRepo, snapshotCache, cfg)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Scheduler.Timezone).Msg("falling back to local timezone")
		location = time.Local
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))
	setupCronJobs(c, cfg, lendingService)

	c.Start()
	log.Info().Msg("scheduler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down scheduler")
	<-c.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, lendingService *service.LendingService) {
	// Daily delinquency snapshot. Overdue stays a derived view over the
	// stored schedule; this job materialises it into the cache for the
	// reporting side, it never writes statuses back.
	_, err := c.AddFunc(cfg.Scheduler.SnapshotCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		snapshot, err := lendingService.BuildDelinquencySnapshot(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("delinquency snapshot job failed")
			return
		}
		log.Info().Int("overdue_count", snapshot.OverdueCount).
			Str("total_overdue", snapshot.TotalOverdue.String()).
			Str("total_penalty", snapshot.TotalPenalty.String()).
			Msg("delinquency snapshot written")
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to schedule delinquency snapshot job")
	}

	// Reminder candidates: log overdue installments for the notification
	// collaborators to pick up. Dispatch itself is owned elsewhere.
	_, err = c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		snapshot, err := lendingService.GetDelinquencySnapshot(ctx)
		if err != nil || snapshot == nil {
			log.Warn().Err(err).Msg("no delinquency snapshot for reminder job")
			return
		}
		for _, item := range snapshot.DelinquentList {
			log.Info().Str("loan_id", item.LoanID).Int("emi_number", item.EmiNumber).
				Int("days_overdue", item.DaysOverdue).
				Str("balance", item.Balance.String()).
				Msg("payment reminder candidate")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to schedule reminder job")
	}

	log.Info().Msg("cron jobs scheduled")
}
