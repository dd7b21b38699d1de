package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicboard/scheduling-service/internal/adapters/database"
	"github.com/clinicboard/scheduling-service/internal/adapters/events"
	"github.com/clinicboard/scheduling-service/internal/application/services"
	domainservices "github.com/clinicboard/scheduling-service/internal/domain/services"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/clients/postgres"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/clients/redis"
	"github.com/clinicboard/scheduling-service/internal/infrastructure/observability"
	"github.com/clinicboard/scheduling-service/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.App.ServiceName, cfg.App.Environment)

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer pgClient.Close()

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	appointmentRepo := database.NewAppointmentAdapter(pgClient)
	patientRepo := database.NewPatientAdapter(pgClient)
	publisher := events.NewRedisEventBus(redisClient, cfg.Events.Channel)
	availability := domainservices.NewAvailabilityService()

	scheduling := services.NewSchedulingService(appointmentRepo, patientRepo, availability, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runNoShowSweeper(ctx, scheduling)

	log.Info().
		Str("events_channel", cfg.Events.Channel).
		Msg("scheduling service ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	log.Info().Msg("shutting down scheduling service")
}

// runNoShowSweeper periodically flags missed appointments once their
// grace period has elapsed.
func runNoShowSweeper(ctx context.Context, scheduling *services.SchedulingService) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			marked, err := scheduling.SweepNoShows(ctx)
			if err != nil {
				log.Error().Err(err).Msg("no-show sweep failed")
				continue
			}
			if marked > 0 {
				log.Info().Int("marked", marked).Msg("flagged no-show appointments")
			}
		}
	}
}
