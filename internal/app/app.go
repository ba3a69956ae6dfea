// Package app wires configuration, adapters and services into a running
// assistant shared by the HTTP server and the terminal front end.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/chikitsamitra/internal/adapters/cache"
	"github.com/zatekoja/chikitsamitra/internal/adapters/directory"
	"github.com/zatekoja/chikitsamitra/internal/adapters/events"
	"github.com/zatekoja/chikitsamitra/internal/adapters/speech"
	"github.com/zatekoja/chikitsamitra/internal/adapters/storage"
	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	redisclient "github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/redis"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	"github.com/zatekoja/chikitsamitra/internal/knowledge"
	"github.com/zatekoja/chikitsamitra/pkg/config"
)

// Options tunes what New wires
type Options struct {
	// Speech enables the configured speech commands on this host
	Speech bool
}

// App holds the wired assistant
type App struct {
	Config  *config.Config
	Metrics *observability.Metrics

	Redis  *redisclient.Client
	Cache  providers.CacheProvider
	Events providers.EventBus

	Directory    *services.DirectoryService
	Chat         *services.ChatService
	Verification *services.PhoneVerification
	Bookings     *services.BookingService
	Appointment  *services.SelectorController
	Finder       *services.SelectorController

	health  map[string]func(ctx context.Context) error
	closers []func() error
}

// New builds the assistant described by cfg. Redis is optional unless the
// redis storage backend is selected; a failed connection otherwise only
// disables the features that need it.
func New(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, opts Options) (*App, error) {
	a := &App{
		Config:  cfg,
		Metrics: metrics,
		health:  make(map[string]func(ctx context.Context) error),
	}

	table, err := knowledge.Load(cfg.Knowledge.TablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge table: %w", err)
	}
	log.Info().Int("entries", table.Len()).Msg("knowledge table loaded")

	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			if cfg.Storage.Backend == config.StorageRedis {
				return nil, err
			}
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache and shared events")
		} else {
			a.Redis = client
			a.Cache = cache.NewRedisAdapter(client)
			a.closers = append(a.closers, client.Close)
			a.health["redis"] = client.Ping
		}
	}

	if a.Redis != nil {
		a.Events = events.NewRedisEventBus(a.Redis)
	} else {
		a.Events = events.NewMemoryEventBus()
	}
	a.closers = append(a.closers, a.Events.Close)

	store, closeStore, err := storage.NewKeyValueStore(ctx, cfg, storage.Dependencies{Redis: a.Redis})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	a.closers = append(a.closers, closeStore)

	transport, err := directory.NewTransport(&cfg.Directory, a.Cache, metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	if cfg.Directory.Transport == config.TransportSheets && cfg.Directory.SheetsExecURL == "" {
		log.Warn().Msg("APPS_SCRIPT_EXEC_URL is not set; directory lists will be empty")
	}

	a.Directory = services.NewDirectoryService(transport.Directory, metrics)

	var tts providers.TextToSpeech
	var stt providers.SpeechToText
	if opts.Speech && cfg.Speech.Enabled {
		speaker := speech.NewCommandSpeaker(cfg.Speech.TTSCommand)
		if speaker.Available() {
			tts = speaker
		} else {
			log.Info().Str("command", cfg.Speech.TTSCommand).Msg("text-to-speech command not found, replies will not be spoken")
		}
		transcriber := speech.NewCommandTranscriber(cfg.Speech.STTCommand)
		if transcriber.Available() {
			stt = transcriber
		}
	}
	a.Chat = services.NewChatService(services.NewResponseResolver(table), tts, stt, metrics)

	a.Verification = services.NewPhoneVerification(services.RandomCode, a.Events)

	a.Appointment = services.NewSelectorController(services.SelectorGroupAppointment, services.AppointmentSelectorLayout, a.Directory, a.Events)
	a.Finder = services.NewSelectorController(services.SelectorGroupFinder, services.FinderSelectorLayout, a.Directory, a.Events)

	bookingOpts := []services.BookingServiceOption{
		services.WithBookingEvents(a.Events),
		services.WithBookingSelector(a.Appointment),
		services.WithBookingMetrics(metrics),
	}
	if transport.Mirror != nil {
		bookingOpts = append(bookingOpts, services.WithBookingMirror(transport.Mirror))
	}
	a.Bookings = services.NewBookingService(
		storage.NewBookingAdapter(store, cfg.Storage.BookingsKey),
		a.Verification,
		cfg.Booking.WindowDays,
		bookingOpts...,
	)

	log.Info().
		Str("transport", transport.Directory.Name()).
		Str("storage", cfg.Storage.Backend).
		Bool("redis", a.Redis != nil).
		Bool("speech_out", tts != nil).
		Bool("speech_in", stt != nil).
		Msg("assistant wired")

	return a, nil
}

// HealthChecks returns the dependency probes worth reporting
func (a *App) HealthChecks() map[string]func(ctx context.Context) error {
	return a.health
}

// Close waits for booking mirrors in flight and releases every connection
func (a *App) Close() error {
	if a.Bookings != nil {
		a.Bookings.WaitForMirrors()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
