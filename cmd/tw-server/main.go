package main

import (
	"context"
	"flag"
	"log/slog"
	"time"
	"trackwrestling-backend/internal/components/chrono"
	"trackwrestling-backend/internal/components/telemetry"
	"trackwrestling-backend/lib/configutil"
	"trackwrestling-backend/lib/restyutil"
	"trackwrestling-backend/lib/scrapers/trackwrestling/core"
	otelsetup "trackwrestling-backend/lib/telemetry"
	"trackwrestling-backend/lib/util/serviceutil"
	"trackwrestling-backend/services/matchwatch"
	"trackwrestling-backend/services/trackwrestling"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the json5 config, <name>.local.json5 overrides it.")
	flag.Parse()

	otelsetup.InitSlog(*verbose)
	ctx := serviceutil.SignalContext()

	otel, err := otelsetup.SetupFromEnv(ctx, "tw-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer otel.Shutdown(context.Background())
	otelsetup.InstrumentPerfStats(ctx)

	cfg, err := configutil.ReadConfigWithDefaults(*configPath, defaultConfig)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		serviceutil.Fatal("load timezone", err)
	}
	clock := chrono.NewStandardTime(location)
	tel := telemetry.SlogAPI{}

	clientOpts := core.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           cfg.requestTimeout(),
	}
	if *verbose {
		output, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			serviceutil.Fatal("create http dump directory", err)
		}
		clientOpts.Output = output
	}

	pool, err := trackwrestling.NewClientPool(trackwrestling.PoolOptions{
		Client:           clientOpts,
		SessionTTL:       cfg.sessionTtl(),
		SessionCacheSize: cfg.SessionCacheSize,
	}, clock, tel)
	if err != nil {
		serviceutil.Fatal("create trackwrestling client", err)
	}

	cron := chrono.NewStandardCron(tel, location)
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := cron.Stop(stopCtx)
		if err != nil {
			slog.Warn("stop cron", "err", err)
		}
	}()

	watcher := matchwatch.NewWatcher(pool, cfg.Watch.notifier(), matchwatch.Options{
		Schedule:        cfg.Watch.Schedule,
		Tournaments:     cfg.Watch.Tournaments,
		Follow:          cfg.Watch.Follow,
		FollowThreshold: cfg.Watch.FollowThreshold,
	}, tel)
	err = watcher.Start(ctx, cron)
	if err != nil {
		serviceutil.Fatal("start match watcher", err)
	}
	if len(cfg.Watch.Tournaments) > 0 {
		slog.Info("watching mat assignments", "tournaments", len(cfg.Watch.Tournaments), "schedule", cfg.Watch.Schedule)
	}

	service := trackwrestling.NewService(pool, tel)
	err = serviceutil.StartHttpServer(ctx, cfg.Port, service.Router())
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}
