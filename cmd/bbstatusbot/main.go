package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/EgorLis/bbstatusbot/internal/bbapi"
	"github.com/EgorLis/bbstatusbot/internal/bot"
	"github.com/EgorLis/bbstatusbot/internal/config"
	"github.com/EgorLis/bbstatusbot/internal/discord"
	"github.com/EgorLis/bbstatusbot/internal/health"
	"github.com/EgorLis/bbstatusbot/internal/logging"
	"github.com/EgorLis/bbstatusbot/internal/render"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "path to config.yaml")
	flag.Parse()

	log := logging.New(os.Stderr, config.DefaultLogLevel)

	if err := config.LoadDotEnv(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}

	// битый файл — не повод падать, работаем на значениях по умолчанию
	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		log.Error().Err(err).Str("path", *cfgPath).Msg("error in config file")
		log.Warn().Msg("changing back to default..")
	}
	config.ApplyEnv(&cfg, os.LookupEnv)

	if err := config.Save(*cfgPath, cfg); err != nil {
		log.Warn().Err(err).Str("path", *cfgPath).Msg("failed to store config")
	}

	if err := config.Validate(&cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(&cfg)

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	renderer, err := render.New(render.Options{
		MapURLTemplate: cfg.MapURLTemplate,
		BasePath:       cfg.BaseImagePath,
		CompositePath:  cfg.CompositeImagePath,
		Brightness:     *cfg.Brightness,
		Gamemodes:      cfg.Gamemodes,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("renderer init failed")
	}

	gw := discord.NewGateway(cfg.Token, log)
	session := &discord.Session{
		Gateway: gw,
		REST:    discord.NewREST(cfg.Token, cfg.ProfileEditInterval),
	}

	// одна отметка на цикл опроса и проверку живости
	stamp := &health.Stamp{}
	reporter := health.NewReporter(stamp, health.SystemClock, cfg.StaleAfterMinutes, log)

	b := bot.New(
		bot.Options{
			ServerName:   cfg.ServerName,
			SetBanner:    cfg.SetBannerImage,
			Interval:     cfg.PollInterval,
			LivenessAddr: cfg.LivenessAddr,
		},
		bbapi.NewClient(cfg.DirectoryURL, log),
		renderer,
		bot.NewPublisher(session, log),
		stamp,
		reporter,
		bot.SystemClock,
		log,
	)

	gw.OnConnecting = func() { log.Info().Msg("connecting to discord...") }
	gw.OnReady = b.OnReady(ctx)
	gw.OnDisconnected = func() { log.Info().Msg("disconnected from discord") }

	if err := gw.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("client error")
	}

	log.Info().Msg("running… press Ctrl+C to stop")
	<-ctx.Done()

	gw.Disconnect()
	b.Wait()
}
