package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/EgorLis/bbstatusbot/internal/bbapi"
	"github.com/EgorLis/bbstatusbot/internal/discord"
	"github.com/EgorLis/bbstatusbot/internal/health"
	"github.com/EgorLis/bbstatusbot/internal/render"
)

// Directory — источник списка серверов.
type Directory interface {
	FetchServers(ctx context.Context) ([]bbapi.Server, error)
}

// Renderer — рисует картинки для профиля.
type Renderer interface {
	Render(ctx context.Context, s bbapi.Server) (render.Result, error)
}

// Clock — время и ожидание между тиками; в тестах подменяется.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock — настоящее время.
var SystemClock Clock = systemClock{}

type Options struct {
	ServerName   string
	SetBanner    bool
	Interval     time.Duration
	LivenessAddr string
}

type StatusBot struct {
	opts Options

	dir       Directory
	renderer  Renderer
	publisher *Publisher
	stamp     *health.Stamp
	reporter  *health.Reporter
	clock     Clock
	log       zerolog.Logger

	startOnce sync.Once
	wg        sync.WaitGroup
}

// New собирает бота. stamp общий для цикла опроса и reporter.
func New(opts Options, dir Directory, renderer Renderer, publisher *Publisher,
	stamp *health.Stamp, reporter *health.Reporter, clock Clock, log zerolog.Logger) *StatusBot {
	if clock == nil {
		clock = SystemClock
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	return &StatusBot{
		opts:      opts,
		dir:       dir,
		renderer:  renderer,
		publisher: publisher,
		stamp:     stamp,
		reporter:  reporter,
		clock:     clock,
		log:       log.With().Str("component", "bot").Logger(),
	}
}

// OnReady — колбэк для шлюза: на первом READY запускает фоновые задачи.
func (bot *StatusBot) OnReady(ctx context.Context) func(discord.User) {
	return func(u discord.User) {
		bot.log.Info().Str("user", u.Username).Str("server", bot.opts.ServerName).Msg("logged in, monitoring server")
		bot.Start(ctx)
	}
}

// Start запускает проверку живости и цикл опроса. Повторные вызовы ничего не делают.
func (bot *StatusBot) Start(ctx context.Context) {
	bot.startOnce.Do(func() {
		if bot.reporter != nil {
			bot.wg.Add(1)
			go func() {
				defer bot.wg.Done()
				if err := bot.reporter.Serve(ctx, bot.opts.LivenessAddr); err != nil {
					bot.log.Error().Err(err).Msg("liveness listener stopped")
				}
			}()
		}

		bot.wg.Add(1)
		go func() {
			defer bot.wg.Done()
			bot.Run(ctx)
		}()
	})
}

// Wait ждёт остановки фоновых задач (после отмены ctx).
func (bot *StatusBot) Wait() {
	bot.wg.Wait()
}

// Run — тик, пауза Interval, снова тик, пока не отменят ctx.
func (bot *StatusBot) Run(ctx context.Context) {
	for {
		tickLog := bot.log.With().Str("tick", uuid.NewString()).Logger()
		if err := bot.Tick(tickLog.WithContext(ctx)); err != nil {
			tickLog.Error().Err(err).Msg("cant get new stats")
		}

		select {
		case <-ctx.Done():
			return
		case <-bot.clock.After(bot.opts.Interval):
		}
	}
}

// Tick — один проход: список -> поиск -> картинка -> статус.
// Отметка времени обновляется при любом исходе.
func (bot *StatusBot) Tick(ctx context.Context) error {
	defer func() {
		bot.stamp.Mark(bot.clock.Now())
	}()

	servers, err := bot.dir.FetchServers(ctx)
	var s bbapi.Server
	if err == nil {
		s, err = bbapi.Find(servers, bot.opts.ServerName)
	}
	if err != nil {
		if perr := bot.publisher.Publish(ctx, nil, nil, false); perr != nil {
			return errors.Join(err, perr)
		}
		return err
	}

	res, err := bot.renderer.Render(ctx, s)
	if err != nil {
		return err
	}

	return bot.publisher.Publish(ctx, &s, &res, bot.opts.SetBanner)
}
