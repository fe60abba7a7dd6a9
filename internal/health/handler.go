package health

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	DefaultAddr       = "0.0.0.0:3030"
	DefaultStaleAfter = 5 // минут
)

type Reporter struct {
	stamp      *Stamp
	clock      Clock
	staleAfter int64
	log        zerolog.Logger
}

func NewReporter(stamp *Stamp, clock Clock, staleAfter int64, log zerolog.Logger) *Reporter {
	if clock == nil {
		clock = SystemClock
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Reporter{
		stamp:      stamp,
		clock:      clock,
		staleAfter: staleAfter,
		log:        log.With().Str("component", "health").Logger(),
	}
}

// Status — тело и код ответа для текущего момента.
func (r *Reporter) Status() (int, string) {
	stale := r.stamp.Staleness(r.clock.Now())
	code := http.StatusOK
	if stale > r.staleAfter {
		code = http.StatusServiceUnavailable
	}
	return code, strconv.FormatInt(stale, 10)
}

// Handler отвечает на любой метод и путь.
func (r *Reporter) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())
	e.NoRoute(func(c *gin.Context) {
		code, body := r.Status()
		c.String(code, body)
	})
	return e
}

// Serve слушает addr, пока не отменят ctx.
func (r *Reporter) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	r.log.Info().Str("addr", addr).Msg("liveness listener started")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
