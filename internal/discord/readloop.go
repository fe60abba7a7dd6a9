package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errReconnect = errors.New("discord: gateway requested reconnect")

func (g *Gateway) readLoop(ctx context.Context) {
	defer func() {
		g.closed.Store(true)
		g.closeConn()
		if g.OnDisconnected != nil {
			g.OnDisconnected()
		}
	}()

	// закрыть по отмене контекста
	go func() {
		<-ctx.Done()
		g.closed.Store(true)
		g.closeConn()
	}()

	backoff := time.Second

	for {
		if conn := g.currentConn(); conn != nil {
			var ev event
			err := conn.ReadJSON(&ev)
			if err == nil {
				if !g.handle(ev) {
					backoff = time.Second
					continue
				}
				err = errReconnect
			}
			if g.closed.Load() {
				return
			}
			g.onError(err)
		}
		if g.closed.Load() {
			return
		}

		g.closeConn()

		// реконнект с backoff
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if g.closed.Load() {
				return
			}
			if err := g.dialAndSetup(ctx); err != nil {
				g.onError(fmt.Errorf("reconnect failed (wait %v): %w", backoff, err))
				if backoff < 30*time.Second {
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
				}
				continue
			}
			g.log.Info().Msg("gateway reconnected")
			break
		}
	}
}

// handle обрабатывает одно событие; true — нужно переподключиться.
func (g *Gateway) handle(ev event) bool {
	if ev.S != nil {
		g.seq.Store(*ev.S)
	}

	switch ev.Op {
	case opDispatch:
		if ev.T != "READY" {
			return false
		}
		var r readyData
		if err := json.Unmarshal(ev.D, &r); err != nil {
			g.onError(fmt.Errorf("decode READY: %w", err))
			return false
		}
		g.log.Info().Str("user", r.User.Username).Str("session", r.SessionID).Msg("gateway ready")
		if g.OnReady != nil {
			g.OnReady(r.User)
		}

	case opHeartbeat:
		if err := g.heartbeat(); err != nil {
			g.onError(err)
		}

	case opHeartbeatAck:
		g.acked.Store(true)

	case opReconnect, opInvalidSession:
		return true
	}
	return false
}

func (g *Gateway) onError(err error) {
	g.log.Warn().Err(err).Msg("gateway error")
	if g.OnError != nil {
		g.OnError(err)
	}
}
