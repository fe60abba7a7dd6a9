package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// ========================= low-level =========================

// dial, ожидание Hello, запуск heartbeat и Identify
func (g *Gateway) dialAndSetup(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, g.url, nil)
	if err != nil {
		return err
	}
	conn.SetReadLimit(16 << 20)

	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var hello event
	if err := conn.ReadJSON(&hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("read hello: %w", err)
	}
	if hello.Op != opHello {
		_ = conn.Close()
		return fmt.Errorf("expected hello, got op %d", hello.Op)
	}
	var h helloData
	if err := json.Unmarshal(hello.D, &h); err != nil || h.HeartbeatInterval <= 0 {
		_ = conn.Close()
		return fmt.Errorf("bad hello payload: %s", hello.D)
	}
	// дальше дедлайн держит heartbeat
	_ = conn.SetReadDeadline(time.Time{})

	g.wmu.Lock()
	g.conn = conn
	g.wmu.Unlock()

	g.acked.Store(true)
	g.startHeartbeat(time.Duration(h.HeartbeatInterval) * time.Millisecond)

	if err := g.send(opIdentify, newIdentify(g.token, g.currentPresence())); err != nil {
		g.closeConn()
		return fmt.Errorf("identify: %w", err)
	}
	return nil
}

func (g *Gateway) send(op int, d any) error {
	g.wmu.Lock()
	defer g.wmu.Unlock()
	if g.conn == nil {
		return ErrNotConnected
	}
	_ = g.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return g.conn.WriteJSON(frame{Op: op, D: d})
}

func (g *Gateway) heartbeat() error {
	var d any
	if s := g.seq.Load(); s > 0 {
		d = s
	}
	return g.send(opHeartbeat, d)
}

// безопасно закрыть текущее соединение
func (g *Gateway) closeConn() {
	g.stopHeartbeat()

	g.wmu.Lock()
	defer g.wmu.Unlock()
	if g.conn != nil {
		_ = g.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
			time.Now().Add(500*time.Millisecond))
		_ = g.conn.Close()
		g.conn = nil
	}
}

func (g *Gateway) currentConn() *websocket.Conn {
	g.wmu.Lock()
	defer g.wmu.Unlock()
	return g.conn
}

func (g *Gateway) startHeartbeat(interval time.Duration) {
	g.stopHeartbeat()

	g.wmu.Lock()
	stop := make(chan struct{})
	g.hbStop = stop
	g.wmu.Unlock()

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				// ack на прошлый heartbeat не пришёл — соединение зависло, readLoop переподключится
				if !g.acked.Swap(false) {
					g.log.Warn().Msg("heartbeat not acknowledged, closing connection")
					g.closeConn()
					return
				}
				if err := g.heartbeat(); err != nil {
					g.log.Warn().Err(err).Msg("heartbeat failed")
				}
			}
		}
	}()
}

func (g *Gateway) stopHeartbeat() {
	g.wmu.Lock()
	defer g.wmu.Unlock()
	if g.hbStop != nil {
		close(g.hbStop)
		g.hbStop = nil
	}
}
