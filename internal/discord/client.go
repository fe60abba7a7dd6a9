package discord

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// DefaultGatewayURL — шлюз Discord, API v10, JSON.
const DefaultGatewayURL = "wss://gateway.discord.gg/?v=10&encoding=json"

var ErrNotConnected = errors.New("discord: gateway not connected")

type Gateway struct {
	url   string
	token string
	log   zerolog.Logger

	conn   *websocket.Conn
	closed atomic.Bool

	wmu    sync.Mutex    // сериализует запись в websocket и смену conn
	hbStop chan struct{} // стоп-канал heartbeat-горутины
	seq    atomic.Int64  // последний номер dispatch, 0 — ещё не было
	acked  atomic.Bool   // пришёл ли ack на последний heartbeat

	pmu      sync.Mutex
	presence *Presence // последняя активность, уходит в Identify при реконнекте

	// "События"
	OnConnecting   func()
	OnReady        func(User)
	OnDisconnected func()
	OnError        func(error)
}

func NewGateway(token string, log zerolog.Logger) *Gateway {
	return &Gateway{
		url:   DefaultGatewayURL,
		token: token,
		log:   log.With().Str("component", "gateway").Logger(),
	}
}

// SetURL меняет адрес шлюза (до Connect).
func (g *Gateway) SetURL(url string) {
	g.url = url
}

// Connect — подключается, проходит Hello/Identify и запускает readLoop.
// Отмена ctx закрывает соединение и останавливает реконнект.
func (g *Gateway) Connect(ctx context.Context) error {
	if g.OnConnecting != nil {
		g.OnConnecting()
	}
	g.closed.Store(false)
	if err := g.dialAndSetup(ctx); err != nil {
		return err
	}
	go g.readLoop(ctx)
	return nil
}

func (g *Gateway) Disconnect() {
	g.closed.Store(true)
	g.closeConn()
}

func (g *Gateway) IsConnected() bool {
	g.wmu.Lock()
	defer g.wmu.Unlock()
	return g.conn != nil && !g.closed.Load()
}

// SetActivity выставляет "Играет в <text>". Без соединения активность
// запоминается и уйдёт при следующем Identify.
func (g *Gateway) SetActivity(text string) error {
	p := playing(text)

	g.pmu.Lock()
	g.presence = p
	g.pmu.Unlock()

	return g.send(opPresenceUpdate, p)
}

func (g *Gateway) currentPresence() *Presence {
	g.pmu.Lock()
	defer g.pmu.Unlock()
	return g.presence
}
