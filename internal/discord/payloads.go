package discord

import (
	"encoding/json"
	"runtime"
)

// коды операций шлюза
const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opPresenceUpdate = 3
	opReconnect      = 7
	opInvalidSession = 9
	opHello          = 10
	opHeartbeatAck   = 11
)

// ActivityPlaying — тип активности "Играет в".
const ActivityPlaying = 0

// исходящий кадр
type frame struct {
	Op int `json:"op"`
	D  any `json:"d"`
}

// входящее событие
type event struct {
	Op int             `json:"op"`
	D  json.RawMessage `json:"d"`
	S  *int64          `json:"s"`
	T  string          `json:"t"`
}

type helloData struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type readyData struct {
	User      User   `json:"user"`
	SessionID string `json:"session_id"`
}

type Activity struct {
	Name string `json:"name"`
	Type int    `json:"type"`
}

type Presence struct {
	Since      *int64     `json:"since"`
	Activities []Activity `json:"activities"`
	Status     string     `json:"status"`
	AFK        bool       `json:"afk"`
}

type identifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type identifyData struct {
	Token      string             `json:"token"`
	Intents    int                `json:"intents"`
	Properties identifyProperties `json:"properties"`
	Presence   *Presence          `json:"presence,omitempty"`
}

func playing(text string) *Presence {
	return &Presence{
		Activities: []Activity{{Name: text, Type: ActivityPlaying}},
		Status:     "online",
	}
}

func newIdentify(token string, p *Presence) identifyData {
	return identifyData{
		Token:   token,
		Intents: 0,
		Properties: identifyProperties{
			OS:      runtime.GOOS,
			Browser: "bbstatusbot",
			Device:  "bbstatusbot",
		},
		Presence: p,
	}
}
