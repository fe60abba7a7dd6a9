package bbapi

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultURL — публичный список серверов BattleBit.
const DefaultURL = "https://publicapi.battlebit.cloud/Servers/GetServerList"

type Client struct {
	http *http.Client
	url  string
	log  zerolog.Logger
}

// Server — одна запись из списка серверов. Имена полей в JSON с большой буквы.
type Server struct {
	Name         string `json:"Name"`
	Map          string `json:"Map"`
	MapSize      string `json:"MapSize"`
	Gamemode     string `json:"Gamemode"`
	Region       string `json:"Region"`
	Players      int64  `json:"Players"`
	QueuePlayers int64  `json:"QueuePlayers"`
	MaxPlayers   int64  `json:"MaxPlayers"`
	Hz           int64  `json:"Hz"`
	DayNight     string `json:"DayNight"`
	IsOfficial   bool   `json:"IsOfficial"`
	HasPassword  bool   `json:"HasPassword"`
	AntiCheat    string `json:"AntiCheat"`
	Build        string `json:"Build"`
}

// Создает клиент для списка серверов; пустой url — DefaultURL
func NewClient(url string, log zerolog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		http: &http.Client{Timeout: 10 * time.Second},
		url:  url,
		log:  log.With().Str("component", "bbapi").Logger(),
	}
}

// URL возвращает адрес, который опрашивает клиент
func (c *Client) URL() string {
	return c.url
}
