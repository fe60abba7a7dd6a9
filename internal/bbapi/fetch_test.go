package bbapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = `[
	{"Name":"Foo","Map":"Old_Cobalt","MapSize":"Big","Gamemode":"CONQ","Region":"Europe_Central",
	 "Players":10,"QueuePlayers":2,"MaxPlayers":64,"Hz":60,"DayNight":"Day",
	 "IsOfficial":true,"HasPassword":false,"AntiCheat":"EAC","Build":"2.1.1"},
	{"Name":"Bar","Map":"Azagor","Players":1,"MaxPlayers":32}
]`

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchServers_Success(t *testing.T) {
	srv := newServer(t, http.StatusOK, sampleList)
	c := NewClient(srv.URL, zerolog.Nop())

	servers, err := c.FetchServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)

	foo := servers[0]
	assert.Equal(t, "Foo", foo.Name)
	assert.Equal(t, "Old_Cobalt", foo.Map)
	assert.Equal(t, "Big", foo.MapSize)
	assert.Equal(t, "CONQ", foo.Gamemode)
	assert.Equal(t, int64(10), foo.Players)
	assert.Equal(t, int64(2), foo.QueuePlayers)
	assert.Equal(t, int64(64), foo.MaxPlayers)
	assert.Equal(t, int64(60), foo.Hz)
	assert.True(t, foo.IsOfficial)
	assert.False(t, foo.HasPassword)
	assert.Equal(t, "EAC", foo.AntiCheat)
}

func TestFetchServers_StripsBOM(t *testing.T) {
	srv := newServer(t, http.StatusOK, "\ufeff"+sampleList)
	c := NewClient(srv.URL, zerolog.Nop())

	servers, err := c.FetchServers(context.Background())
	require.NoError(t, err)
	assert.Len(t, servers, 2)
}

func TestFetchServers_DecodeError(t *testing.T) {
	for name, body := range map[string]string{
		"garbage": "<html>oops</html>",
		"object":  `{"Name":"Foo"}`,
		"empty":   "",
		"null":    "null",
	} {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, body)
			_, err := NewClient(srv.URL, zerolog.Nop()).FetchServers(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode), "got %v", err)
		})
	}
}

func TestFetchServers_NetworkError(t *testing.T) {
	srv := newServer(t, http.StatusBadGateway, "")
	_, err := NewClient(srv.URL, zerolog.Nop()).FetchServers(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)

	// закрытый сервер — запрос не уходит
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()
	_, err = NewClient(url, zerolog.Nop()).FetchServers(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFind(t *testing.T) {
	servers := []Server{
		{Name: "foo", Players: 1},
		{Name: "Foo", Players: 2},
		{Name: "Foo", Players: 3},
	}

	s, err := Find(servers, "Foo")
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Players, "first exact match wins")

	_, err = Find(servers, "FOO")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Find(nil, "Foo")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapID(t *testing.T) {
	cases := map[string]string{
		"Old_Cobalt":     "Cobalt",
		"Cobalt":         "Cobalt",
		"Old_Old_Azagor": "Azagor",
		"":               "",
		"Lonovo_Old_":    "Lonovo_Old_",
	}
	for in, want := range cases {
		got := MapID(in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, got, MapID(got), "MapID must be idempotent for %q", in)
	}
}
