package bbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrNetwork  = errors.New("bbapi: network error")
	ErrDecode   = errors.New("bbapi: decode error")
	ErrNotFound = errors.New("bbapi: server not found")
)

const oldMapPrefix = "Old_"

// апстрим иногда отдаёт тело с BOM в начале
var bom = []byte{0xEF, 0xBB, 0xBF}

// FetchServers делает один запрос к списку серверов и декодирует его.
func (c *Client) FetchServers(ctx context.Context) ([]Server, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	servers, err := Decode(body)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Int("servers", len(servers)).Msg("server list fetched")
	return servers, nil
}

// Decode разбирает тело ответа, срезая BOM, если он есть.
func Decode(body []byte) ([]Server, error) {
	body = bytes.TrimPrefix(body, bom)

	var servers []Server
	if err := json.Unmarshal(body, &servers); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if servers == nil {
		// "null" или пустое тело не считаем списком
		return nil, fmt.Errorf("%w: body is not a server list", ErrDecode)
	}
	return servers, nil
}

// Find возвращает первый сервер с точно таким именем (регистр важен).
func Find(servers []Server, name string) (Server, error) {
	for _, s := range servers {
		if s.Name == name {
			return s, nil
		}
	}
	return Server{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// MapID убирает префикс старых версий карт: "Old_Cobalt" -> "Cobalt".
// Срезаем все ведущие префиксы, поэтому повторный вызов ничего не меняет.
func MapID(mapName string) string {
	for strings.HasPrefix(mapName, oldMapPrefix) {
		mapName = mapName[len(oldMapPrefix):]
	}
	return mapName
}
