package tilesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kiesman99/mapview/pkg/mvt"
	"github.com/kiesman99/mapview/pkg/tile"
)

const fetchTimeout = 5 * time.Second

// ServerSource fetches tiles over HTTP from a template URL of the form
// "https://example.com/data/v3/{z}/{x}/{y}.pbf".
type ServerSource struct {
	client   *http.Client
	template string
}

// NewServerSource builds a ServerSource. base is the tile server root
// (e.g. "https://tiles.example.com"); the "/data/v3/{z}/{x}/{y}.pbf" path
// is appended per the Mapbox vector tile URL convention.
func NewServerSource(base string) *ServerSource {
	return &ServerSource{
		client:   &http.Client{Timeout: fetchTimeout},
		template: strings.TrimRight(base, "/") + "/data/v3/{z}/{x}/{y}.pbf",
	}
}

func (s *ServerSource) Fetch(ctx context.Context, z, x, y int) (*tile.Tile, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	url := s.buildURL(z, x, y)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Z: z, X: x, Y: y, Err: err}
	}
	req.Header.Set("User-Agent", "mapview/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Z: z, X: x, Y: y, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: ErrNetwork, Z: z, X: x, Y: y, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: ErrNetwork, Z: z, X: x, Y: y, Err: err}
	}

	decoded, err := mvt.Decode(body)
	if err != nil {
		return nil, &FetchError{Kind: ErrProtoDecode, Z: z, X: x, Y: y, Err: err}
	}

	return tile.FromProto(z, x, y, decoded), nil
}

func (s *ServerSource) buildURL(z, x, y int) string {
	url := s.template
	url = strings.ReplaceAll(url, "{z}", strconv.Itoa(z))
	url = strings.ReplaceAll(url, "{x}", strconv.Itoa(x))
	url = strings.ReplaceAll(url, "{y}", strconv.Itoa(y))
	return url
}
