package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"
)

// DefaultGeoIPURL is the public lookup endpoint; the resolved address is
// appended as a path segment.
const DefaultGeoIPURL = "http://ip-api.com/json"

// geoIPTimeout bounds the outbound lookup so a dead endpoint cannot stall
// the request that triggered it.
const geoIPTimeout = 5 * time.Second

// GeoIPClient resolves an approximate location from a network address.
//
// Lookup never fails from the caller's point of view: any transport error,
// non-2xx status, or malformed body degrades to the fallback point. The
// degradation is logged, not surfaced.
type GeoIPClient struct {
	baseURL  string
	client   *http.Client
	fallback orb.Point
	log      *slog.Logger
}

// NewGeoIPClient builds a client against baseURL (DefaultGeoIPURL when
// empty) with the standard timeout and fallback.
func NewGeoIPClient(baseURL string, log *slog.Logger) *GeoIPClient {
	if baseURL == "" {
		baseURL = DefaultGeoIPURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &GeoIPClient{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: geoIPTimeout},
		fallback: FallbackPoint,
		log:      log,
	}
}

type geoIPResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Lookup resolves ip to a point, or the fallback on any failure.
func (c *GeoIPClient) Lookup(ctx context.Context, ip string) orb.Point {
	url := c.baseURL + "/" + ip
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.degrade(ip, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.degrade(ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.degrade(ip, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var body geoIPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return c.degrade(ip, fmt.Errorf("decode response: %w", err))
	}
	// ip-api reports errors in-band with a 200.
	if body.Status != "" && body.Status != "success" {
		return c.degrade(ip, fmt.Errorf("lookup status %q", body.Status))
	}
	if err := ValidateCoordinate(body.Lat, body.Lon); err != nil {
		return c.degrade(ip, err)
	}

	return orb.Point{body.Lon, body.Lat}
}

func (c *GeoIPClient) degrade(ip string, err error) orb.Point {
	c.log.Warn("geo-ip lookup failed, using fallback coordinate",
		"ip", ip, "err", err,
		"lat", c.fallback.Lat(), "lon", c.fallback.Lon())
	return c.fallback
}
