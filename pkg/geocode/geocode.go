// Package geocode resolves addresses into coordinates with a Nominatim compatible endpoint.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

const DefaultTimeout = 5 * time.Second

type Geocoder interface {
	// Geocode returns coordinates of address, rounded to 4 decimal places.
	//
	// ErrMissing when nothing matches.
	// ErrUpstreamUnavailable when the endpoint times out or fails.
	Geocode(ctx context.Context, address string) (domain.Point, error)
}

type nominatim struct {
	endpoint  *url.URL
	userAgent string
	timeout   time.Duration
	client    *http.Client
}

type Option func(*nominatim)

func WithHTTPClient(c *http.Client) Option {
	return func(n *nominatim) {
		n.client = c
	}
}

// WithTimeout limits time for each query. 0 means DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(n *nominatim) {
		n.timeout = d
	}
}

// New returns a geocoder querying endpoint/search.
//
// Nominatim requires identifying user agents.
func New(endpoint string, userAgent string, options ...Option) (Geocoder, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	n := &nominatim{
		endpoint:  u,
		userAgent: userAgent,
		client:    http.DefaultClient,
	}
	for _, o := range options {
		o(n)
	}
	if n.timeout <= 0 {
		n.timeout = DefaultTimeout
	}
	return n, nil
}

type place struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (n *nominatim) Geocode(ctx context.Context, address string) (domain.Point, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	u := n.endpoint.JoinPath("search")
	u.RawQuery = url.Values{
		"q":      []string{address},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Point{}, err
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return domain.Point{}, errors.Join(domerr.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case 500 <= resp.StatusCode || resp.StatusCode == http.StatusTooManyRequests:
		return domain.Point{}, fmt.Errorf("%w: geocoder responds %d", domerr.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return domain.Point{}, fmt.Errorf("geocoder responds %d", resp.StatusCode)
	}

	places := []place{}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		if ctx.Err() != nil {
			return domain.Point{}, errors.Join(domerr.ErrUpstreamUnavailable, err)
		}
		return domain.Point{}, fmt.Errorf("geocoder responds broken json: %w", err)
	}
	if len(places) == 0 {
		return domain.Point{}, fmt.Errorf("%w: no place for %q", domerr.ErrMissing, address)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("geocoder responds bad latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return domain.Point{}, fmt.Errorf("geocoder responds bad longitude: %w", err)
	}
	return domain.Point{Lat: domain.Round4(lat), Lon: domain.Round4(lon)}, nil
}
