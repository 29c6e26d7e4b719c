package maps

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/haulmarket/pkg/errors"
	"github.com/angelmondragon/haulmarket/pkg/types"
	gmaps "googlemaps.github.io/maps"
)

const (
	metersPerMile = 1609.344

	// maxDestinationsPerRequest is the Distance Matrix per-request element limit
	// for a single origin.
	maxDestinationsPerRequest = 25

	elementStatusOK = "OK"
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// DrivingDistance is one origin/destination element of a matrix lookup.
// OK is false when Google could not route the pair.
type DrivingDistance struct {
	Miles float64
	OK    bool
}

// Client wraps the Google Maps Distance Matrix API used to verify driving distance.
type Client struct {
	matrix     *gmaps.Client
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Google Maps API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Google Maps client given an API key.
func NewClient(apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	clientOpts := []gmaps.ClientOption{
		gmaps.WithAPIKey(trimmedKey),
		gmaps.WithHTTPClient(client.httpClient),
	}
	if client.baseURL != "" {
		clientOpts = append(clientOpts, gmaps.WithBaseURL(client.baseURL))
	}
	matrix, err := gmaps.NewClient(clientOpts...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create google maps client")
	}
	client.matrix = matrix
	return client, nil
}

// DrivingMiles resolves the driving distance from origin to every destination.
// The result is index-aligned with destinations. Large batches are split into
// several matrix requests; any request failure fails the whole call.
func (c *Client) DrivingMiles(ctx context.Context, origin types.Coordinates, destinations []types.Coordinates) ([]DrivingDistance, error) {
	if c == nil || c.matrix == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	out := make([]DrivingDistance, 0, len(destinations))
	for start := 0; start < len(destinations); start += maxDestinationsPerRequest {
		end := min(start+maxDestinationsPerRequest, len(destinations))
		batch, err := c.drivingMilesBatch(ctx, origin, destinations[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) drivingMilesBatch(ctx context.Context, origin types.Coordinates, destinations []types.Coordinates) ([]DrivingDistance, error) {
	dests := make([]string, len(destinations))
	for i, d := range destinations {
		dests[i] = d.String()
	}

	resp, err := c.matrix.DistanceMatrix(ctx, &gmaps.DistanceMatrixRequest{
		Origins:      []string{origin.String()},
		Destinations: dests,
		Mode:         gmaps.TravelModeDriving,
		Units:        gmaps.UnitsImperial,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "distance matrix request failed")
	}
	if len(resp.Rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "distance matrix returned no rows")
	}

	elements := resp.Rows[0].Elements
	out := make([]DrivingDistance, len(destinations))
	for i := range out {
		if i >= len(elements) || elements[i] == nil || elements[i].Status != elementStatusOK {
			continue
		}
		out[i] = DrivingDistance{
			Miles: float64(elements[i].Distance.Meters) / metersPerMile,
			OK:    true,
		}
	}
	return out, nil
}
