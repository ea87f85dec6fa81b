package seed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"fuelraffle/internal/pkg/errs"
)

var (
	ErrUnavailable = errs.New("randomness source unavailable")
	ErrMalformed   = errs.New("randomness source returned malformed seed")
)

// Client fetches public draw randomness from an external beacon. The seed
// must be 64 lowercase hex characters; anything else is rejected so a
// misbehaving beacon cannot poison a draw.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type seedResponse struct {
	Seed string `json:"seed"`
}

func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", errs.Wrap(err, "failed to build seed request")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "seed request failed"), ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errs.Mark(errs.New("seed source returned non-200"), ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "failed to read seed response"), ErrUnavailable)
	}
	var sr seedResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", errs.Mark(errs.Wrap(err, "failed to decode seed response"), ErrMalformed)
	}
	if !isHexSeed(sr.Seed) {
		return "", ErrMalformed
	}
	return sr.Seed, nil
}

func isHexSeed(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
