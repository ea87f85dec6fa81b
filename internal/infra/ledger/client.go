package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"fuelraffle/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrUnavailable = errs.New("point ledger unavailable")

// Entry is one qualifying raffle ticket as reported by the point ledger.
type Entry struct {
	PointID uuid.UUID `json:"pointId"`
	UserID  uuid.UUID `json:"userId"`
}

// Client reads qualifying entries for a raffle period from the point
// ledger service. The ledger's returned order is authoritative: entry
// positions in the draw are assigned in the order received here.
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

type entriesResponse struct {
	Entries []Entry `json:"entries"`
}

func (c *Client) ListEntries(ctx context.Context, period string) ([]Entry, error) {
	url := c.baseURL + "/periods/" + period + "/entries"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build ledger request")
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "ledger request failed"), ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Mark(errs.New("ledger returned non-200"), ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to read ledger response"), ErrUnavailable)
	}
	var er entriesResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, errs.Wrap(err, "failed to decode ledger response")
	}
	return er.Entries, nil
}
