// Package stats is the HTTP client of the statistics service that counts
// event views.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/domain"
	"github.com/baechuer/ewm-service/internal/metrics"
	appCtx "github.com/baechuer/ewm-service/internal/pkg/context"
	zlog "github.com/rs/zerolog/log"
)

// TimeLayout is the timestamp format the statistics service speaks.
const TimeLayout = "2006-01-02 15:04:05"

const maxBody = 1 << 20

var (
	ErrTimeout     = errors.New("stats: request timeout")
	ErrUnavailable = errors.New("stats: service unavailable")
)

// StatusError is a non-2xx answer from the statistics service.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stats %s: unexpected status %d", e.Op, e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Per-request timeouts are set on the context.
		http:    &http.Client{},
		timeout: timeout,
	}
}

type viewStatDTO struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

type hitDTO struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats fetches hit counts for uris between start and end. Each
// returned entry names its uri; entries are not positional.
func (c *Client) ViewStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStat, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(TimeLayout))
	q.Set("end", end.UTC().Format(TimeLayout))
	for _, u := range uris {
		q.Add("uris", u)
	}
	q.Set("unique", strconv.FormatBool(unique))

	body, err := c.do(ctx, "stats", http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var dtos []viewStatDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		metrics.RecordStatsCall("stats", "decode_error", 0)
		return nil, fmt.Errorf("%w: %v", event.ErrStatsDecode, err)
	}

	out := make([]domain.ViewStat, len(dtos))
	for i, d := range dtos {
		out[i] = domain.ViewStat{App: d.App, URI: d.URI, Hits: d.Hits}
	}
	return out, nil
}

func (c *Client) Hit(ctx context.Context, h domain.Hit) error {
	payload, err := json.Marshal(hitDTO{
		App:       h.App,
		URI:       h.URI,
		IP:        h.IP,
		Timestamp: h.Timestamp.UTC().Format(TimeLayout),
	})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, "hit", http.MethodPost, c.baseURL+"/hit", payload)
	return err
}

// do runs one request under the client timeout and returns the body of a
// 2xx answer.
func (c *Client) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if reqID := appCtx.GetRequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordStatsCall(op, "unavailable", time.Since(start))
		zlog.Debug().Err(err).Str("op", op).Dur("duration", time.Since(start)).Msg("stats request failed")
		return nil, mapError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		metrics.RecordStatsCall(op, "unavailable", time.Since(start))
		return nil, mapError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordStatsCall(op, "unavailable", time.Since(start))
		return nil, &StatusError{Op: op, Code: resp.StatusCode}
	}

	metrics.RecordStatsCall(op, "ok", time.Since(start))
	return body, nil
}

func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
