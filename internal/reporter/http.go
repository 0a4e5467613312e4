package reporter

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
	"time"

	"github.com/ukydev/transit-simulator/internal/models"
)

// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPReporter reports positions with one GET request per position.
type HTTPReporter struct {
	endpoint   *url.URL
	deregister string
	client     *http.Client
}

// NewHTTPReporter creates a reporter for endpoint. deregisterURL may be empty.
// A zero timeout leaves requests bounded only by their context.
func NewHTTPReporter(endpoint, deregisterURL string, timeout time.Duration) (*HTTPReporter, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	return &HTTPReporter{
		endpoint:   u,
		deregister: deregisterURL,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// Report issues GET <endpoint>?id=&lat=&lon=&mode=. The response body is ignored.
func (r *HTTPReporter) Report(ctx context.Context, pos models.PositionReport) error {
	u := *r.endpoint
	q := u.Query()
	q.Set("id", pos.VehicleID)
	q.Set("lat", strconv.FormatFloat(pos.Location.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(pos.Location.Lon, 'f', -1, 64))
	q.Set("mode", pos.Mode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send position: %w", err)
	}
	return drain(resp)
}

// Deregister removes a vehicle from the backend with POST {"id": ...}.
func (r *HTTPReporter) Deregister(ctx context.Context, vehicleID string) error {
	if r.deregister == "" {
		return nil
	}
	data, err := json.Marshal(map[string]string{"id": vehicleID})
	if err != nil {
		return fmt.Errorf("failed to marshal deregistration: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.deregister, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deregister vehicle: %w", err)
	}
	return drain(resp)
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
