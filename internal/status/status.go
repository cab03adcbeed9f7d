// Package status probes the service's dependencies and endpoints.
package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusOK      = "OK"
	StatusError   = "ERROR"
	StatusTimeout = "TIMEOUT"

	HealthHealthy  = "HEALTHY"
	HealthDegraded = "DEGRADED"
	HealthDown     = "DOWN"

	DefaultTimeout = 5 * time.Second
)

// Probe is a single named check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

type EndpointStatus struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	ResponseTimeMs int64  `json:"responseTimeMs"`
	Error          string `json:"error,omitempty"`
}

type Report struct {
	Project       string           `json:"project"`
	Environment   string           `json:"environment"`
	CurrentTime   time.Time        `json:"currentTime"`
	Uptime        string           `json:"uptime"`
	UptimeSeconds int64            `json:"uptimeSeconds"`
	APIHealth     string           `json:"apiHealth"`
	Endpoints     []EndpointStatus `json:"endpoints"`
	LastChecked   time.Time        `json:"lastChecked"`
}

type Checker struct {
	project     string
	environment string
	startedAt   time.Time
	timeout     time.Duration
	now         func() time.Time
}

func NewChecker(project, environment string, startedAt time.Time, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		project:     project,
		environment: environment,
		startedAt:   startedAt,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Run executes every probe concurrently, each under its own timeout. A failing
// probe never cancels the others. Results keep the order of probes.
func (c *Checker) Run(ctx context.Context, probes []Probe) Report {
	results := make([]EndpointStatus, len(probes))

	var g errgroup.Group
	for i, p := range probes {
		g.Go(func() error {
			results[i] = c.runProbe(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	now := c.now()
	uptime := now.Sub(c.startedAt).Truncate(time.Second)
	return Report{
		Project:       c.project,
		Environment:   c.environment,
		CurrentTime:   now.UTC(),
		Uptime:        uptime.String(),
		UptimeSeconds: int64(uptime.Seconds()),
		APIHealth:     Overall(results),
		Endpoints:     results,
		LastChecked:   now.UTC(),
	}
}

func (c *Checker) runProbe(ctx context.Context, p Probe) EndpointStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := p.Check(ctx)
	res := EndpointStatus{
		Name:           p.Name,
		Status:         StatusOK,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}

	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		res.Status = StatusTimeout
		res.Error = err.Error()
	default:
		res.Status = StatusError
		res.Error = err.Error()
	}
	return res
}

// Overall is HEALTHY when every probe is OK, DOWN when none is and DEGRADED otherwise.
func Overall(results []EndpointStatus) string {
	ok := 0
	for _, r := range results {
		if r.Status == StatusOK {
			ok++
		}
	}
	switch {
	case ok == len(results):
		return HealthHealthy
	case ok == 0:
		return HealthDown
	default:
		return HealthDegraded
	}
}

// PingProbe adapts anything with a Ping method.
func PingProbe(name string, ping func(ctx context.Context) error) Probe {
	return Probe{Name: name, Check: ping}
}

// HTTPProbe issues GET baseURL+path, forwarding authorization when set. Any
// non-2xx response is an error.
func HTTPProbe(client *http.Client, baseURL, path, authorization string) Probe {
	url := strings.TrimRight(baseURL, "/") + path
	return Probe{
		Name: path,
		Check: func(ctx context.Context) error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			if authorization != "" {
				req.Header.Set("Authorization", authorization)
			}

			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)

			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				return fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			return nil
		},
	}
}
