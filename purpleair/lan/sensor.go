package lan

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/alepar/purpleair/purpleair"
)

// Sensor reads measurements from a PurpleAir device over the local network.
//
// In live mode the device returns the latest 2 second reading, otherwise the
// 2 minute average it computes itself.
type Sensor struct {
	Addr       string
	Live       bool
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration

	Client *http.Client
	Logger log.FieldLogger
}

var _ purpleair.Sensor = (*Sensor)(nil)

func NewLiveSensor(addr string) *Sensor {
	return &Sensor{Addr: addr, Live: true, Retries: 1}
}

func NewAverageSensor(addr string) *Sensor {
	return &Sensor{Addr: addr, Live: false, Retries: 1}
}

// AsLive returns a copy of the sensor in live mode.
func (sensor *Sensor) AsLive() *Sensor {
	s := *sensor
	s.Live = true
	return &s
}

// AsAverage returns a copy of the sensor in averaging mode.
func (sensor *Sensor) AsAverage() *Sensor {
	s := *sensor
	s.Live = false
	return &s
}

func (sensor *Sensor) Address() string {
	return sensor.Addr
}

// URL returns the device endpoint, "<addr>/json" with "?live=true" in live mode.
// A bare host or host:port is treated as http.
func (sensor *Sensor) URL() (string, error) {
	base, err := url.Parse(sensor.Addr)
	if err != nil || base.Scheme == "" || base.Host == "" {
		base, err = url.Parse("http://" + sensor.Addr)
		if err != nil {
			return "", errors.Wrapf(err, "failed to parse sensor address %q", sensor.Addr)
		}
	}

	endpoint := base.ResolveReference(&url.URL{Path: "json"})
	if sensor.Live {
		endpoint.RawQuery = "live=true"
	}
	return endpoint.String(), nil
}

// Receive fetches one measurement, retrying transport failures.
func (sensor *Sensor) Receive(ctx context.Context) (purpleair.Measurement, error) {
	retries := sensor.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		m, err := sensor.receive(ctx)
		if err == nil {
			return m, nil
		}
		lastErr = err
		if ctx.Err() != nil || purpleair.IsSchemaError(err) {
			break
		}
		if i < retries-1 {
			sensor.logger().Errorf("retrying error in receive from %s: %s", sensor.Addr, err)
			if !sleepWithContext(ctx, sensor.RetryDelay) {
				break
			}
		}
	}

	return nil, errors.Wrap(lastErr, "all retries to receive failed")
}

func (sensor *Sensor) receive(ctx context.Context) (*Measurement, error) {
	endpoint, err := sensor.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't create request")
	}
	req.Header.Set("Accept", "application/json")

	sensor.logger().Debugf("requesting %s", endpoint)
	resp, err := sensor.client().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't reach sensor")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("sensor returned status %d: %s", resp.StatusCode, body)
	}

	doc, err := ParseDocument(resp.Body)
	if err != nil {
		return nil, err
	}
	return NewMeasurement(doc), nil
}

func (sensor *Sensor) client() *http.Client {
	if sensor.Client != nil {
		return sensor.Client
	}
	// idle connections are pooled by http.DefaultTransport, not the client
	return &http.Client{Timeout: sensor.Timeout}
}

func (sensor *Sensor) logger() log.FieldLogger {
	if sensor.Logger != nil {
		return sensor.Logger
	}
	return log.StandardLogger()
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
