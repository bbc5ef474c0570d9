package lan

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alepar/purpleair/purpleair"
)

// Scanner resolves a fixed list of device addresses to sensors keyed by the
// SensorId each device reports. There is no discovery protocol on the LAN
// firmware, so addresses have to be configured.
type Scanner struct {
	Addrs      []string
	Live       bool
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration

	Client *http.Client
	Logger log.FieldLogger
}

var _ purpleair.Scanner = (*Scanner)(nil)

// Scan contacts every address concurrently. Devices that cannot be reached are
// logged and left out; Scan only fails when none of them answered.
//
// Identifying a device costs a full reading, so the returned sensors hand that
// reading out on their first Receive instead of asking the device again.
func (scanner *Scanner) Scan(ctx context.Context) (map[string]purpleair.Sensor, error) {
	var (
		mu        sync.Mutex
		sensorMap = map[string]purpleair.Sensor{}
		lastErr   error
	)

	// fan-out only: a failing address must not cancel the others
	var g errgroup.Group
	for _, addr := range scanner.Addrs {
		g.Go(func() error {
			sensor, id, err := scanner.identify(ctx, addr)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				scanner.logger().Errorf("failed to identify sensor at %s: %s", addr, err)
				lastErr = err
				return nil
			}
			if prev, ok := sensorMap[id]; ok {
				scanner.logger().Warnf("sensor %s answers on both %s and %s", id, prev.Address(), addr)
			}
			sensorMap[id] = sensor
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	if len(sensorMap) == 0 && lastErr != nil {
		return map[string]purpleair.Sensor{}, errors.Wrap(lastErr, "no sensor could be identified")
	}
	return sensorMap, nil
}

func (scanner *Scanner) sensorFor(addr string) *Sensor {
	return &Sensor{
		Addr:       addr,
		Live:       scanner.Live,
		Timeout:    scanner.Timeout,
		Retries:    scanner.Retries,
		RetryDelay: scanner.RetryDelay,
		Client:     scanner.Client,
		Logger:     scanner.Logger,
	}
}

func (scanner *Scanner) identify(ctx context.Context, addr string) (*scannedSensor, string, error) {
	sensor := scanner.sensorFor(addr)
	m, err := sensor.Receive(ctx)
	if err != nil {
		return nil, "", err
	}
	id, err := m.SensorID()
	if err != nil {
		return nil, "", err
	}
	return &scannedSensor{Sensor: sensor, first: m}, id, nil
}

// scannedSensor serves the reading taken while identifying the device once,
// then reads the device as usual.
type scannedSensor struct {
	*Sensor

	mu    sync.Mutex
	first purpleair.Measurement
}

func (s *scannedSensor) Receive(ctx context.Context) (purpleair.Measurement, error) {
	s.mu.Lock()
	m := s.first
	s.first = nil
	s.mu.Unlock()

	if m != nil {
		return m, nil
	}
	return s.Sensor.Receive(ctx)
}

func (scanner *Scanner) logger() log.FieldLogger {
	if scanner.Logger != nil {
		return scanner.Logger
	}
	return log.StandardLogger()
}
