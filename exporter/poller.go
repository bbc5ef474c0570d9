package exporter

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/alepar/purpleair/purpleair"
)

// Publisher forwards evaluated readings somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, snapshots []purpleair.Snapshot) error
}

// Poller periodically scans for sensors, reads them and updates Metrics.
type Poller struct {
	Scanner   purpleair.Scanner
	Metrics   *Metrics  // optional
	Publisher Publisher // optional
	Interval  time.Duration
	Clock     clockwork.Clock
	Logger    log.FieldLogger

	// Parallel bounds the number of sensors read at once, 0 means unbounded.
	Parallel int

	mu   sync.Mutex
	seen map[string]bool
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	p.logger().Infof("polling sensors every %s", p.Interval)
	for {
		p.Once(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-clock.After(p.Interval):
		}
	}
}

// Once runs a single scan-and-receive cycle and returns the snapshots that
// were read successfully.
func (p *Poller) Once(ctx context.Context) []purpleair.Snapshot {
	sensorsMap, err := p.Scanner.Scan(ctx)
	if err != nil {
		p.logger().Errorf("failed to scan for sensors: %s", err)
		p.forgetMissing(map[string]purpleair.Sensor{})
		return nil
	}
	p.forgetMissing(sensorsMap)

	var (
		mu        sync.Mutex
		snapshots []purpleair.Snapshot
	)

	// fan-out only: one bad sensor must not cancel the others
	var g errgroup.Group
	if p.Parallel > 0 {
		g.SetLimit(p.Parallel)
	}
	for sensorID, sensor := range sensorsMap {
		g.Go(func() error {
			snapshot, ok := p.receive(ctx, sensorID, sensor)
			if ok {
				mu.Lock()
				snapshots = append(snapshots, snapshot)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	if p.Publisher != nil && len(snapshots) > 0 {
		if err := p.Publisher.Publish(ctx, snapshots); err != nil {
			p.logger().Errorf("failed to publish %d readings: %s", len(snapshots), err)
		}
	}
	return snapshots
}

func (p *Poller) receive(ctx context.Context, sensorID string, sensor purpleair.Sensor) (purpleair.Snapshot, bool) {
	logger := p.logger().WithFields(log.Fields{"sensor_id": sensorID, "addr": sensor.Address()})

	m, err := sensor.Receive(ctx)
	if err != nil {
		logger.Errorf("failed to read from sensor: %s", err)
		p.countRead(outcome(err))
		return purpleair.Snapshot{}, false
	}

	snapshot, err := purpleair.Evaluate(m)
	if err != nil {
		logger.Errorf("dropping malformed reading: %s", err)
		p.countRead(outcome(err))
		return purpleair.Snapshot{}, false
	}

	if valuesAsJSON, err := json.Marshal(snapshot); err == nil {
		logger.Debugf("Received: %s", valuesAsJSON)
	} else {
		logger.Debugf("Received: <marshal error: %s>", err)
	}

	if p.Metrics != nil {
		p.Metrics.Update(snapshot)
	}
	p.countRead("success")
	return snapshot, true
}

// forgetMissing drops metrics of sensors that disappeared since the last scan.
func (p *Poller) forgetMissing(current map[string]purpleair.Sensor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id := range p.seen {
		if _, ok := current[id]; !ok {
			p.logger().Warnf("sensor %s is gone, dropping its metrics", id)
			if p.Metrics != nil {
				p.Metrics.Forget(id)
			}
		}
	}
	p.seen = make(map[string]bool, len(current))
	for id := range current {
		p.seen[id] = true
	}
}

func (p *Poller) countRead(outcome string) {
	if p.Metrics != nil {
		p.Metrics.Reads.WithLabelValues(outcome).Inc()
	}
}

func (p *Poller) logger() log.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.StandardLogger()
}

func outcome(err error) string {
	if purpleair.IsSchemaError(err) {
		return "schema_error"
	}
	return "error"
}
