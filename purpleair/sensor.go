package purpleair

import "context"

type Sensor interface {
	Address() string
	Receive(ctx context.Context) (Measurement, error)
}

type Scanner interface {

	// returns map from SensorId to sensor
	Scan(ctx context.Context) (map[string]Sensor, error)
}
