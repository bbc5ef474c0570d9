package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/alepar/purpleair/purpleair"
)

// Writer publishes evaluated readings to a Kafka topic, one message per
// reading keyed by sensor id.
type Writer struct {
	writer *kafkago.Writer
}

func NewWriter(brokers []string, topic string) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Writer{writer: w}
}

func (w *Writer) Publish(ctx context.Context, snapshots []purpleair.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snapshots))
	for i := range snapshots {
		msg, err := serializeToMessage(snapshots[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return errors.Wrap(w.writer.WriteMessages(ctx, msgs...), "failed to write readings")
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(snapshot purpleair.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return kafkago.Message{}, errors.Wrap(err, "serialize reading")
	}
	return kafkago.Message{
		Key:   []byte(snapshot.SensorID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "sensor_id", Value: []byte(snapshot.SensorID)},
			{Key: "timestamp", Value: []byte(snapshot.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
