package producer

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Syncer is the subset of *kgo.Client used for acknowledged writes.
type Syncer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Producer writes records and waits for broker acknowledgement.
type Producer struct {
	client Syncer
}

func New(client Syncer) *Producer {
	return &Producer{client: client}
}

// Produce writes one record and returns once the broker has acknowledged it.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}
