// Package events publishes activity events (detections served, product
// matches served) to Kafka for downstream analytics. Publishing is
// fire-and-forget: a broker outage never degrades the request that
// triggered the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/carousell/ct-go/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"

	"github.com/edaxe/furniture-app/internal/config"
)

const publishTimeout = 10 * time.Second

const (
	PatternDetectionCompleted = "detection.completed"
	PatternProductsServed     = "products.served"
)

// DetectionCompleted is emitted after a detection request finishes.
type DetectionCompleted struct {
	SessionID      string   `json:"session_id,omitempty"`
	DetectionCount int      `json:"detection_count"`
	Labels         []string `json:"labels"`
	Source         string   `json:"source"`
}

// ProductsServed is emitted after a product-match request finishes.
type ProductsServed struct {
	Category          string `json:"category"`
	IdentifiedProduct string `json:"identified_product,omitempty"`
	ExactCount        int    `json:"exact_count"`
	SimilarCount      int    `json:"similar_count"`
	VisuallyReranked  bool   `json:"visually_reranked"`
}

type envelope struct {
	Pattern string `json:"pattern"`
	Data    any    `json:"data"`
}

// Publisher sends events to a single topic. The zero-value state with a nil
// writer (events disabled) silently drops everything.
type Publisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewPublisher(lc fx.Lifecycle, conf *config.Config) *Publisher {
	p := &Publisher{log: logger.MustNamed("events")}
	if !conf.Events.Enabled || len(conf.Events.Brokers) == 0 {
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(conf.Events.Brokers...),
		Topic:        conf.Events.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.writer.Close()
		},
	})
	return p
}

// Publish emits one event without blocking the caller's request path.
func (p *Publisher) Publish(ctx context.Context, pattern string, data any) {
	if p.writer == nil {
		return
	}

	value, err := json.Marshal(envelope{Pattern: pattern, Data: data})
	if err != nil {
		p.log.Errorw("marshal event", "pattern", pattern, "error", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(pattern),
			Value: value,
		}); err != nil {
			p.log.Warnw("publish event failed", "pattern", pattern, "error", err)
		}
	}()
}
