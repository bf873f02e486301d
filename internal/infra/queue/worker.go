package queue

import (
	"context"
	"encoding/json"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/arpitk/portfolio-backend/pkg/logger"
)

// Deliverer renders and sends one notification over the mail transport.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// Worker consumes the notification queue and hands deliveries to a bounded
// pool. Consumption is auto-ack: a delivery that fails is logged and dropped,
// never redelivered.
type Worker struct {
	Channel   *amqp.Channel
	Deliverer Deliverer
	pool      *ants.Pool
}

func NewWorker(ch *amqp.Channel, deliverer Deliverer, poolSize int) (*Worker, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Worker{
		Channel:   ch,
		Deliverer: deliverer,
		pool:      pool,
	}, nil
}

func (w *Worker) Start(queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		true,  // auto-ack: at-most-once
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			var n Notification
			if err := json.Unmarshal(d.Body, &n); err != nil {
				logger.Log.Error("notification payload malformed, dropping", zap.Error(err))
				continue
			}

			submitErr := w.pool.Submit(func() {
				if err := w.Deliverer.Deliver(context.Background(), n); err != nil {
					logger.Log.Error("notification delivery failed, dropping",
						zap.String("kind", n.Kind),
						zap.String("to", n.To),
						zap.Error(err))
				}
			})
			if submitErr != nil {
				logger.Log.Error("notification pool rejected task, dropping",
					zap.String("kind", n.Kind),
					zap.Error(submitErr))
			}
		}
	}()

	logger.Log.Info("notification worker consuming", zap.String("queue", queueName))
	return nil
}

func (w *Worker) Stop() {
	w.pool.Release()
}
