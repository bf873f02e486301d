package queue

import (
	"context"

	"go.uber.org/zap"

	"github.com/arpitk/portfolio-backend/pkg/logger"
)

// LocalDispatcher runs deliveries on a goroutine in-process, for deployments
// without a broker and for tests. Same contract as the producer: Dispatch
// returns immediately and delivery failures are logged and dropped.
type LocalDispatcher struct {
	Deliverer Deliverer
}

func NewLocalDispatcher(deliverer Deliverer) *LocalDispatcher {
	return &LocalDispatcher{Deliverer: deliverer}
}

func (d *LocalDispatcher) Dispatch(ctx context.Context, n Notification) error {
	go func() {
		if err := d.Deliverer.Deliver(context.Background(), n); err != nil {
			logger.Log.Error("notification delivery failed, dropping",
				zap.String("kind", n.Kind),
				zap.String("to", n.To),
				zap.Error(err))
		}
	}()
	return nil
}
