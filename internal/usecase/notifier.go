package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ChangeNotifier announces committed writes to live watchers.
type ChangeNotifier interface {
	Notify(ctx context.Context, topics ...string) error
}

// notifyCommitted publishes after a commit. The write already happened, so a
// failed publish is only logged.
func notifyCommitted(ctx context.Context, log *logrus.Logger, notifier ChangeNotifier, topics ...string) {
	if err := notifier.Notify(ctx, topics...); err != nil {
		log.Warnf("Failed to notify change feed: %+v", err)
	}
}
