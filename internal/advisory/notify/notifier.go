// Package notify delivers advisory outcomes to side channels. Channels are
// best-effort: a failed delivery is logged and counted, never propagated.
package notify

import (
	"context"

	advisoryapp "nautilus-one/internal/advisory/application"
)

// MultiNotifier dispatches advice to multiple notifiers.
type MultiNotifier struct {
	notifiers []advisoryapp.Notifier
}

// NewMultiNotifier constructs a MultiNotifier.
func NewMultiNotifier(notifiers ...advisoryapp.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Notify forwards advice to all notifiers.
func (m *MultiNotifier) Notify(ctx context.Context, advice advisoryapp.Advice) {
	if m == nil {
		return
	}
	for _, notifier := range m.notifiers {
		if notifier != nil {
			notifier.Notify(ctx, advice)
		}
	}
}
