package infrastructure

import (
	"context"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

// FanoutNotifier delivers every event to all targets. The first error is
// returned after every target has been attempted.
type FanoutNotifier struct {
	targets []domain.Notifier
}

func NewFanoutNotifier(targets ...domain.Notifier) *FanoutNotifier {
	return &FanoutNotifier{targets: targets}
}

func (f *FanoutNotifier) Notify(ctx context.Context, n domain.Notification) error {
	var firstErr error
	for _, t := range f.targets {
		if err := t.Notify(ctx, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *FanoutNotifier) Dismiss(ctx context.Context, id string) error {
	var firstErr error
	for _, t := range f.targets {
		if err := t.Dismiss(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *FanoutNotifier) DismissAll(ctx context.Context) error {
	var firstErr error
	for _, t := range f.targets {
		if err := t.DismissAll(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FanoutStatePublisher mirrors state snapshots to all targets.
type FanoutStatePublisher struct {
	targets []domain.StatePublisher
}

func NewFanoutStatePublisher(targets ...domain.StatePublisher) *FanoutStatePublisher {
	return &FanoutStatePublisher{targets: targets}
}

func (f *FanoutStatePublisher) PublishState(ctx context.Context, snap *domain.TelemetrySnapshot) error {
	var firstErr error
	for _, t := range f.targets {
		if err := t.PublishState(ctx, snap); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
