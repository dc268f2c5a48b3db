package publisher

import (
	"context"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

type AlertPublisher interface {
	PublishAlert(ctx context.Context, event *domain.TransitionEvent) error
}
