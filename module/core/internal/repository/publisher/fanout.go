package publisher

import (
	"context"
	"errors"

	"github.com/nandanugg/geofence-alerter/module/core/domain"
)

var _ AlertPublisher = Fanout(nil)

// Fanout delivers every alert to each sink in turn. A failing sink does not
// stop delivery to the others; their errors are joined.
type Fanout []AlertPublisher

func (f Fanout) PublishAlert(ctx context.Context, event *domain.TransitionEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.PublishAlert(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
