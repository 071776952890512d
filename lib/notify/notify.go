package notify

import (
	"context"
	"errors"
)

// Notifier delivers a short plain text message somewhere a person will see it.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Multi sends to every notifier, a failing notifier does not stop the others.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		err := n.Notify(ctx, message)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
