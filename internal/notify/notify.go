package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMessage is the text sent when housing objects are available.
const DefaultMessage = "New housing rental objects are available."

// DefaultUsername is the display name of the webhook message.
const DefaultUsername = "Housing Bot"

type Notifier interface {
	// Notify makes a single delivery attempt of message.
	Notify(ctx context.Context, message string) error
}

// Poster is the transport webhook notifiers send through,
// implemented by transport.Client.
type Poster interface {
	Post(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, error)
}

// NotificationDeliveryError is returned when a channel failed to deliver.
type NotificationDeliveryError struct {
	Channel string
	Err     error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Channel, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error {
	return e.Err
}

// Fanout delivers the message on every channel, one failing channel does not
// stop the others.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range f {
		err := n.Notify(ctx, message)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
