// Package notify delivers alert emails. A notifier without credentials is a no-op.
package notify

import "context"

// Notifier sends alert emails. Send methods report whether a message was handed to
// the delivery service; an unconfigured notifier returns (false, nil).
type Notifier interface {
	Enabled() bool
	SendPriceDrop(ctx context.Context, msg PriceDrop) (bool, error)
	SendAlertConfirmation(ctx context.Context, msg AlertConfirmation) (bool, error)
}

// RouteInfo identifies a route in human terms
type RouteInfo struct {
	OriginCode      string
	DestinationCode string
	OriginCity      string
	DestinationCity string
}

// PriceDrop describes a triggered alert
type PriceDrop struct {
	Email        string
	Route        RouteInfo
	TargetPrice  float64
	CurrentPrice float64
	Currency     string
	AirlineName  string // optional
}

// AlertConfirmation describes a newly created alert
type AlertConfirmation struct {
	Email       string
	Route       RouteInfo
	TargetPrice float64
	Currency    string
}

// Noop is used when no email provider is configured
type Noop struct{}

var _ Notifier = Noop{}

func (Noop) Enabled() bool { return false }

func (Noop) SendPriceDrop(context.Context, PriceDrop) (bool, error) { return false, nil }

func (Noop) SendAlertConfirmation(context.Context, AlertConfirmation) (bool, error) {
	return false, nil
}
