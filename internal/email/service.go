package email

import (
	"context"
)

type Service interface {
	SendBookingRequested(ctx context.Context, to, name string, details BookingDetails) error
	SendBookingAccepted(ctx context.Context, to, name string, details BookingDetails) error
	SendCustom(ctx context.Context, to, subject, content string) error
}

// BookingDetails carries the fields the booking templates render.
type BookingDetails struct {
	ServiceName string
	DateTime    string
	ShopName    string
}
