package service

import "context"

// ReservationSource abstracts the booking provider for testability.
type ReservationSource interface {
	Login(ctx context.Context) (*LoginResponse, error)
	GetReservations(ctx context.Context, login *LoginResponse) (*ReservationsResponse, error)
}

var _ ReservationSource = (*DewiClient)(nil)
