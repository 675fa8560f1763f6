package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/EpicMandM/dewi-reservations/internal/logger"
	"github.com/EpicMandM/dewi-reservations/internal/models"
	"github.com/EpicMandM/dewi-reservations/internal/service"
)

// Orchestrator coordinates the reservation pipeline for one request.
type Orchestrator struct {
	Logger   *logger.Logger
	Source   service.ReservationSource
	Location *time.Location
}

// Run executes the full pipeline: login → fetch reservations → transform the
// upcoming ones. Old reservations are fetched as part of the same payload and
// dropped. Any failing step aborts the run; there is no partial result.
func (o *Orchestrator) Run(ctx context.Context) ([]models.Reservation, error) {
	login, err := o.Login(ctx)
	if err != nil {
		return nil, err
	}

	upcoming, err := o.FetchUpcoming(ctx, login)
	if err != nil {
		return nil, err
	}

	reservations, err := service.Transform(upcoming, o.Location)
	if err != nil {
		o.Logger.Error("Failed to transform reservations",
			logger.Action("transform"), logger.Kind(service.KindOf(err)), logger.Error(err))
		return nil, err
	}

	o.Logger.Debug("Reservations ready", logger.Action("transform"), logger.Status("done"), logger.Count(len(reservations)))
	return reservations, nil
}

// Login performs the credential exchange.
func (o *Orchestrator) Login(ctx context.Context) (*service.LoginResponse, error) {
	o.Logger.Debug("Logging in upstream", logger.Action("login"), logger.Status("starting"))

	login, err := o.Source.Login(ctx)
	if err != nil {
		o.Logger.Error("Upstream login failed", upstreamFailureFields("login", err)...)
		return nil, err
	}
	return login, nil
}

// FetchUpcoming fetches reservations and returns only the upcoming ones.
func (o *Orchestrator) FetchUpcoming(ctx context.Context, login *service.LoginResponse) ([]service.UpstreamReservation, error) {
	res, err := o.Source.GetReservations(ctx, login)
	if err != nil {
		o.Logger.Error("Failed to fetch reservations", upstreamFailureFields("reservations", err)...)
		return nil, err
	}

	o.Logger.Debug("Reservations fetched",
		logger.Action("fetch"),
		logger.F("upcoming", len(res.UpcomingReservations)),
		logger.F("old", len(res.OldReservations)))
	return res.UpcomingReservations, nil
}

// upstreamFailureFields describes a failed upstream call, including the HTTP
// status when the provider answered.
func upstreamFailureFields(endpoint string, err error) []logger.Field {
	fields := []logger.Field{
		logger.Endpoint(endpoint),
		logger.Kind(service.KindOf(err)),
		logger.Error(err),
	}
	var statusErr *service.UpstreamStatusError
	if errors.As(err, &statusErr) {
		fields = append(fields, logger.StatusCode(statusErr.StatusCode))
	}
	return fields
}
