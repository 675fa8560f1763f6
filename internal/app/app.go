package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/EpicMandM/dewi-reservations/internal/config"
	"github.com/EpicMandM/dewi-reservations/internal/handler"
	"github.com/EpicMandM/dewi-reservations/internal/logger"
	"github.com/EpicMandM/dewi-reservations/internal/orchestrator"
	"github.com/EpicMandM/dewi-reservations/internal/service"
)

const readHeaderTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	feature  *config.FeatureConfig
	logger   *logger.Logger
	client   *service.DewiClient
	pipeline *orchestrator.Orchestrator
	api      *handler.APIHandler
}

// Option customises how New builds the App.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the upstream client somewhere other than
// https://{club}.{provider_domain}.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithHTTPClient sets the client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New wires configuration, upstream client, pipeline and handlers. A nil
// feature config means defaults; a nil logger discards output.
func New(cfg *config.Config, feature *config.FeatureConfig, log *logger.Logger, opts ...Option) (*App, error) {
	if feature == nil {
		feature = config.DefaultFeatureConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	o := options{baseURL: service.BaseURL(cfg.Club, feature.Upstream.ProviderDomain)}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := feature.Calendar.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load facility timezone: %w", err)
	}

	client := service.NewDewiClient(o.baseURL, cfg.Email, cfg.Password, feature.Upstream.UserAgent,
		upstreamHTTPClient(o.httpClient, feature.Upstream.Timeout))
	log.Debug("Upstream client ready",
		logger.Club(cfg.Club),
		logger.Endpoint(client.BaseURL()),
		logger.F("timeout", feature.Upstream.Timeout.String()))

	pipeline := &orchestrator.Orchestrator{
		Logger:   log.With(logger.Club(cfg.Club)),
		Source:   client,
		Location: loc,
	}

	api := handler.NewAPIHandler(pipeline, service.ICalOptions{
		ProductID:        feature.Calendar.ProductID,
		AlarmBefore:      feature.Calendar.AlarmBefore,
		AlarmDescription: feature.Calendar.AlarmDescription,
	}, log)

	return &App{
		config:   cfg,
		feature:  feature,
		logger:   log,
		client:   client,
		pipeline: pipeline,
		api:      api,
	}, nil
}

// upstreamHTTPClient applies the configured timeout without mutating a
// caller-supplied client. A zero timeout keeps the client's own behaviour.
func upstreamHTTPClient(base *http.Client, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return base
	}
	if base == nil {
		return &http.Client{Timeout: timeout}
	}
	c := *base
	c.Timeout = timeout
	return &c
}

// Router exposes GET /json and GET /ical and nothing else.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(handler.WithRequestID)
	r.Use(handler.WithLogging(a.logger))
	r.Use(handler.WithRecovery(a.logger))

	r.Get("/json", a.api.ReservationsJSON)
	r.Get("/ical", a.api.ReservationsICal)
	return r
}

// Server returns an HTTP server bound to the configured host and port.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              a.config.Addr(),
		Handler:           a.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
