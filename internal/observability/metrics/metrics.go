package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	ticketsCreated      metric.Int64Counter
	ticketMoves         metric.Int64Counter
	invitationsSent     metric.Int64Counter
	invitationsAccepted metric.Int64Counter
	presenceHeartbeats  metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "trackiy"
	}
	meter := provider.Meter(name)

	ticketsCreated, err := meter.Int64Counter("trackiy_tickets_created_total")
	if err != nil {
		return nil, err
	}
	ticketMoves, err := meter.Int64Counter("trackiy_ticket_moves_total")
	if err != nil {
		return nil, err
	}
	invitationsSent, err := meter.Int64Counter("trackiy_invitations_sent_total")
	if err != nil {
		return nil, err
	}
	invitationsAccepted, err := meter.Int64Counter("trackiy_invitations_accepted_total")
	if err != nil {
		return nil, err
	}
	presenceHeartbeats, err := meter.Int64Counter("trackiy_presence_heartbeats_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ticketsCreated:      ticketsCreated,
		ticketMoves:         ticketMoves,
		invitationsSent:     invitationsSent,
		invitationsAccepted: invitationsAccepted,
		presenceHeartbeats:  presenceHeartbeats,
	}, nil
}

// RecordTicketCreated increments ticket creation counts.
func (m *Metrics) RecordTicketCreated(ctx context.Context, projectKey string) {
	if m == nil {
		return
	}
	m.ticketsCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("project_key", strings.TrimSpace(projectKey)),
	))
}

// RecordTicketMove increments ticket column-move counts.
func (m *Metrics) RecordTicketMove(ctx context.Context, projectKey string) {
	if m == nil {
		return
	}
	m.ticketMoves.Add(ctx, 1, metric.WithAttributes(
		attribute.String("project_key", strings.TrimSpace(projectKey)),
	))
}

// RecordInvitationSent increments invitation send counts.
func (m *Metrics) RecordInvitationSent(ctx context.Context) {
	if m == nil {
		return
	}
	m.invitationsSent.Add(ctx, 1)
}

// RecordInvitationAccepted increments invitation accept counts.
func (m *Metrics) RecordInvitationAccepted(ctx context.Context) {
	if m == nil {
		return
	}
	m.invitationsAccepted.Add(ctx, 1)
}

// RecordPresenceHeartbeat increments typing heartbeat counts.
func (m *Metrics) RecordPresenceHeartbeat(ctx context.Context) {
	if m == nil {
		return
	}
	m.presenceHeartbeats.Add(ctx, 1)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "", "grpc":
		return otlpmetricgrpc.New(context.Background(),
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case "http", "http/protobuf":
		return otlpmetrichttp.New(context.Background(),
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unsupported otlp protocol %q", protocol)
	}
}
