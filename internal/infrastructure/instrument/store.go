// Package instrument traces and measures calls made by the store adapters.
package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ambev-sales/sales-service/pkg/logging"
	"github.com/ambev-sales/sales-service/pkg/metrics"
	"github.com/ambev-sales/sales-service/pkg/tracing"
)

// Store records a span, a metric and a debug log line per repository call.
// Metrics and Logger are optional.
type Store struct {
	Name     string // metric label, e.g. "postgres"
	DBSystem string // semconv db.system, e.g. "postgresql"
	Database string
	Metrics  *metrics.Metrics
	Logger   *logging.Logger
}

// Finish closes an operation opened by Start
type Finish func(rows int64, err error)

// Start opens a client span for operation on table
func (s Store) Start(ctx context.Context, table, operation string) (context.Context, Finish) {
	ctx, span := otel.Tracer("sales-service/"+s.Name).Start(ctx, s.Name+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(tracing.DatabaseSpanAttributes(s.DBSystem, s.Database, operation, table)...),
	)
	begin := time.Now()

	return ctx, func(rows int64, err error) {
		defer span.End()

		duration := time.Since(begin)
		success := err == nil
		if !success {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if s.Metrics != nil {
			s.Metrics.RecordDatabaseOperation(s.Name, table, operation, success, duration)
		}
		if s.Logger != nil {
			s.Logger.DatabaseQuery(ctx, s.Name, table, operation, duration, success, rows)
		}
	}
}
