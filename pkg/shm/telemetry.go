package shm

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/srediag/shmslot/pkg/shm"

type telemetry struct {
	tracer       trace.Tracer
	bytesWritten metric.Int64Counter
	outOfBounds  metric.Int64Counter
	missedReads  metric.Int64Counter
}

func newTelemetry(meter metric.Meter, tracer trace.Tracer) *telemetry {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(instrumentationName)
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	return &telemetry{
		tracer: tracer,
		bytesWritten: counter(meter, "shm.region.bytes_written",
			metric.WithDescription("Bytes written into shared memory regions."),
			metric.WithUnit("By")),
		outOfBounds: counter(meter, "shm.region.out_of_bounds_writes",
			metric.WithDescription("Writes rejected because they did not fit the mapping.")),
		missedReads: counter(meter, "shm.region.missed_reads",
			metric.WithDescription("Reads that found nothing present.")),
	}
}

func counter(meter metric.Meter, name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	c, err := meter.Int64Counter(name, opts...)
	if err != nil {
		internalLogger.Warnf("create counter %s: %v", name, err)
		return noop.Int64Counter{}
	}
	return c
}

func (t *telemetry) wrote(n int) {
	t.bytesWritten.Add(context.Background(), int64(n))
}

func (t *telemetry) rejectedWrite() {
	t.outOfBounds.Add(context.Background(), 1)
}

func (t *telemetry) missedRead() {
	t.missedReads.Add(context.Background(), 1)
}
