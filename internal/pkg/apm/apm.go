// Package apm initializes application performance monitoring: the OTEL tracer and
// meter providers, exporters and the Prometheus scrape endpoint.
package apm

import (
	"context"
	"strings"

	"github.com/naughtygopher/errors"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	Environment    string
	Debug          bool
	ServiceName    string
	ServiceVersion string
	// TracesSampleRate is the ratio of traces kept, in [0, 1]. Ignored when Debug
	// is set, which samples everything.
	TracesSampleRate     float64
	CollectorURL         string
	PrometheusScrapePort uint16
	// UseStdOut replaces the OTLP exporters with stdout ones, for dev & ci
	UseStdOut bool
}

// APM holds the initialized providers. The zero value is usable and falls back to
// the otel globals (effectively no-op), which keeps instrumented codepaths safe
// before New/SetGlobal have run.
type APM struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	serviceName    string
}

var globalAPM = &APM{}

func Global() *APM {
	return globalAPM
}

// SetGlobal overwrites the instance returned by Global. It also sets the otel
// global providers so that third party instrumentation picks them up.
func SetGlobal(ins *APM) {
	globalAPM = ins
	if ins.tracerProvider != nil {
		otel.SetTracerProvider(ins.tracerProvider)
	}
	if ins.meterProvider != nil {
		otel.SetMeterProvider(ins.meterProvider)
	}
}

func (ins *APM) GetTracerProvider() trace.TracerProvider { //nolint:ireturn // that's how otel sdk works
	if ins.tracerProvider == nil {
		return otel.GetTracerProvider()
	}
	return ins.tracerProvider
}

func (ins *APM) GetMeterProvider() metric.MeterProvider { //nolint:ireturn // that's how otel sdk works
	if ins.meterProvider == nil {
		return otel.GetMeterProvider()
	}
	return ins.meterProvider
}

func (ins *APM) AppTracer() trace.Tracer { //nolint:ireturn // that's how otel sdk works
	return ins.GetTracerProvider().Tracer(ins.serviceName)
}

func (ins *APM) AppMeter() metric.Meter { //nolint:ireturn // that's how otel sdk works
	return ins.GetMeterProvider().Meter(ins.serviceName)
}

func (ins *APM) Shutdown(ctx context.Context) error {
	if ins.tracerProvider != nil {
		err := ins.tracerProvider.Shutdown(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to shutdown tracer provider")
		}
	}

	if ins.meterProvider != nil {
		err := ins.meterProvider.Shutdown(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to shutdown meter provider")
		}
	}

	return nil
}

func newResource(ctx context.Context, opts *Options) (*resource.Resource, error) {
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("service.version", opts.ServiceVersion),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create otel resource")
	}
	return res, nil
}

func traceExporter(ctx context.Context, opts *Options) (sdktrace.SpanExporter, error) { //nolint:ireturn // that's how otel sdk works
	if opts.UseStdOut {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.Wrap(err, "failed to create stdout trace exporter")
		}
		return exporter, nil
	}

	if opts.CollectorURL == "" {
		return nil, nil
	}

	if strings.HasPrefix(opts.CollectorURL, "http://") ||
		strings.HasPrefix(opts.CollectorURL, "https://") {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(opts.CollectorURL))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create otlp http trace exporter")
		}
		return exporter, nil
	}

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(opts.CollectorURL),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create otlp grpc trace exporter")
	}
	return exporter, nil
}

func newTracerProvider(
	ctx context.Context,
	opts *Options,
	res *resource.Resource,
) (*sdktrace.TracerProvider, error) {
	sampler := sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.TracesSampleRate))
	if opts.Debug {
		sampler = sdktrace.AlwaysSample()
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}

	exporter, err := traceExporter(ctx, opts)
	if err != nil {
		return nil, err
	}
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(tpOpts...), nil
}

func newMeterProvider(opts *Options, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if opts.UseStdOut {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create stdout metric exporter")
		}
		mpOpts = append(mpOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	if opts.PrometheusScrapePort != 0 {
		exporter, err := prometheusExporter()
		if err != nil {
			return nil, err
		}
		mpOpts = append(mpOpts, sdkmetric.WithReader(exporter))
	}

	return sdkmetric.NewMeterProvider(mpOpts...), nil
}

// New initializes the tracer and meter providers. It does not overwrite the
// global instance, callers do that explicitly via SetGlobal.
func New(ctx context.Context, opts *Options) (*APM, error) {
	res, err := newResource(ctx, opts)
	if err != nil {
		return nil, err
	}

	tracerProvider, err := newTracerProvider(ctx, opts, res)
	if err != nil {
		return nil, err
	}

	meterProvider, err := newMeterProvider(opts, res)
	if err != nil {
		return nil, err
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		b3.New(),
	))

	go prometheusScraper(opts)

	return &APM{
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
		serviceName:    opts.ServiceName,
	}, nil
}
