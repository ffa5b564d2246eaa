package main

import (
	"context"
	"log/slog"

	"github.com/dusk-indust/crossreview/internal/telemetry"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// installMetrics makes an SDK meter provider with a manual reader the global
// provider. The returned func logs every collected point and shuts the
// provider down.
func installMetrics() func(context.Context) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)

	return func(ctx context.Context) {
		// The run context may already be canceled by a signal.
		ctx = context.WithoutCancel(ctx)
		points, err := telemetry.Collect(ctx, reader)
		if err != nil {
			slog.Warn("metrics unavailable", "err", err)
		}
		for _, p := range points {
			slog.Info("metric", "name", p.Name, "attrs", p.Attrs, "value", p.Value)
		}
		if err := mp.Shutdown(ctx); err != nil {
			slog.Warn("meter provider shutdown", "err", err)
		}
	}
}
