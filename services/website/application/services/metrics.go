package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/wono/hostpanel/services/website"

type builderMetrics struct {
	assetsUploaded   metric.Int64Counter
	assetsDeleted    metric.Int64Counter
	assetsOrphaned   metric.Int64Counter
	templatesCreated metric.Int64Counter
	templatesEdited  metric.Int64Counter
}

// newBuilderMetrics registers the builder counters on the global meter provider.
// Instruments that fail to register fall back to no-ops.
func newBuilderMetrics() *builderMetrics {
	m := otel.Meter(meterName)
	fallback := noop.Meter{}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := m.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}
	return &builderMetrics{
		assetsUploaded:   counter("website.assets.uploaded", "Template images stored in the object store"),
		assetsDeleted:    counter("website.assets.deleted", "Template images removed from the object store"),
		assetsOrphaned:   counter("website.assets.orphaned", "Stored images left unreferenced by a failed operation"),
		templatesCreated: counter("website.templates.created", "Templates created"),
		templatesEdited:  counter("website.templates.edited", "Template edits committed"),
	}
}

func (m *builderMetrics) uploaded(ctx context.Context, section string) {
	m.assetsUploaded.Add(ctx, 1, metric.WithAttributes(attribute.String("section", section)))
}

func (m *builderMetrics) deleted(ctx context.Context, section string) {
	m.assetsDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String("section", section)))
}

func (m *builderMetrics) orphaned(ctx context.Context, n int) {
	m.assetsOrphaned.Add(ctx, int64(n))
}
