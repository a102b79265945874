package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WidgetMetrics groups Prometheus collectors for the widget boundary.
type WidgetMetrics struct {
	RenderTotal      prometheus.Counter
	CartQueriesTotal prometheus.Counter
	VatLookupsTotal  *prometheus.CounterVec
	NonceRejections  *prometheus.CounterVec
}

// NewWidgetMetrics registers and returns the widget collectors.
func NewWidgetMetrics(namespace string, reg prometheus.Registerer) *WidgetMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &WidgetMetrics{
		RenderTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_renders_total",
			Help:      "Count of widget fragment renders.",
		}),
		CartQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_cart_queries_total",
			Help:      "Count of successful cart quantity lookups.",
		}),
		VatLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_vat_lookups_total",
			Help:      "Count of VAT rate lookups by result.",
		}, []string{"result"}),
		NonceRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "widget_nonce_rejections_total",
			Help:      "Count of ajax requests rejected for an invalid nonce.",
		}, []string{"action"}),
	}
	registerOrReuse(reg, m.RenderTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.RenderTotal = v
		}
	})
	registerOrReuse(reg, m.CartQueriesTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(prometheus.Counter); ok {
			m.CartQueriesTotal = v
		}
	})
	registerOrReuse(reg, m.VatLookupsTotal, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.VatLookupsTotal = v
		}
	})
	registerOrReuse(reg, m.NonceRejections, func(existing prometheus.Collector) {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			m.NonceRejections = v
		}
	})
	return m
}

// Rendered counts one fragment render.
func (m *WidgetMetrics) Rendered() {
	if m != nil {
		m.RenderTotal.Inc()
	}
}

// CartQueried counts one successful cart lookup.
func (m *WidgetMetrics) CartQueried() {
	if m != nil {
		m.CartQueriesTotal.Inc()
	}
}

// VatLookup counts one VAT lookup outcome: "known", "zero" or "unknown".
func (m *WidgetMetrics) VatLookup(result string) {
	if m != nil {
		m.VatLookupsTotal.WithLabelValues(result).Inc()
	}
}

// NonceRejected counts one rejected ajax request.
func (m *WidgetMetrics) NonceRejected(action string) {
	if m != nil {
		m.NonceRejections.WithLabelValues(action).Inc()
	}
}

func registerOrReuse(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
}
