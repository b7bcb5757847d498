package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics métricas Prometheus de la API en un registro propio.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	importedRows    *prometheus.CounterVec
	reassignedTotal prometheus.Counter
}

// NewMetrics registra las métricas HTTP, de negocio y las del runtime de Go.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y estado",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crm",
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		importedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "customer_import_rows_total",
			Help:      "Filas de importación por resultado (inserted, duplicate, skipped)",
		}, []string{"result"}),
		reassignedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "customers_reassigned_total",
			Help:      "Clientes reasignados a otro asesor",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration, m.importedRows, m.reassignedTotal,
	)
	return m
}

// Middleware cuenta y mide cada petición por la ruta registrada (no la URL concreta).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(statusOf(c, err))).Inc()
		m.duration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// ObserveImport acumula el resultado de una importación.
func (m *Metrics) ObserveImport(inserted int64, accepted, skipped int) {
	if m == nil {
		return
	}
	m.importedRows.WithLabelValues("inserted").Add(float64(inserted))
	m.importedRows.WithLabelValues("duplicate").Add(float64(int64(accepted) - inserted))
	m.importedRows.WithLabelValues("skipped").Add(float64(skipped))
}

// ObserveReassigned acumula clientes reasignados.
func (m *Metrics) ObserveReassigned(n int64) {
	if m == nil {
		return
	}
	m.reassignedTotal.Add(float64(n))
}
