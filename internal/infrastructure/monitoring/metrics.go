package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "customer_importer"

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type ImportMetrics struct {
	ImportsTotal    *prometheus.CounterVec
	RecordsImported prometheus.Counter
	ImportDuration  *prometheus.HistogramVec
}

type BusinessMetrics struct {
	CustomersCreatedTotal prometheus.Counter
	CustomersStored       prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Histogram of database query latencies.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"query_name", "status"},
		),
	}

	Import = ImportMetrics{
		ImportsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Total number of CSV imports by outcome.",
			},
			[]string{"outcome"},
		),
		RecordsImported: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_imported_total",
				Help:      "Total number of customer records stored by CSV imports.",
			},
		),
		ImportDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_duration_seconds",
				Help:      "Histogram of CSV import latencies.",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"outcome"},
		),
	}

	Business = BusinessMetrics{
		CustomersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "customers_created_total",
				Help:      "Total number of customers created through the API.",
			},
		),
		CustomersStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "customers_stored",
				Help:      "Number of customers currently stored.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// RecordImport tracks one finished import. records is only added on success.
func RecordImport(outcome string, records int, duration time.Duration) {
	Import.ImportsTotal.WithLabelValues(outcome).Inc()
	Import.ImportDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if outcome == "success" && records > 0 {
		Import.RecordsImported.Add(float64(records))
	}
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}

func SetCustomersStored(count int64) {
	Business.CustomersStored.Set(float64(count))
}
