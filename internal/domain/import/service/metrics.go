package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gastos_imports_total",
		Help: "Number of import commits by terminal status.",
	}, []string{"status"})

	importedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gastos_import_rows_total",
		Help: "Number of transaction rows committed through CSV import.",
	})
)
