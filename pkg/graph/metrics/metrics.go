package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Graph metrics
	GraphNodeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_nodes_total",
			Help: "Total number of nodes in the graph",
		},
		[]string{"node_type"},
	)

	GraphEdgeCount = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "graph_edges_total",
			Help: "Total number of edges in the graph",
		},
		[]string{"edge_type"},
	)

	// Corpus build metrics
	CorpusRowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corpus_rows_processed_total",
		Help: "Number of raw movie rows ingested",
	})

	CorpusRowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corpus_rows_skipped_total",
		Help: "Number of malformed rows skipped during ingestion",
	})

	// Retrieval metrics
	RetrievalDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "retrieval_duration_seconds",
			Help: "Time spent answering a query, per retrieval strategy",
		},
		[]string{"strategy"},
	)
)
