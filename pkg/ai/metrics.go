package ai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gema",
		Subsystem: "ai",
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of heuristic evaluations, simulated latency included",
		Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 1.5, 2, 5},
	}, []string{"verdict"})

	aiScores = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gema",
		Subsystem: "ai",
		Name:      "evaluation_score",
		Help:      "Distribution of scores per dimension",
		Buckets:   prometheus.LinearBuckets(1, 1, 10),
	}, []string{"dimension"})
)

func observeEvaluation(record FeedbackRecord, elapsed time.Duration) {
	aiDuration.WithLabelValues(record.Verdict()).Observe(elapsed.Seconds())
	aiScores.WithLabelValues("correctness").Observe(record.Correctness)
	aiScores.WithLabelValues("efficiency").Observe(record.Efficiency)
	aiScores.WithLabelValues("quality").Observe(record.Quality)
}
