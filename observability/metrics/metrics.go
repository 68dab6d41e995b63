package metrics

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// fastBuckets is sized for sub-100ms in-process operations: a single step()
// call or a fork-choice recompute, never a network round trip.
var fastBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 1}

var RunInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "slotzero_run_info",
	Help: "Simulation run information (always 1)",
}, []string{"run_id", "version"})

var CurrentSlot = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "slotzero_current_slot",
	Help: "Current logical slot of the simulation",
})

var HeadSlot = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "slotzero_head_slot",
	Help: "Slot of the current fork-choice head block",
})

var TotalForks = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "slotzero_total_forks",
	Help: "Cumulative count of extra sibling blocks produced by attack mode (k-1 per forked slot)",
})

var TotalFinalizations = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "slotzero_total_finalizations",
	Help: "Cumulative count of blocks that reached quorum",
})

var QuorumSize = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "slotzero_quorum_size",
	Help: "Number of votes currently required to finalize a block",
})

var PendingVotes = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "slotzero_pending_votes",
	Help: "Number of vote deliveries still queued for a future slot",
})

var StepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "slotzero_step_duration_seconds",
	Help:    "Wall-clock time to run a single step()",
	Buckets: fastBuckets,
})

func init() {
	prometheus.MustRegister(
		RunInfo,
		CurrentSlot,
		HeadSlot,
		TotalForks,
		TotalFinalizations,
		QuorumSize,
		PendingVotes,
		StepDuration,
	)
}

// Serve starts the Prometheus metrics HTTP server on the given port.
func Serve(port int) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			log.Printf("metrics server error: %v", err)
		}
	}()
}
