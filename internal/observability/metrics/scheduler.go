package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SchedulerMetrics captures billing scheduler health signals.
type SchedulerMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
}

var (
	schedulerOnce     sync.Once
	schedulerInstance *SchedulerMetrics
)

// Scheduler returns the process-wide scheduler metrics, registering the
// collectors on first use.
func Scheduler() *SchedulerMetrics {
	schedulerOnce.Do(func() {
		m := &SchedulerMetrics{
			jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vendora_scheduler_job_runs_total",
				Help: "Scheduler job executions by job and outcome.",
			}, []string{"job", "outcome"}),
			jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vendora_scheduler_job_errors_total",
				Help: "Scheduler job failures by job.",
			}, []string{"job"}),
			jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "vendora_scheduler_job_duration_seconds",
				Help:    "Scheduler job duration by job.",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			}, []string{"job"}),
		}
		prometheus.MustRegister(m.jobRuns, m.jobErrors, m.jobDuration)
		schedulerInstance = m
	})
	return schedulerInstance
}

func (m *SchedulerMetrics) ObserveJob(job string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
		m.jobErrors.WithLabelValues(job).Inc()
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
	m.jobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}
