package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SectionRevisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docrev", Name: "section_revisions_total", Help: "Section revisions built, by decision (reuse, continue, create, revive) and operation."},
		[]string{"decision", "operation"},
	)
	HardDeletedSections = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docrev", Name: "hard_deleted_sections_total", Help: "Section entries turned into tombstones by hard deletes."},
	)
	Restores = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docrev", Name: "restores_total", Help: "Document revisions created by restore."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docrev", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docrev", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(SectionRevisions)
	reg.MustRegister(HardDeletedSections)
	reg.MustRegister(Restores)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
