package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docscms", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docscms", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentPublishes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docscms", Name: "document_publishes_total", Help: "Number of successful document publishes."},
	)
	ValidationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docscms", Name: "validation_failures_total", Help: "Number of validation runs that blocked a lifecycle transition."},
	)
	MDXCompileFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "docscms", Name: "mdx_compile_failures_total", Help: "Number of MDX compile-check failures observed on save."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentPublishes)
	reg.MustRegister(ValidationFailures)
	reg.MustRegister(MDXCompileFailures)
}
