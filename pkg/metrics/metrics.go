package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 进程级指标，通过 /metrics 暴露
var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quds",
		Name:      "http_requests_total",
		Help:      "HTTP 请求总数",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "quds",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	AttendanceSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quds",
		Name:      "attendance_submissions_total",
		Help:      "出席回答提交次数（按结果）",
	}, []string{"result"})

	AllocationsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quds",
		Name:      "allocations_published_total",
		Help:      "分房文档发布次数",
	})
)
