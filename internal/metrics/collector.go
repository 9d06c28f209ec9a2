// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 收集批处理运行时、存储层与网络层的指标。
type Collector struct {
	// 批处理指标
	batchesTotal    *prometheus.CounterVec
	batchSize       prometheus.Histogram
	batchQueueDepth prometheus.Gauge
	mergeDuration   prometheus.Histogram
	predictDuration prometheus.Histogram
	splitDuration   prometheus.Histogram

	// 存储指标
	storageWritesTotal   *prometheus.CounterVec
	storageWriteDuration *prometheus.HistogramVec

	// 网络指标（gRPC / HTTP 控制面）
	rpcRequestsTotal   *prometheus.CounterVec
	rpcRequestDuration *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// 批处理指标
	c.batchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Total number of batches processed, by outcome",
		},
		[]string{"outcome"}, // outcome: completed, merge_error, predict_error, split_error
	)

	c.batchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of items drawn into a single predictor call",
			Buckets:   prometheus.LinearBuckets(1, 4, 8),
		},
	)

	c.batchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_queue_depth",
			Help:      "Number of submissions currently waiting to be batched",
		},
	)

	c.mergeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_merge_duration_seconds",
			Help:      "Duration of Batcher.Merge calls",
			Buckets:   prometheus.DefBuckets,
		},
	)

	c.predictDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_predict_duration_seconds",
			Help:      "Duration of predictor invocations",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	c.splitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_split_duration_seconds",
			Help:      "Duration of Batcher.Split calls",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// 存储指标
	c.storageWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_writes_total",
			Help:      "Total number of batch audit records written, by backend and outcome",
		},
		[]string{"backend", "status"},
	)

	c.storageWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_write_duration_seconds",
			Help:      "Duration of batch audit record writes",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"backend"},
	)

	// 网络指标
	c.rpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Total number of RPC/HTTP control-surface requests",
		},
		[]string{"transport", "method", "status"},
	)

	c.rpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_request_duration_seconds",
			Help:      "Duration of RPC/HTTP control-surface requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"transport", "method"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 批处理指标记录
// =============================================================================

// RecordBatch 记录一个批次的完整处理结果。
func (c *Collector) RecordBatch(outcome string, size int, mergeDur, predictDur, splitDur time.Duration) {
	c.batchesTotal.WithLabelValues(outcome).Inc()
	c.batchSize.Observe(float64(size))
	c.mergeDuration.Observe(mergeDur.Seconds())
	c.predictDuration.Observe(predictDur.Seconds())
	c.splitDuration.Observe(splitDur.Seconds())
}

// SetQueueDepth 设置当前队列深度。
func (c *Collector) SetQueueDepth(depth int) {
	c.batchQueueDepth.Set(float64(depth))
}

// =============================================================================
// 🗄️ 存储指标记录
// =============================================================================

// RecordStorageWrite 记录一次审计日志写入。
func (c *Collector) RecordStorageWrite(backend, status string, duration time.Duration) {
	c.storageWritesTotal.WithLabelValues(backend, status).Inc()
	c.storageWriteDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// =============================================================================
// 🌐 网络指标记录
// =============================================================================

// RecordRPC 记录一次控制面 RPC/HTTP 请求。
func (c *Collector) RecordRPC(transport, method, status string, duration time.Duration) {
	c.rpcRequestsTotal.WithLabelValues(transport, method, status).Inc()
	c.rpcRequestDuration.WithLabelValues(transport, method).Observe(duration.Seconds())
}
