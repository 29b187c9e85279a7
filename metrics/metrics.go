// Package metrics 提供引擎的 Prometheus 指标。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "orders_initiated_total", Help: "创建订单总数",
	}, []string{"market"})

	OrdersAmended = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "orders_amended_total", Help: "改单总数",
	}, []string{"market"})

	OrdersCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "orders_cancelled_total", Help: "撤单总数",
	}, []string{"market"})

	Claims = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "claims_total", Help: "提取所得次数",
	}, []string{"market"})

	IntervalsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "intervals_executed_total", Help: "已执行区间总数",
	}, []string{"market"})

	PrincipalSold = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "principal_sold_total", Help: "累计送交场所的本金",
	}, []string{"market"})

	ProceedsBought = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "proceeds_bought_total", Help: "累计兑换所得",
	}, []string{"market"})

	ActiveOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "active_orders", Help: "当前活跃订单数",
	})

	SwapLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "swap_latency_seconds", Help: "场所兑换调用延迟(秒)",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})

	TriggerTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twap", Subsystem: "engine",
		Name: "trigger_total", Help: "触发回调结果分布",
	}, []string{"outcome"}) // executed / noop / self / error
)

// RecordExecution 记录一次到期区间执行。
func RecordExecution(market string, intervals, sold, bought uint64, latency time.Duration) {
	IntervalsExecuted.WithLabelValues(market).Add(float64(intervals))
	PrincipalSold.WithLabelValues(market).Add(float64(sold))
	ProceedsBought.WithLabelValues(market).Add(float64(bought))
	SwapLatency.Observe(latency.Seconds())
}

// RecordTrigger 记录一次触发回调的结果。
func RecordTrigger(outcome string) {
	TriggerTotal.WithLabelValues(outcome).Inc()
}

// StartMetricsServer 启动 Prometheus 指标服务。
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
