package wallet

import "time"

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
	RecordCacheHit(key string)
	RecordCacheMiss(key string)
	RecordConflictRetry(operation string, attempt int)
	RecordFreeze(walletID uint)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (n *NoopMetricsCollector) RecordTransaction(string, float64)             {}
func (n *NoopMetricsCollector) RecordError(string, string)                    {}
func (n *NoopMetricsCollector) RecordCacheHit(string)                         {}
func (n *NoopMetricsCollector) RecordCacheMiss(string)                        {}
func (n *NoopMetricsCollector) RecordConflictRetry(string, int)               {}
func (n *NoopMetricsCollector) RecordFreeze(uint)                             {}
