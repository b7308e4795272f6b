// Package metrics provides helpers for recording metrics in a consistent way.
//
// Recorders simplify metric collection by providing a fluent API and ensuring
// consistent labeling across the provider.
package metrics

import (
	"errors"
	"time"

	"github.com/aws/smithy-go"
)

// ============================================
// Operation Metrics Recorder
// ============================================

// OperationMetricsRecorder helps record provider operation metrics consistently.
// Usage:
//
//	recorder := metrics.NewOperationMetricsRecorder(metrics.OperationDelete, len(ids))
//	defer func() { recorder.Record(err) }()
type OperationMetricsRecorder struct {
	operation string
	startTime time.Time
}

// NewOperationMetricsRecorder creates a new operation recorder and starts timing.
func NewOperationMetricsRecorder(operation string, instanceCount int) *OperationMetricsRecorder {
	InstancesRequested.WithLabelValues(operation).Add(float64(instanceCount))
	return &OperationMetricsRecorder{
		operation: operation,
		startTime: time.Now(),
	}
}

// Record records success when err is nil and an error otherwise.
func (r *OperationMetricsRecorder) Record(err error) {
	if err != nil {
		r.record(ResultError)
		return
	}
	r.record(ResultSuccess)
}

// RecordInterrupted records an operation that stopped early on interruption.
func (r *OperationMetricsRecorder) RecordInterrupted() {
	r.record(ResultInterrupted)
}

func (r *OperationMetricsRecorder) record(result string) {
	OperationsTotal.WithLabelValues(r.operation, result).Inc()
	OperationDuration.WithLabelValues(r.operation).Observe(time.Since(r.startTime).Seconds())
}

// RecordNotFound records an ID that RDS had no record of.
func RecordNotFound(operation string) {
	InstancesNotFound.WithLabelValues(operation).Inc()
}

// RecordInstanceState records an observed lifecycle stage.
func RecordInstanceState(stage string) {
	InstanceStates.WithLabelValues(stage).Inc()
}

// ============================================
// AWS API Metrics Recorder
// ============================================

// AWSAPIMetricsRecorder helps record AWS API call metrics consistently.
// Usage:
//
//	recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceRDS, "CreateDBInstance")
//	output, err := r.client.CreateDBInstance(ctx, input)
//	if err != nil {
//		recorder.RecordError(err)
//		return err
//	}
//	recorder.RecordSuccess()
type AWSAPIMetricsRecorder struct {
	service   string
	operation string
	startTime time.Time
}

// NewAWSAPIMetricsRecorder creates a new AWS API metrics recorder.
// It automatically starts timing the API call.
func NewAWSAPIMetricsRecorder(service, operation string) *AWSAPIMetricsRecorder {
	return &AWSAPIMetricsRecorder{
		service:   service,
		operation: operation,
		startTime: time.Now(),
	}
}

// RecordSuccess records a successful AWS API call.
func (a *AWSAPIMetricsRecorder) RecordSuccess() {
	duration := time.Since(a.startTime).Seconds()

	AWSAPICallsTotal.WithLabelValues(a.service, a.operation, ResultSuccess).Inc()
	AWSAPICallDuration.WithLabelValues(a.service, a.operation).Observe(duration)
}

// RecordError records a failed AWS API call.
// It extracts the AWS error code from the error and records it.
func (a *AWSAPIMetricsRecorder) RecordError(err error) {
	duration := time.Since(a.startTime).Seconds()

	errorCode := ErrorCode(err)

	AWSAPICallsTotal.WithLabelValues(a.service, a.operation, ResultError).Inc()
	AWSAPICallDuration.WithLabelValues(a.service, a.operation).Observe(duration)
	AWSAPIErrors.WithLabelValues(a.service, a.operation, errorCode).Inc()

	if isThrottlingError(errorCode) {
		AWSAPIThrottles.WithLabelValues(a.service, a.operation).Inc()
	}
}

// ErrorCode extracts the AWS error code from an error.
// Returns "Unknown" if the error is not an AWS API error.
func ErrorCode(err error) string {
	if err == nil {
		return "Unknown"
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}

	return "Unknown"
}

// isThrottlingError checks if an error code represents throttling.
func isThrottlingError(errorCode string) bool {
	switch errorCode {
	case "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException", "RequestThrottled":
		return true
	}
	return false
}

// ============================================
// Provider Metrics Recorder
// ============================================

// ProviderMetricsRecorder helps record provider status metrics.
type ProviderMetricsRecorder struct {
	region string
}

// NewProviderMetricsRecorder creates a new provider metrics recorder.
func NewProviderMetricsRecorder(region string) *ProviderMetricsRecorder {
	return &ProviderMetricsRecorder{region: region}
}

// SetReady marks the provider as ready.
func (p *ProviderMetricsRecorder) SetReady() {
	ProviderReady.WithLabelValues(p.region).Set(1)
}

// SetNotReady marks the provider as not ready.
func (p *ProviderMetricsRecorder) SetNotReady() {
	ProviderReady.WithLabelValues(p.region).Set(0)
}
