// Package metrics provides Prometheus metrics for observability of the RDS provider.
//
// This package exposes metrics about:
// - Provider operations (allocate, find, delete, state) and their results
// - AWS API call performance and errors
// - Instance lifecycle stages observed
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// ============================================
	// Operation Metrics
	// ============================================

	// OperationsTotal tracks provider operations by operation and result.
	// Labels: operation (allocate, find, delete, state, create_template), result (success, error, interrupted)
	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_operations_total",
			Help: "Total number of provider operations per operation and result",
		},
		[]string{"operation", "result"},
	)

	// OperationDuration tracks the duration of provider operations in seconds.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rds_provider_operation_duration_seconds",
			Help:    "Duration of provider operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// InstancesRequested tracks how many virtual instance IDs each operation was asked to handle.
	InstancesRequested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_instances_requested_total",
			Help: "Total number of virtual instance IDs passed to provider operations",
		},
		[]string{"operation"},
	)

	// InstancesNotFound tracks IDs RDS had no record of.
	InstancesNotFound = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_instances_not_found_total",
			Help: "Total number of virtual instance IDs not found in RDS",
		},
		[]string{"operation"},
	)

	// InstanceStates tracks lifecycle stages reported by state queries.
	// Labels: stage (PENDING, RUNNING, ...)
	InstanceStates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_instance_state_observations_total",
			Help: "Total number of instance state observations by lifecycle stage",
		},
		[]string{"stage"},
	)

	// ============================================
	// AWS API Metrics
	// ============================================

	// AWSAPICallsTotal tracks the total number of AWS API calls.
	// Labels: service (RDS, STS), operation (CreateDBInstance, ...), result (success, error)
	AWSAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_aws_api_calls_total",
			Help: "Total number of AWS API calls by service, operation, and result",
		},
		[]string{"service", "operation", "result"},
	)

	// AWSAPICallDuration tracks the duration of AWS API calls in seconds.
	AWSAPICallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rds_provider_aws_api_call_duration_seconds",
			Help:    "Duration of AWS API calls in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "operation"},
	)

	// AWSAPIErrors tracks the total number of AWS API errors.
	// Labels: service, operation, error_code (DBInstanceNotFound, InvalidParameterValue, ...)
	AWSAPIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_aws_api_errors_total",
			Help: "Total number of AWS API errors by service, operation, and error code",
		},
		[]string{"service", "operation", "error_code"},
	)

	// AWSAPIThrottles tracks the number of AWS API throttling events.
	AWSAPIThrottles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rds_provider_aws_api_throttles_total",
			Help: "Total number of AWS API throttling events (rate limit exceeded)",
		},
		[]string{"service", "operation"},
	)

	// ============================================
	// Provider Metrics
	// ============================================

	// ProviderReady tracks if the provider is ready (1) or not ready (0).
	// Labels: region
	ProviderReady = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rds_provider_ready",
			Help: "Indicates if the RDS provider is ready (1) or not (0)",
		},
		[]string{"region"},
	)
)

// init registers all metrics with the controller-runtime metrics registry.
func init() {
	metrics.Registry.MustRegister(
		OperationsTotal,
		OperationDuration,
		InstancesRequested,
		InstancesNotFound,
		InstanceStates,
	)

	metrics.Registry.MustRegister(
		AWSAPICallsTotal,
		AWSAPICallDuration,
		AWSAPIErrors,
		AWSAPIThrottles,
	)

	metrics.Registry.MustRegister(
		ProviderReady,
	)
}

// Operation names for standardized operation labels
const (
	OperationAllocate       = "allocate"
	OperationFind           = "find"
	OperationDelete         = "delete"
	OperationState          = "state"
	OperationCreateTemplate = "create_template"
)

// Common AWS service names for standardized service labels
const (
	ServiceRDS = "RDS"
	ServiceSTS = "STS"
)

// Common operation results
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultInterrupted = "interrupted"
)
