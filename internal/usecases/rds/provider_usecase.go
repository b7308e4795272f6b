package rds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
	"rds-provider/pkg/config"
	"rds-provider/pkg/metrics"
)

// ProviderUseCase allocates, finds, deletes and queries RDS database
// instances on behalf of the orchestrator. Operations run sequentially over
// the requested ids and stop early, without error, when ctx is cancelled.
type ProviderUseCase struct {
	repo               ports.RDSRepository
	tags               ports.TagHelper
	isOwned            ports.OwnershipCheck
	publiclyAccessible bool
	encryption         config.EncryptionInstanceClasses
	now                func() time.Time
}

// Option customizes a ProviderUseCase.
type Option func(*ProviderUseCase)

// WithOwnershipCheck replaces the default ownership check used by Find.
func WithOwnershipCheck(check ports.OwnershipCheck) Option {
	return func(uc *ProviderUseCase) {
		if check != nil {
			uc.isOwned = check
		}
	}
}

// WithClock sets the time source used for final snapshot names.
func WithClock(now func() time.Time) Option {
	return func(uc *ProviderUseCase) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewProviderUseCase(repo ports.RDSRepository, tags ports.TagHelper, providerConfig *config.ProviderConfig, opts ...Option) ports.RDSProviderUseCase {
	uc := &ProviderUseCase{
		repo:       repo,
		tags:       tags,
		isOwned:    AcceptAll,
		encryption: config.DefaultEncryptionInstanceClasses,
		now:        time.Now,
	}
	if providerConfig != nil {
		uc.publiclyAccessible = providerConfig.AssociatePublicIPAddresses
		if len(providerConfig.EncryptionInstanceClasses) > 0 {
			uc.encryption = providerConfig.EncryptionInstanceClasses
		}
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// AcceptAll is the default ownership check.
// TODO: match the Cloudera-Director-Template-Name and Cloudera-Director-Id tags once
// instances created before tagging was introduced have been retired.
func AcceptAll(_ *rds.DBInstance, _ *rds.InstanceTemplate) bool {
	return true
}

func (uc *ProviderUseCase) CreateTemplate(name string, configuration config.Configured, tags map[string]string) (*rds.InstanceTemplate, error) {
	recorder := metrics.NewOperationMetricsRecorder(metrics.OperationCreateTemplate, 0)

	template, err := BuildTemplate(name, configuration, tags, uc.encryption)
	recorder.Record(err)
	if err != nil {
		return nil, fmt.Errorf("invalid template %q: %w", name, err)
	}
	return template, nil
}

func (uc *ProviderUseCase) Allocate(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string, minCount int) error {
	logger := log.FromContext(ctx).WithValues("template", template.Name)
	recorder := metrics.NewOperationMetricsRecorder(metrics.OperationAllocate, len(virtualInstanceIDs))

	logger.Info(">> Allocating DB instances", "count", len(virtualInstanceIDs), "minCount", minCount)

	userTags := uc.tags.UserDefinedTags(template)
	for _, id := range virtualInstanceIDs {
		if ctx.Err() != nil {
			logger.Info("Allocation interrupted", "remaining", id)
			recorder.RecordInterrupted()
			return nil
		}

		req := rds.NewCreateRequest(template, id, uc.publiclyAccessible, uc.tags.InstanceTags(template, id, userTags))
		logger.Info(">> Creating DB instance", "dbInstanceIdentifier", id)

		record, createErr := uc.repo.Create(ctx, req)
		if createErr != nil {
			logger.Error(createErr, "Failed to create DB instance", "dbInstanceIdentifier", id)
			recorder.Record(createErr)
			return createErr
		}
		logger.Info("<< DB instance creation requested", "dbInstanceIdentifier", id, "status", statusOf(record))
	}

	logger.Info("<< Allocation done", "count", len(virtualInstanceIDs))
	recorder.Record(nil)
	return nil
}

func (uc *ProviderUseCase) Find(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string) ([]*rds.Instance, error) {
	logger := log.FromContext(ctx).WithValues("template", template.Name)
	recorder := metrics.NewOperationMetricsRecorder(metrics.OperationFind, len(virtualInstanceIDs))

	logger.Info(">> Finding DB instances", "count", len(virtualInstanceIDs))

	instances := make([]*rds.Instance, 0, len(virtualInstanceIDs))
	for _, id := range virtualInstanceIDs {
		if ctx.Err() != nil {
			logger.Info("Find interrupted", "found", len(instances))
			recorder.RecordInterrupted()
			return instances, nil
		}

		record, err := uc.repo.Describe(ctx, id)
		if err != nil {
			if errors.Is(err, rds.ErrInstanceNotFound) {
				metrics.RecordNotFound(metrics.OperationFind)
				logger.V(1).Info("DB instance not found", "dbInstanceIdentifier", id)
				continue
			}
			logger.Error(err, "Failed to describe DB instance", "dbInstanceIdentifier", id)
			recorder.Record(err)
			return nil, err
		}

		if !uc.isOwned(record, template) {
			logger.Info("Ignoring DB instance not created from this template", "dbInstanceIdentifier", id)
			continue
		}
		instances = append(instances, rds.NewInstance(template, id, record))
	}

	logger.Info("<< Found DB instances", "found", len(instances))
	recorder.Record(nil)
	return instances, nil
}

func (uc *ProviderUseCase) Delete(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string) error {
	if len(virtualInstanceIDs) == 0 {
		return nil
	}

	logger := log.FromContext(ctx).WithValues("template", template.Name)
	recorder := metrics.NewOperationMetricsRecorder(metrics.OperationDelete, len(virtualInstanceIDs))

	logger.Info(">> Deleting DB instances", "count", len(virtualInstanceIDs))

	for _, id := range virtualInstanceIDs {
		if ctx.Err() != nil {
			logger.Info("Deletion interrupted", "remaining", id)
			recorder.RecordInterrupted()
			return nil
		}

		req := rds.NewDeleteRequest(template, id, uc.now())
		if req.SkipFinalSnapshot {
			logger.Info(">> Deleting DB instance without final snapshot", "dbInstanceIdentifier", id)
		} else {
			logger.Info(">> Deleting DB instance", "dbInstanceIdentifier", id, "finalSnapshot", *req.FinalDBSnapshotIdentifier)
		}

		record, err := uc.repo.Delete(ctx, req)
		if err != nil {
			if errors.Is(err, rds.ErrInstanceNotFound) {
				metrics.RecordNotFound(metrics.OperationDelete)
				logger.Info("Attempted to delete DB instance that does not exist", "severity", "warning", "dbInstanceIdentifier", id)
				continue
			}
			logger.Error(err, "Failed to delete DB instance", "dbInstanceIdentifier", id)
			recorder.Record(err)
			return err
		}
		logger.Info("<< DB instance deletion requested", "dbInstanceIdentifier", id, "status", statusOf(record))
	}

	logger.Info("<< Deletion done", "count", len(virtualInstanceIDs))
	recorder.Record(nil)
	return nil
}

func (uc *ProviderUseCase) GetInstanceState(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string) (map[string]rds.InstanceState, error) {
	logger := log.FromContext(ctx).WithValues("template", template.Name)
	recorder := metrics.NewOperationMetricsRecorder(metrics.OperationState, len(virtualInstanceIDs))

	states := make(map[string]rds.InstanceState, len(virtualInstanceIDs))
	for i, id := range virtualInstanceIDs {
		if ctx.Err() != nil {
			for _, rest := range virtualInstanceIDs[i:] {
				if _, seen := states[rest]; !seen {
					states[rest] = rds.LifecycleStage(nil)
				}
			}
			logger.Info("State query interrupted", "queried", i)
			recorder.RecordInterrupted()
			return states, nil
		}

		record, err := uc.repo.Describe(ctx, id)
		if err != nil {
			if errors.Is(err, rds.ErrInstanceNotFound) {
				metrics.RecordNotFound(metrics.OperationState)
				states[id] = rds.LifecycleStage(nil)
				metrics.RecordInstanceState(string(states[id].Stage))
				continue
			}
			logger.Error(err, "Failed to describe DB instance", "dbInstanceIdentifier", id)
			recorder.Record(err)
			return nil, err
		}

		states[id] = rds.StateOf(record)
		metrics.RecordInstanceState(string(states[id].Stage))
		logger.V(1).Info("DB instance state", "dbInstanceIdentifier", id, "status", record.Status, "stage", states[id].Stage)
	}

	recorder.Record(nil)
	return states, nil
}

func statusOf(record *rds.DBInstance) string {
	if record == nil {
		return ""
	}
	return record.Status
}
