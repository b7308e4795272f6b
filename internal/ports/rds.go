// Package ports define as interfaces de portas seguindo Clean Architecture.
//
// Este package contém as abstrações que desacoplam a lógica de negócio das
// implementações concretas, permitindo testabilidade e flexibilidade.
package ports

import (
	"context"

	"rds-provider/internal/domain/rds"
	"rds-provider/pkg/config"
)

// RDSRepository defines the RDS calls the provider needs. Delete and Describe
// return rds.ErrInstanceNotFound when RDS has no such instance.
type RDSRepository interface {
	Create(ctx context.Context, req *rds.CreateRequest) (*rds.DBInstance, error)
	Delete(ctx context.Context, req *rds.DeleteRequest) (*rds.DBInstance, error)
	Describe(ctx context.Context, dbInstanceIdentifier string) (*rds.DBInstance, error)
}

// TagHelper builds the tags attached to created instances.
type TagHelper interface {
	UserDefinedTags(template *rds.InstanceTemplate) []rds.Tag
	InstanceTags(template *rds.InstanceTemplate, virtualInstanceID string, userDefinedTags []rds.Tag) []rds.Tag
}

// OwnershipCheck reports whether a DB instance was created by this provider
// from the given template.
type OwnershipCheck func(record *rds.DBInstance, template *rds.InstanceTemplate) bool

// RDSProviderUseCase is the lifecycle contract exposed to the orchestrator.
type RDSProviderUseCase interface {
	CreateTemplate(name string, configuration config.Configured, tags map[string]string) (*rds.InstanceTemplate, error)
	Allocate(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string, minCount int) error
	Find(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string) ([]*rds.Instance, error)
	Delete(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string) error
	GetInstanceState(ctx context.Context, template *rds.InstanceTemplate, virtualInstanceIDs []string) (map[string]rds.InstanceState, error)
}
