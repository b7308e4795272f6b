package rds

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"

	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
	"rds-provider/pkg/metrics"
)

// Client is the subset of the RDS API used by the repository.
type Client interface {
	CreateDBInstance(ctx context.Context, params *awsrds.CreateDBInstanceInput, optFns ...func(*awsrds.Options)) (*awsrds.CreateDBInstanceOutput, error)
	DeleteDBInstance(ctx context.Context, params *awsrds.DeleteDBInstanceInput, optFns ...func(*awsrds.Options)) (*awsrds.DeleteDBInstanceOutput, error)
	DescribeDBInstances(ctx context.Context, params *awsrds.DescribeDBInstancesInput, optFns ...func(*awsrds.Options)) (*awsrds.DescribeDBInstancesOutput, error)
}

type Repository struct {
	client Client
}

func NewRepository(awsConfig aws.Config) ports.RDSRepository {
	return NewRepositoryWithClient(awsrds.NewFromConfig(awsConfig))
}

func NewRepositoryWithClient(client Client) ports.RDSRepository {
	return &Repository{
		client: client,
	}
}

func (r *Repository) Create(ctx context.Context, req *rds.CreateRequest) (*rds.DBInstance, error) {
	recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceRDS, "CreateDBInstance")

	output, err := r.client.CreateDBInstance(ctx, buildCreateInput(req))
	if err != nil {
		recorder.RecordError(err)
		return nil, fmt.Errorf("failed to create DB instance %s: %w", req.DBInstanceIdentifier, err)
	}
	recorder.RecordSuccess()

	return mapToDBInstance(output.DBInstance), nil
}

func (r *Repository) Delete(ctx context.Context, req *rds.DeleteRequest) (*rds.DBInstance, error) {
	recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceRDS, "DeleteDBInstance")

	input := &awsrds.DeleteDBInstanceInput{
		DBInstanceIdentifier: aws.String(req.DBInstanceIdentifier),
	}
	if req.SkipFinalSnapshot {
		input.SkipFinalSnapshot = aws.Bool(true)
	} else if req.FinalDBSnapshotIdentifier != nil {
		input.FinalDBSnapshotIdentifier = aws.String(*req.FinalDBSnapshotIdentifier)
	}

	output, err := r.client.DeleteDBInstance(ctx, input)
	if err != nil {
		recorder.RecordError(err)
		if isNotFound(err) {
			return nil, fmt.Errorf("DB instance %s: %w", req.DBInstanceIdentifier, rds.ErrInstanceNotFound)
		}
		return nil, fmt.Errorf("failed to delete DB instance %s: %w", req.DBInstanceIdentifier, err)
	}
	recorder.RecordSuccess()

	return mapToDBInstance(output.DBInstance), nil
}

func (r *Repository) Describe(ctx context.Context, dbInstanceIdentifier string) (*rds.DBInstance, error) {
	recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceRDS, "DescribeDBInstances")

	output, err := r.client.DescribeDBInstances(ctx, &awsrds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(dbInstanceIdentifier),
	})
	if err != nil {
		recorder.RecordError(err)
		if isNotFound(err) {
			return nil, fmt.Errorf("DB instance %s: %w", dbInstanceIdentifier, rds.ErrInstanceNotFound)
		}
		return nil, fmt.Errorf("failed to describe DB instance %s: %w", dbInstanceIdentifier, err)
	}
	recorder.RecordSuccess()

	// Paging not required, describing by identifier returns at most one instance
	if len(output.DBInstances) == 0 {
		return nil, fmt.Errorf("DB instance %s: %w", dbInstanceIdentifier, rds.ErrInstanceNotFound)
	}

	return mapToDBInstance(&output.DBInstances[0]), nil
}

func isNotFound(err error) bool {
	var notFoundErr *types.DBInstanceNotFoundFault
	return errors.As(err, &notFoundErr)
}

func buildCreateInput(req *rds.CreateRequest) *awsrds.CreateDBInstanceInput {
	return &awsrds.CreateDBInstanceInput{
		DBInstanceIdentifier: aws.String(req.DBInstanceIdentifier),
		DBInstanceClass:      aws.String(req.DBInstanceClass),
		DBSubnetGroupName:    aws.String(req.DBSubnetGroupName),
		VpcSecurityGroupIds:  req.VpcSecurityGroupIDs,
		AllocatedStorage:     aws.Int32(req.AllocatedStorage),
		Engine:               aws.String(req.Engine),
		MasterUsername:       aws.String(req.MasterUsername),
		MasterUserPassword:   aws.String(req.MasterUserPassword),
		PubliclyAccessible:   req.PubliclyAccessible,
		Tags:                 convertTags(req.Tags),

		EngineVersion:              req.EngineVersion,
		AvailabilityZone:           req.AvailabilityZone,
		AutoMinorVersionUpgrade:    req.AutoMinorVersionUpgrade,
		BackupRetentionPeriod:      req.BackupRetentionPeriod,
		DBName:                     req.DBName,
		DBParameterGroupName:       req.DBParameterGroupName,
		LicenseModel:               req.LicenseModel,
		MultiAZ:                    req.MultiAZ,
		OptionGroupName:            req.OptionGroupName,
		Port:                       req.Port,
		PreferredBackupWindow:      req.PreferredBackupWindow,
		PreferredMaintenanceWindow: req.PreferredMaintenanceWindow,
		StorageEncrypted:           req.StorageEncrypted,
	}
}

func convertTags(tags []rds.Tag) []types.Tag {
	var rdsTags []types.Tag
	for _, t := range tags {
		rdsTags = append(rdsTags, types.Tag{
			Key:   aws.String(t.Key),
			Value: aws.String(t.Value),
		})
	}
	return rdsTags
}

func mapToDBInstance(db *types.DBInstance) *rds.DBInstance {
	if db == nil {
		return nil
	}

	instance := &rds.DBInstance{
		DBInstanceIdentifier: aws.ToString(db.DBInstanceIdentifier),
		DBInstanceArn:        aws.ToString(db.DBInstanceArn),
		Engine:               aws.ToString(db.Engine),
		EngineVersion:        aws.ToString(db.EngineVersion),
		DBInstanceClass:      aws.ToString(db.DBInstanceClass),
		AllocatedStorage:     aws.ToInt32(db.AllocatedStorage),
		AvailabilityZone:     aws.ToString(db.AvailabilityZone),
		MultiAZ:              aws.ToBool(db.MultiAZ),
		PubliclyAccessible:   aws.ToBool(db.PubliclyAccessible),
		DBName:               aws.ToString(db.DBName),
		MasterUsername:       aws.ToString(db.MasterUsername),
		StorageEncrypted:     aws.ToBool(db.StorageEncrypted),
		Status:               aws.ToString(db.DBInstanceStatus),
		InstanceCreateAt:     db.InstanceCreateTime,
	}

	if db.Endpoint != nil {
		instance.EndpointAddress = aws.ToString(db.Endpoint.Address)
		instance.EndpointPort = aws.ToInt32(db.Endpoint.Port)
	}

	if len(db.TagList) > 0 {
		instance.Tags = make(map[string]string, len(db.TagList))
		for _, t := range db.TagList {
			instance.Tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}
	}

	return instance
}
