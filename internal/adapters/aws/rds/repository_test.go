package rds_test

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrds "github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/rds/types"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	repository "rds-provider/internal/adapters/aws/rds"
	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
)

type fakeClient struct {
	createInputs   []*awsrds.CreateDBInstanceInput
	createErr      error
	deleteInputs   []*awsrds.DeleteDBInstanceInput
	deleteErr      error
	describeInputs []*awsrds.DescribeDBInstancesInput
	describeOutput *awsrds.DescribeDBInstancesOutput
	describeErr    error
}

func (f *fakeClient) CreateDBInstance(_ context.Context, in *awsrds.CreateDBInstanceInput, _ ...func(*awsrds.Options)) (*awsrds.CreateDBInstanceOutput, error) {
	f.createInputs = append(f.createInputs, in)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &awsrds.CreateDBInstanceOutput{DBInstance: &types.DBInstance{
		DBInstanceIdentifier: in.DBInstanceIdentifier,
		DBInstanceStatus:     aws.String("creating"),
	}}, nil
}

func (f *fakeClient) DeleteDBInstance(_ context.Context, in *awsrds.DeleteDBInstanceInput, _ ...func(*awsrds.Options)) (*awsrds.DeleteDBInstanceOutput, error) {
	f.deleteInputs = append(f.deleteInputs, in)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &awsrds.DeleteDBInstanceOutput{DBInstance: &types.DBInstance{
		DBInstanceIdentifier: in.DBInstanceIdentifier,
		DBInstanceStatus:     aws.String("deleting"),
	}}, nil
}

func (f *fakeClient) DescribeDBInstances(_ context.Context, in *awsrds.DescribeDBInstancesInput, _ ...func(*awsrds.Options)) (*awsrds.DescribeDBInstancesOutput, error) {
	f.describeInputs = append(f.describeInputs, in)
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return f.describeOutput, nil
}

var _ = Describe("Repository", func() {
	var (
		ctx    context.Context
		client *fakeClient
		repo   ports.RDSRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &fakeClient{}
		repo = repository.NewRepositoryWithClient(client)
	})

	Describe("Create", func() {
		var req *rds.CreateRequest

		BeforeEach(func() {
			req = &rds.CreateRequest{
				DBInstanceIdentifier: "db-1",
				DBInstanceClass:      "db.t3.micro",
				DBSubnetGroupName:    "default",
				VpcSecurityGroupIDs:  []string{"sg-1", "sg-2"},
				AllocatedStorage:     20,
				Engine:               "postgres",
				MasterUsername:       "admin",
				MasterUserPassword:   "password",
				PubliclyAccessible:   aws.Bool(false),
				Tags:                 []rds.Tag{{Key: "owner", Value: "data"}},
			}
		})

		It("maps required fields and omits absent optional fields", func() {
			instance, err := repo.Create(ctx, req)
			Expect(err).NotTo(HaveOccurred())
			Expect(instance.DBInstanceIdentifier).To(Equal("db-1"))
			Expect(instance.Status).To(Equal("creating"))

			Expect(client.createInputs).To(HaveLen(1))
			in := client.createInputs[0]
			Expect(aws.ToString(in.DBInstanceIdentifier)).To(Equal("db-1"))
			Expect(aws.ToString(in.DBInstanceClass)).To(Equal("db.t3.micro"))
			Expect(aws.ToString(in.DBSubnetGroupName)).To(Equal("default"))
			Expect(in.VpcSecurityGroupIds).To(Equal([]string{"sg-1", "sg-2"}))
			Expect(aws.ToInt32(in.AllocatedStorage)).To(Equal(int32(20)))
			Expect(aws.ToString(in.MasterUserPassword)).To(Equal("password"))
			Expect(in.PubliclyAccessible).To(Equal(aws.Bool(false)))
			Expect(in.Tags).To(HaveLen(1))
			Expect(aws.ToString(in.Tags[0].Key)).To(Equal("owner"))

			Expect(in.EngineVersion).To(BeNil())
			Expect(in.AvailabilityZone).To(BeNil())
			Expect(in.AutoMinorVersionUpgrade).To(BeNil())
			Expect(in.BackupRetentionPeriod).To(BeNil())
			Expect(in.DBName).To(BeNil())
			Expect(in.DBParameterGroupName).To(BeNil())
			Expect(in.LicenseModel).To(BeNil())
			Expect(in.MultiAZ).To(BeNil())
			Expect(in.OptionGroupName).To(BeNil())
			Expect(in.Port).To(BeNil())
			Expect(in.PreferredBackupWindow).To(BeNil())
			Expect(in.PreferredMaintenanceWindow).To(BeNil())
			Expect(in.StorageEncrypted).To(BeNil())
		})

		It("maps every optional field", func() {
			req.EngineVersion = aws.String("15.4")
			req.AvailabilityZone = aws.String("us-east-1a")
			req.AutoMinorVersionUpgrade = aws.Bool(true)
			req.BackupRetentionPeriod = aws.Int32(7)
			req.DBName = aws.String("app")
			req.DBParameterGroupName = aws.String("pg15")
			req.LicenseModel = aws.String("postgresql-license")
			req.MultiAZ = aws.Bool(true)
			req.OptionGroupName = aws.String("default:postgres-15")
			req.Port = aws.Int32(5433)
			req.PreferredBackupWindow = aws.String("03:00-04:00")
			req.PreferredMaintenanceWindow = aws.String("sun:05:00-sun:06:00")
			req.StorageEncrypted = aws.Bool(true)

			_, err := repo.Create(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			in := client.createInputs[0]
			Expect(aws.ToString(in.EngineVersion)).To(Equal("15.4"))
			Expect(aws.ToString(in.AvailabilityZone)).To(Equal("us-east-1a"))
			Expect(aws.ToBool(in.AutoMinorVersionUpgrade)).To(BeTrue())
			Expect(aws.ToInt32(in.BackupRetentionPeriod)).To(Equal(int32(7)))
			Expect(aws.ToString(in.DBName)).To(Equal("app"))
			Expect(aws.ToString(in.DBParameterGroupName)).To(Equal("pg15"))
			Expect(aws.ToString(in.LicenseModel)).To(Equal("postgresql-license"))
			Expect(aws.ToBool(in.MultiAZ)).To(BeTrue())
			Expect(aws.ToString(in.OptionGroupName)).To(Equal("default:postgres-15"))
			Expect(aws.ToInt32(in.Port)).To(Equal(int32(5433)))
			Expect(aws.ToString(in.PreferredBackupWindow)).To(Equal("03:00-04:00"))
			Expect(aws.ToString(in.PreferredMaintenanceWindow)).To(Equal("sun:05:00-sun:06:00"))
			Expect(aws.ToBool(in.StorageEncrypted)).To(BeTrue())
		})

		It("wraps API errors", func() {
			client.createErr = errors.New("InvalidParameterValue")

			_, err := repo.Create(ctx, req)
			Expect(err).To(MatchError(ContainSubstring("failed to create DB instance db-1")))
			Expect(errors.Is(err, client.createErr)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("skips the final snapshot when requested", func() {
			_, err := repo.Delete(ctx, &rds.DeleteRequest{DBInstanceIdentifier: "db-2", SkipFinalSnapshot: true})
			Expect(err).NotTo(HaveOccurred())

			in := client.deleteInputs[0]
			Expect(aws.ToBool(in.SkipFinalSnapshot)).To(BeTrue())
			Expect(in.FinalDBSnapshotIdentifier).To(BeNil())
		})

		It("passes the final snapshot identifier", func() {
			_, err := repo.Delete(ctx, &rds.DeleteRequest{
				DBInstanceIdentifier:      "db-1",
				FinalDBSnapshotIdentifier: aws.String("db-1-director-final-snapshot-1"),
			})
			Expect(err).NotTo(HaveOccurred())

			in := client.deleteInputs[0]
			Expect(in.SkipFinalSnapshot).To(BeNil())
			Expect(aws.ToString(in.FinalDBSnapshotIdentifier)).To(Equal("db-1-director-final-snapshot-1"))
		})

		It("translates DBInstanceNotFound", func() {
			client.deleteErr = &types.DBInstanceNotFoundFault{Message: aws.String("gone")}

			_, err := repo.Delete(ctx, &rds.DeleteRequest{DBInstanceIdentifier: "db-1", SkipFinalSnapshot: true})
			Expect(err).To(MatchError(rds.ErrInstanceNotFound))
		})

		It("propagates other errors", func() {
			client.deleteErr = &types.InvalidDBInstanceStateFault{Message: aws.String("busy")}

			_, err := repo.Delete(ctx, &rds.DeleteRequest{DBInstanceIdentifier: "db-1", SkipFinalSnapshot: true})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, rds.ErrInstanceNotFound)).To(BeFalse())
		})
	})

	Describe("Describe", func() {
		It("maps the returned instance", func() {
			client.describeOutput = &awsrds.DescribeDBInstancesOutput{DBInstances: []types.DBInstance{{
				DBInstanceIdentifier: aws.String("db-1"),
				DBInstanceArn:        aws.String("arn:aws:rds:us-east-1:123456789012:db:db-1"),
				DBInstanceStatus:     aws.String("available"),
				Engine:               aws.String("postgres"),
				AllocatedStorage:     aws.Int32(20),
				Endpoint:             &types.Endpoint{Address: aws.String("db-1.example"), Port: aws.Int32(5432)},
				TagList:              []types.Tag{{Key: aws.String("Cloudera-Director-Id"), Value: aws.String("db-1")}},
			}}}

			instance, err := repo.Describe(ctx, "db-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(aws.ToString(client.describeInputs[0].DBInstanceIdentifier)).To(Equal("db-1"))
			Expect(instance.Status).To(Equal("available"))
			Expect(instance.EndpointAddress).To(Equal("db-1.example"))
			Expect(instance.EndpointPort).To(Equal(int32(5432)))
			Expect(instance.Tags).To(HaveKeyWithValue("Cloudera-Director-Id", "db-1"))
		})

		It("returns not found for an empty result", func() {
			client.describeOutput = &awsrds.DescribeDBInstancesOutput{}

			_, err := repo.Describe(ctx, "db-3")
			Expect(err).To(MatchError(rds.ErrInstanceNotFound))
		})

		It("translates DBInstanceNotFound", func() {
			client.describeErr = &types.DBInstanceNotFoundFault{Message: aws.String("gone")}

			_, err := repo.Describe(ctx, "db-3")
			Expect(err).To(MatchError(rds.ErrInstanceNotFound))
		})
	})
})
