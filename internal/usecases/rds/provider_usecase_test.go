package rds_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rds-provider/internal/adapters/tags"
	"rds-provider/internal/domain/rds"
	"rds-provider/internal/ports"
	usecase "rds-provider/internal/usecases/rds"
	"rds-provider/pkg/config"
)

// fakeRepository keeps DB instances in memory and records every call.
type fakeRepository struct {
	instances map[string]*rds.DBInstance
	failures  map[string]error

	creates   []*rds.CreateRequest
	deletes   []*rds.DeleteRequest
	describes []string

	// afterCall runs after each recorded call.
	afterCall func(calls int)
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		instances: map[string]*rds.DBInstance{},
		failures:  map[string]error{},
	}
}

func (f *fakeRepository) calls() int {
	return len(f.creates) + len(f.deletes) + len(f.describes)
}

func (f *fakeRepository) done() {
	if f.afterCall != nil {
		f.afterCall(f.calls())
	}
}

func (f *fakeRepository) Create(_ context.Context, req *rds.CreateRequest) (*rds.DBInstance, error) {
	f.creates = append(f.creates, req)
	defer f.done()
	if err := f.failures[req.DBInstanceIdentifier]; err != nil {
		return nil, err
	}
	record := &rds.DBInstance{DBInstanceIdentifier: req.DBInstanceIdentifier, Status: "creating"}
	f.instances[req.DBInstanceIdentifier] = record
	return record, nil
}

func (f *fakeRepository) Delete(_ context.Context, req *rds.DeleteRequest) (*rds.DBInstance, error) {
	f.deletes = append(f.deletes, req)
	defer f.done()
	if err := f.failures[req.DBInstanceIdentifier]; err != nil {
		return nil, err
	}
	record, ok := f.instances[req.DBInstanceIdentifier]
	if !ok {
		return nil, fmt.Errorf("DB instance %s: %w", req.DBInstanceIdentifier, rds.ErrInstanceNotFound)
	}
	delete(f.instances, req.DBInstanceIdentifier)
	record.Status = "deleting"
	return record, nil
}

func (f *fakeRepository) Describe(_ context.Context, id string) (*rds.DBInstance, error) {
	f.describes = append(f.describes, id)
	defer f.done()
	if err := f.failures[id]; err != nil {
		return nil, err
	}
	record, ok := f.instances[id]
	if !ok {
		return nil, fmt.Errorf("DB instance %s: %w", id, rds.ErrInstanceNotFound)
	}
	return record, nil
}

func boolPtr(b bool) *bool    { return &b }
func int32Ptr(i int32) *int32 { return &i }
func strPtr(s string) *string { return &s }

func minimalTemplate() *rds.InstanceTemplate {
	return &rds.InstanceTemplate{
		Name:                "pg",
		Tags:                map[string]string{"owner": "data"},
		Engine:              "postgres",
		InstanceClass:       "db.t3.micro",
		AllocatedStorage:    20,
		DBSubnetGroupName:   "default",
		VpcSecurityGroupIDs: []string{"sg-1"},
		AdminUsername:       "admin",
		AdminPassword:       "password",
	}
}

var _ = Describe("ProviderUseCase", func() {
	var (
		ctx      context.Context
		cancel   context.CancelFunc
		repo     *fakeRepository
		template *rds.InstanceTemplate
		uc       ports.RDSProviderUseCase
		now      time.Time
	)

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		DeferCleanup(cancel)

		repo = newFakeRepository()
		template = minimalTemplate()
		now = time.UnixMilli(1700000000123)
		uc = usecase.NewProviderUseCase(repo, tags.NewHelper(nil), &config.ProviderConfig{},
			usecase.WithClock(func() time.Time { return now }))
	})

	Describe("Allocate", func() {
		It("issues one creation request per id", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1", "db-2"}, 2)).To(Succeed())

			Expect(repo.creates).To(HaveLen(2))
			Expect(repo.creates[0].DBInstanceIdentifier).To(Equal("db-1"))
			Expect(repo.creates[1].DBInstanceIdentifier).To(Equal("db-2"))
		})

		It("omits every optional field the template leaves unset", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())

			req := repo.creates[0]
			Expect(req.PubliclyAccessible).To(Equal(boolPtr(false)))
			Expect(req.EngineVersion).To(BeNil())
			Expect(req.AvailabilityZone).To(BeNil())
			Expect(req.AutoMinorVersionUpgrade).To(BeNil())
			Expect(req.BackupRetentionPeriod).To(BeNil())
			Expect(req.DBName).To(BeNil())
			Expect(req.DBParameterGroupName).To(BeNil())
			Expect(req.LicenseModel).To(BeNil())
			Expect(req.MultiAZ).To(BeNil())
			Expect(req.OptionGroupName).To(BeNil())
			Expect(req.Port).To(BeNil())
			Expect(req.PreferredBackupWindow).To(BeNil())
			Expect(req.PreferredMaintenanceWindow).To(BeNil())
			Expect(req.StorageEncrypted).To(BeNil())
		})

		It("carries every optional field the template sets", func() {
			template.EngineVersion = strPtr("15.4")
			template.AvailabilityZone = strPtr("us-east-1a")
			template.AutoMinorVersionUpgrade = boolPtr(true)
			template.BackupRetentionPeriod = int32Ptr(7)
			template.DBName = strPtr("app")
			template.DBParameterGroupName = strPtr("pg15")
			template.LicenseModel = strPtr("general-public-license")
			template.MultiAZ = boolPtr(true)
			template.OptionGroupName = strPtr("default:postgres-15")
			template.Port = int32Ptr(5433)
			template.PreferredBackupWindow = strPtr("03:00-04:00")
			template.PreferredMaintenanceWindow = strPtr("sun:05:00-sun:06:00")
			template.StorageEncrypted = boolPtr(true)
			template.PubliclyAccessible = boolPtr(true)

			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())

			req := repo.creates[0]
			Expect(req.EngineVersion).To(Equal(strPtr("15.4")))
			Expect(req.AvailabilityZone).To(Equal(strPtr("us-east-1a")))
			Expect(req.AutoMinorVersionUpgrade).To(Equal(boolPtr(true)))
			Expect(req.BackupRetentionPeriod).To(Equal(int32Ptr(7)))
			Expect(req.DBName).To(Equal(strPtr("app")))
			Expect(req.DBParameterGroupName).To(Equal(strPtr("pg15")))
			Expect(req.LicenseModel).To(Equal(strPtr("general-public-license")))
			Expect(req.MultiAZ).To(Equal(boolPtr(true)))
			Expect(req.OptionGroupName).To(Equal(strPtr("default:postgres-15")))
			Expect(req.Port).To(Equal(int32Ptr(5433)))
			Expect(req.PreferredBackupWindow).To(Equal(strPtr("03:00-04:00")))
			Expect(req.PreferredMaintenanceWindow).To(Equal(strPtr("sun:05:00-sun:06:00")))
			Expect(req.StorageEncrypted).To(Equal(boolPtr(true)))
			Expect(req.PubliclyAccessible).To(Equal(boolPtr(true)))
		})

		It("defaults public access to the provider setting", func() {
			uc = usecase.NewProviderUseCase(repo, tags.NewHelper(nil),
				&config.ProviderConfig{AssociatePublicIPAddresses: true})

			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())
			Expect(repo.creates[0].PubliclyAccessible).To(Equal(boolPtr(true)))
		})

		It("tags instances with user and system tags", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())

			Expect(repo.creates[0].Tags).To(ContainElements(
				rds.Tag{Key: "owner", Value: "data"},
				rds.Tag{Key: tags.TagTemplateName, Value: "pg"},
				rds.Tag{Key: tags.TagInstanceID, Value: "db-1"},
				rds.Tag{Key: tags.TagManagedBy, Value: tags.ManagedByValue},
			))
		})

		It("aborts the remaining ids on the first failure", func() {
			repo.failures["db-2"] = errors.New("InsufficientDBInstanceCapacity")

			err := uc.Allocate(ctx, template, []string{"db-1", "db-2", "db-3"}, 3)
			Expect(err).To(MatchError("InsufficientDBInstanceCapacity"))
			Expect(repo.creates).To(HaveLen(2))
			Expect(repo.instances).To(HaveKey("db-1"))
		})

		It("stops issuing requests once interrupted", func() {
			repo.afterCall = func(calls int) {
				if calls == 1 {
					cancel()
				}
			}

			Expect(uc.Allocate(ctx, template, []string{"db-1", "db-2", "db-3"}, 3)).To(Succeed())
			Expect(repo.creates).To(HaveLen(1))
		})
	})

	Describe("Find", func() {
		BeforeEach(func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1", "db-2"}, 2)).To(Succeed())
		})

		It("returns the instances that exist and omits the rest", func() {
			instances, err := uc.Find(ctx, template, []string{"db-1", "db-2", "db-3"})
			Expect(err).NotTo(HaveOccurred())
			Expect(instances).To(HaveLen(2))
			Expect(instances[0].VirtualInstanceID).To(Equal("db-1"))
			Expect(instances[1].VirtualInstanceID).To(Equal("db-2"))
			Expect(instances[0].Template).To(BeIdenticalTo(template))
		})

		It("omits instances rejected by the ownership check", func() {
			uc = usecase.NewProviderUseCase(repo, tags.NewHelper(nil), nil,
				usecase.WithOwnershipCheck(func(record *rds.DBInstance, _ *rds.InstanceTemplate) bool {
					return record.DBInstanceIdentifier != "db-2"
				}))

			instances, err := uc.Find(ctx, template, []string{"db-1", "db-2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(instances).To(HaveLen(1))
			Expect(instances[0].VirtualInstanceID).To(Equal("db-1"))
		})

		It("propagates other errors", func() {
			repo.failures["db-2"] = errors.New("AccessDenied")

			_, err := uc.Find(ctx, template, []string{"db-1", "db-2"})
			Expect(err).To(MatchError("AccessDenied"))
		})

		It("returns what was collected when interrupted", func() {
			repo.describes = nil
			repo.afterCall = func(int) {
				if len(repo.describes) == 1 {
					cancel()
				}
			}

			instances, err := uc.Find(ctx, template, []string{"db-1", "db-2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(instances).To(HaveLen(1))
			Expect(repo.describes).To(Equal([]string{"db-1"}))
		})
	})

	Describe("Delete", func() {
		It("makes no calls for an empty id set", func() {
			Expect(uc.Delete(ctx, template, nil)).To(Succeed())
			Expect(uc.Delete(ctx, template, []string{})).To(Succeed())
			Expect(repo.calls()).To(Equal(0))
		})

		It("takes a final snapshot by default", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())
			Expect(uc.Delete(ctx, template, []string{"db-1"})).To(Succeed())

			req := repo.deletes[0]
			Expect(req.SkipFinalSnapshot).To(BeFalse())
			Expect(req.FinalDBSnapshotIdentifier).NotTo(BeNil())
			Expect(*req.FinalDBSnapshotIdentifier).To(MatchRegexp(`^db-1-director-final-snapshot-\d+$`))
			Expect(*req.FinalDBSnapshotIdentifier).To(Equal("db-1-director-final-snapshot-1700000000123"))
		})

		It("skips the final snapshot when the template says so", func() {
			template.SkipFinalSnapshot = boolPtr(true)

			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())
			Expect(uc.Delete(ctx, template, []string{"db-1"})).To(Succeed())

			req := repo.deletes[0]
			Expect(req.SkipFinalSnapshot).To(BeTrue())
			Expect(req.FinalDBSnapshotIdentifier).To(BeNil())
		})

		It("is idempotent", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1"}, 1)).To(Succeed())

			Expect(uc.Delete(ctx, template, []string{"db-1"})).To(Succeed())
			Expect(uc.Delete(ctx, template, []string{"db-1"})).To(Succeed())
			Expect(repo.deletes).To(HaveLen(2))
		})

		It("aborts the remaining ids on other errors", func() {
			repo.failures["db-1"] = errors.New("InvalidDBInstanceState")

			err := uc.Delete(ctx, template, []string{"db-1", "db-2"})
			Expect(err).To(MatchError("InvalidDBInstanceState"))
			Expect(repo.deletes).To(HaveLen(1))
		})

		It("stops issuing requests once interrupted", func() {
			repo.afterCall = func(calls int) {
				if calls == 1 {
					cancel()
				}
			}

			Expect(uc.Delete(ctx, template, []string{"db-1", "db-2"})).To(Succeed())
			Expect(repo.deletes).To(HaveLen(1))
		})

		It("issues no requests when already interrupted", func() {
			cancel()

			Expect(uc.Delete(ctx, template, []string{"db-1"})).To(Succeed())
			Expect(repo.calls()).To(Equal(0))
		})
	})

	Describe("GetInstanceState", func() {
		It("reports UNKNOWN for ids that were never allocated", func() {
			states, err := uc.GetInstanceState(ctx, template, []string{"db-9"})
			Expect(err).NotTo(HaveOccurred())
			Expect(states).To(HaveKeyWithValue("db-9", HaveField("Stage", rds.StageUnknown)))
		})

		It("maps the RDS status of each instance", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1", "db-2"}, 2)).To(Succeed())
			repo.instances["db-2"].Status = "available"

			states, err := uc.GetInstanceState(ctx, template, []string{"db-1", "db-2", "db-3"})
			Expect(err).NotTo(HaveOccurred())
			Expect(states).To(HaveLen(3))
			Expect(states["db-1"].Stage).To(Equal(rds.StagePending))
			Expect(states["db-2"].Stage).To(Equal(rds.StageRunning))
			Expect(states["db-3"].Stage).To(Equal(rds.StageUnknown))
		})

		It("reports a state for every requested id", func() {
			ids := []string{"db-1", "db-2", "db-3", "db-4"}
			Expect(uc.Allocate(ctx, template, ids[:2], 2)).To(Succeed())

			states, err := uc.GetInstanceState(ctx, template, ids)
			Expect(err).NotTo(HaveOccurred())
			Expect(states).To(HaveLen(len(ids)))
			for _, id := range ids {
				Expect(states).To(HaveKey(id))
			}
		})

		It("fills the unqueried ids with UNKNOWN when interrupted", func() {
			Expect(uc.Allocate(ctx, template, []string{"db-1", "db-2"}, 2)).To(Succeed())
			repo.describes = nil
			repo.afterCall = func(int) {
				if len(repo.describes) == 1 {
					cancel()
				}
			}

			states, err := uc.GetInstanceState(ctx, template, []string{"db-1", "db-2"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.describes).To(Equal([]string{"db-1"}))
			Expect(states).To(HaveLen(2))
			Expect(states["db-1"].Stage).To(Equal(rds.StagePending))
			Expect(states["db-2"].Stage).To(Equal(rds.StageUnknown))
		})

		It("propagates other errors", func() {
			repo.failures["db-1"] = errors.New("AccessDenied")

			_, err := uc.GetInstanceState(ctx, template, []string{"db-1"})
			Expect(err).To(MatchError("AccessDenied"))
		})
	})

	Describe("CreateTemplate", func() {
		var configuration config.Configured

		BeforeEach(func() {
			configuration = config.Configured{
				config.KeyEngine:              "postgres",
				config.KeyInstanceClass:       "db.t3.micro",
				config.KeyAllocatedStorage:    "20",
				config.KeyDBSubnetGroupName:   "default",
				config.KeyVpcSecurityGroupIDs: "sg-1, sg-2",
				config.KeyAdminUsername:       "admin",
				config.KeyAdminPassword:       "password",
			}
		})

		It("builds a template with only the required fields", func() {
			t, err := uc.CreateTemplate("pg", configuration, map[string]string{"owner": "data"})
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Name).To(Equal("pg"))
			Expect(t.AllocatedStorage).To(Equal(int32(20)))
			Expect(t.VpcSecurityGroupIDs).To(Equal([]string{"sg-1", "sg-2"}))
			Expect(t.Tags).To(HaveKeyWithValue("owner", "data"))
			Expect(t.EngineVersion).To(BeNil())
			Expect(t.SkipFinalSnapshot).To(BeNil())
		})

		It("reads optional fields", func() {
			configuration[config.KeyMultiAZ] = "true"
			configuration[config.KeyPort] = "5433"
			configuration[config.KeySkipFinalSnapshot] = "true"

			t, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.MultiAZ).To(Equal(boolPtr(true)))
			Expect(t.Port).To(Equal(int32Ptr(5433)))
			Expect(t.ShouldSkipFinalSnapshot()).To(BeTrue())
		})

		It("reports every problem at once", func() {
			delete(configuration, config.KeyEngine)
			configuration[config.KeyAllocatedStorage] = "lots"
			configuration[config.KeyMultiAZ] = "maybe"

			_, err := uc.CreateTemplate("", configuration, nil)
			Expect(err).To(HaveOccurred())
			for _, fragment := range []string{"template.name", "template.engine", "template.allocatedStorage", "template.multiAZ"} {
				Expect(err.Error()).To(ContainSubstring(fragment))
			}
		})

		It("rejects a non-positive storage size", func() {
			configuration[config.KeyAllocatedStorage] = "0"

			_, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).To(MatchError(MatchRegexp(`template\.allocatedStorage.*must be positive`)))
		})

		It("accepts engine specific license models", func() {
			configuration[config.KeyLicenseModel] = "postgresql-license"

			t, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.LicenseModel).To(Equal(strPtr("postgresql-license")))
		})

		It("accepts storage encryption on instance classes that support it", func() {
			configuration[config.KeyStorageEncrypted] = "true"

			t, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.StorageEncrypted).To(Equal(boolPtr(true)))
		})

		It("rejects storage encryption on instance classes without support", func() {
			configuration[config.KeyInstanceClass] = "db.t2.micro"
			configuration[config.KeyStorageEncrypted] = "true"
			configuration[config.KeyAllocatedStorage] = "0"

			_, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).To(MatchError(ContainSubstring("template.instanceClass")))
			Expect(err).To(MatchError(ContainSubstring("does not support storage encryption")))
			Expect(err).To(MatchError(ContainSubstring("template.allocatedStorage")))
		})

		It("ignores the instance class when storage is not encrypted", func() {
			configuration[config.KeyInstanceClass] = "db.t2.micro"
			configuration[config.KeyStorageEncrypted] = "false"

			_, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("uses the encryption instance classes of the provider configuration", func() {
			uc = usecase.NewProviderUseCase(repo, tags.NewHelper(nil), &config.ProviderConfig{
				EncryptionInstanceClasses: config.EncryptionInstanceClasses{"db.t2.micro"},
			})
			configuration[config.KeyInstanceClass] = "db.t2.micro"
			configuration[config.KeyStorageEncrypted] = "true"

			_, err := uc.CreateTemplate("pg", configuration, nil)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
