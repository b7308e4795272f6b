package rds

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTemplateName  = errors.New("template name cannot be empty")
	ErrInvalidEngine        = errors.New("engine cannot be empty")
	ErrInvalidInstanceClass = errors.New("instance class cannot be empty")
	ErrInvalidStorage       = errors.New("allocated storage must be positive")
	ErrInvalidSubnetGroup   = errors.New("DB subnet group name cannot be empty")
	ErrInvalidSecurityGroup = errors.New("at least one VPC security group ID is required")
	ErrInvalidAdminUser     = errors.New("admin username cannot be empty")
	ErrInvalidAdminPassword = errors.New("admin password must be provided")
)

// InstanceTemplate describes a database instance to create. Optional fields
// are pointers and stay nil when the template does not set them.
type InstanceTemplate struct {
	Name string
	Tags map[string]string

	// Engine configuration
	Engine        string
	EngineVersion *string

	// Compute and storage
	InstanceClass    string
	AllocatedStorage int32

	// Network
	DBSubnetGroupName   string
	VpcSecurityGroupIDs []string
	AvailabilityZone    *string
	MultiAZ             *bool
	Port                *int32
	PubliclyAccessible  *bool

	// Authentication
	AdminUsername string
	AdminPassword string

	// Database
	DBName               *string
	DBParameterGroupName *string
	OptionGroupName      *string
	LicenseModel         *string

	// Maintenance and backup
	AutoMinorVersionUpgrade    *bool
	BackupRetentionPeriod      *int32
	PreferredBackupWindow      *string
	PreferredMaintenanceWindow *string

	// Security
	StorageEncrypted *bool

	// Deletion
	SkipFinalSnapshot *bool
}

// Validate checks the required template fields.
func (t *InstanceTemplate) Validate() error {
	if t.Name == "" {
		return ErrInvalidTemplateName
	}
	if t.Engine == "" {
		return ErrInvalidEngine
	}
	if t.InstanceClass == "" {
		return ErrInvalidInstanceClass
	}
	if t.AllocatedStorage <= 0 {
		return ErrInvalidStorage
	}
	if t.DBSubnetGroupName == "" {
		return ErrInvalidSubnetGroup
	}
	if len(t.VpcSecurityGroupIDs) == 0 {
		return ErrInvalidSecurityGroup
	}
	if t.AdminUsername == "" {
		return ErrInvalidAdminUser
	}
	if t.AdminPassword == "" {
		return ErrInvalidAdminPassword
	}
	return nil
}

// ShouldSkipFinalSnapshot reports whether deletion should skip the final DB snapshot.
func (t *InstanceTemplate) ShouldSkipFinalSnapshot() bool {
	return t.SkipFinalSnapshot != nil && *t.SkipFinalSnapshot
}

// String omits the admin password so templates can be logged.
func (t *InstanceTemplate) String() string {
	return fmt.Sprintf("RDSInstanceTemplate{name=%s, engine=%s, instanceClass=%s, allocatedStorage=%d, dbSubnetGroupName=%s}",
		t.Name, t.Engine, t.InstanceClass, t.AllocatedStorage, t.DBSubnetGroupName)
}
