package rds

import (
	"fmt"
	"time"
)

// Tag is an RDS resource tag.
type Tag struct {
	Key   string
	Value string
}

// CreateRequest carries the fields of a CreateDBInstance call. Nil optional
// fields are omitted from the call.
type CreateRequest struct {
	DBInstanceIdentifier string
	DBInstanceClass      string
	DBSubnetGroupName    string
	VpcSecurityGroupIDs  []string
	AllocatedStorage     int32
	Engine               string
	MasterUsername       string
	MasterUserPassword   string
	PubliclyAccessible   *bool
	Tags                 []Tag

	EngineVersion              *string
	AvailabilityZone           *string
	AutoMinorVersionUpgrade    *bool
	BackupRetentionPeriod      *int32
	DBName                     *string
	DBParameterGroupName       *string
	LicenseModel               *string
	MultiAZ                    *bool
	OptionGroupName            *string
	Port                       *int32
	PreferredBackupWindow      *string
	PreferredMaintenanceWindow *string
	StorageEncrypted           *bool
}

// DeleteRequest carries the fields of a DeleteDBInstance call. Exactly one of
// SkipFinalSnapshot or FinalDBSnapshotIdentifier is meaningful.
type DeleteRequest struct {
	DBInstanceIdentifier      string
	SkipFinalSnapshot         bool
	FinalDBSnapshotIdentifier *string
}

// NewCreateRequest builds a creation request for virtualInstanceID from the template.
// publiclyAccessible is the provider default, overridden by the template when set.
func NewCreateRequest(template *InstanceTemplate, virtualInstanceID string, publiclyAccessible bool, tags []Tag) *CreateRequest {
	req := &CreateRequest{
		DBInstanceIdentifier: virtualInstanceID,
		DBInstanceClass:      template.InstanceClass,
		DBSubnetGroupName:    template.DBSubnetGroupName,
		VpcSecurityGroupIDs:  append([]string(nil), template.VpcSecurityGroupIDs...),
		AllocatedStorage:     template.AllocatedStorage,
		Engine:               template.Engine,
		MasterUsername:       template.AdminUsername,
		MasterUserPassword:   template.AdminPassword,
		PubliclyAccessible:   &publiclyAccessible,
		Tags:                 tags,

		EngineVersion:              template.EngineVersion,
		AvailabilityZone:           template.AvailabilityZone,
		AutoMinorVersionUpgrade:    template.AutoMinorVersionUpgrade,
		BackupRetentionPeriod:      template.BackupRetentionPeriod,
		DBName:                     template.DBName,
		DBParameterGroupName:       template.DBParameterGroupName,
		LicenseModel:               template.LicenseModel,
		MultiAZ:                    template.MultiAZ,
		OptionGroupName:            template.OptionGroupName,
		Port:                       template.Port,
		PreferredBackupWindow:      template.PreferredBackupWindow,
		PreferredMaintenanceWindow: template.PreferredMaintenanceWindow,
		StorageEncrypted:           template.StorageEncrypted,
	}

	if template.PubliclyAccessible != nil {
		v := *template.PubliclyAccessible
		req.PubliclyAccessible = &v
	}

	return req
}

// FinalSnapshotIdentifier names the snapshot taken when an instance is deleted.
// The timestamp keeps names unique across delete/recreate cycles of the same id.
func FinalSnapshotIdentifier(virtualInstanceID string, now time.Time) string {
	return fmt.Sprintf("%s-director-final-snapshot-%d", virtualInstanceID, now.UnixMilli())
}

// NewDeleteRequest builds a deletion request honouring the template's final snapshot policy.
func NewDeleteRequest(template *InstanceTemplate, virtualInstanceID string, now time.Time) *DeleteRequest {
	req := &DeleteRequest{DBInstanceIdentifier: virtualInstanceID}
	if template.ShouldSkipFinalSnapshot() {
		req.SkipFinalSnapshot = true
		return req
	}

	snapshotID := FinalSnapshotIdentifier(virtualInstanceID, now)
	req.FinalDBSnapshotIdentifier = &snapshotID
	return req
}
