package rds

import (
	"k8s.io/apimachinery/pkg/util/validation/field"

	"rds-provider/internal/domain/rds"
	"rds-provider/pkg/config"
)

// BuildTemplate reads an InstanceTemplate from configuration values. Every
// problem found is reported in a single aggregate error. Storage encryption is
// only accepted for instance classes listed in encryption.
func BuildTemplate(name string, configuration config.Configured, tags map[string]string, encryption config.EncryptionInstanceClasses) (*rds.InstanceTemplate, error) {
	root := field.NewPath("template")

	var errs field.ErrorList
	if name == "" {
		errs = append(errs, field.Required(root.Child("name"), "template name is required"))
	}
	errs = append(errs, config.Validate(config.TemplateProperties, configuration, root)...)

	r := config.NewReader(config.TemplateProperties, configuration)
	if storage := r.OptionalInt32(config.KeyAllocatedStorage); storage != nil && *storage <= 0 {
		errs = append(errs, field.Invalid(root.Child(config.KeyAllocatedStorage), *storage, "must be positive"))
	}
	if port := r.OptionalInt32(config.KeyPort); port != nil && (*port < 1150 || *port > 65535) {
		errs = append(errs, field.Invalid(root.Child(config.KeyPort), *port, "must be between 1150 and 65535"))
	}
	if retention := r.OptionalInt32(config.KeyBackupRetentionPeriod); retention != nil && (*retention < 0 || *retention > 35) {
		errs = append(errs, field.Invalid(root.Child(config.KeyBackupRetentionPeriod), *retention, "must be between 0 and 35"))
	}
	if encrypted := r.OptionalBool(config.KeyStorageEncrypted); encrypted != nil && *encrypted {
		if class := r.String(config.KeyInstanceClass); class != "" && !encryption.Supports(class) {
			errs = append(errs, field.Invalid(root.Child(config.KeyInstanceClass), class,
				"does not support storage encryption"))
		}
	}

	if len(errs) > 0 {
		return nil, errs.ToAggregate()
	}

	template := &rds.InstanceTemplate{
		Name: name,
		Tags: copyTags(tags),

		Engine:        r.String(config.KeyEngine),
		EngineVersion: r.OptionalString(config.KeyEngineVersion),

		InstanceClass:    r.String(config.KeyInstanceClass),
		AllocatedStorage: *r.OptionalInt32(config.KeyAllocatedStorage),

		DBSubnetGroupName:   r.String(config.KeyDBSubnetGroupName),
		VpcSecurityGroupIDs: r.List(config.KeyVpcSecurityGroupIDs),
		AvailabilityZone:    r.OptionalString(config.KeyAvailabilityZone),
		MultiAZ:             r.OptionalBool(config.KeyMultiAZ),
		Port:                r.OptionalInt32(config.KeyPort),
		PubliclyAccessible:  r.OptionalBool(config.KeyPubliclyAccessible),

		AdminUsername: r.String(config.KeyAdminUsername),
		AdminPassword: r.String(config.KeyAdminPassword),

		DBName:               r.OptionalString(config.KeyDBName),
		DBParameterGroupName: r.OptionalString(config.KeyDBParameterGroupName),
		OptionGroupName:      r.OptionalString(config.KeyOptionGroupName),
		LicenseModel:         r.OptionalString(config.KeyLicenseModel),

		AutoMinorVersionUpgrade:    r.OptionalBool(config.KeyAutoMinorVersionUpgrade),
		BackupRetentionPeriod:      r.OptionalInt32(config.KeyBackupRetentionPeriod),
		PreferredBackupWindow:      r.OptionalString(config.KeyPreferredBackupWindow),
		PreferredMaintenanceWindow: r.OptionalString(config.KeyPreferredMaintenanceWindow),

		StorageEncrypted:  r.OptionalBool(config.KeyStorageEncrypted),
		SkipFinalSnapshot: r.OptionalBool(config.KeySkipFinalSnapshot),
	}

	if err := template.Validate(); err != nil {
		return nil, err
	}
	return template, nil
}

func copyTags(tags map[string]string) map[string]string {
	out := make(map[string]string, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}
