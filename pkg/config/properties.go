package config

// Provider configuration keys.
const (
	KeyAssociatePublicIPAddresses = "rdsAssociatePublicIpAddresses"
	KeyRegion                     = "rdsRegion"
	KeyRegionEndpoint             = "rdsRegionEndpoint"
	KeyAccessKeyID                = "accessKeyId"
	KeySecretAccessKey            = "secretAccessKey"
	KeySessionToken               = "sessionToken"
	KeyProfile                    = "profile"
	KeyVerifyCredentials          = "verifyCredentials"
)

// Template configuration keys.
const (
	KeyEngine                     = "engine"
	KeyEngineVersion              = "engineVersion"
	KeyInstanceClass              = "instanceClass"
	KeyAllocatedStorage           = "allocatedStorage"
	KeyDBSubnetGroupName          = "dbSubnetGroupName"
	KeyVpcSecurityGroupIDs        = "vpcSecurityGroupIds"
	KeyAdminUsername              = "adminUsername"
	KeyAdminPassword              = "adminPassword"
	KeyAvailabilityZone           = "availabilityZone"
	KeyAutoMinorVersionUpgrade    = "autoMinorVersionUpgrade"
	KeyBackupRetentionPeriod      = "backupRetentionPeriod"
	KeyDBName                     = "dbName"
	KeyDBParameterGroupName       = "dbParameterGroupName"
	KeyLicenseModel               = "licenseModel"
	KeyMultiAZ                    = "multiAZ"
	KeyOptionGroupName            = "optionGroupName"
	KeyPort                       = "port"
	KeyPreferredBackupWindow      = "preferredBackupWindow"
	KeyPreferredMaintenanceWindow = "preferredMaintenanceWindow"
	KeyPubliclyAccessible         = "publiclyAccessible"
	KeyStorageEncrypted           = "storageEncrypted"
	KeySkipFinalSnapshot          = "skipFinalSnapshot"
)

// Regions offered for rdsRegion. The list is open: other regions are accepted.
var Regions = []string{
	"ap-northeast-1",
	"ap-northeast-2",
	"ap-south-1",
	"ap-southeast-1",
	"ap-southeast-2",
	"ca-central-1",
	"eu-central-1",
	"eu-west-1",
	"eu-west-2",
	"sa-east-1",
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
}

// Engines supported by the provider.
var Engines = []string{
	"mysql",
	"mariadb",
	"postgres",
	"aurora-mysql",
	"aurora-postgresql",
	"oracle-se2",
	"oracle-ee",
	"sqlserver-ex",
	"sqlserver-web",
	"sqlserver-se",
	"sqlserver-ee",
}

// LicenseModels accepted by RDS across engines.
var LicenseModels = []string{
	"license-included",
	"bring-your-own-license",
	"general-public-license",
	"postgresql-license",
	"marketplace-license",
}

// ProviderProperties is the provider configuration-option table.
var ProviderProperties = []Property{
	{
		Key:          KeyAssociatePublicIPAddresses,
		Name:         "Associate public IP addresses",
		Description:  "Whether to associate a public IP address with instances. Differs from the RDS default.",
		Type:         TypeBool,
		DefaultValue: "false",
	},
	{
		Key:         KeyRegion,
		Name:        "RDS region",
		Description: "The RDS region (defaults to AWS_REGION, then us-east-1).",
		Type:        TypeString,
		ValidValues: Regions,
		OpenList:    true,
	},
	{
		Key:         KeyRegionEndpoint,
		Name:        "RDS region endpoint",
		Description: "Optional URL used to reach the RDS API, for GovCloud or custom endpoints.",
		Type:        TypeString,
	},
	{
		Key:         KeyAccessKeyID,
		Name:        "AWS access key ID",
		Description: "Static credentials; the default credential chain is used when unset.",
		Type:        TypeString,
	},
	{
		Key:       KeySecretAccessKey,
		Name:      "AWS secret access key",
		Type:      TypeString,
		Sensitive: true,
	},
	{
		Key:       KeySessionToken,
		Name:      "AWS session token",
		Type:      TypeString,
		Sensitive: true,
	},
	{
		Key:         KeyProfile,
		Name:        "AWS profile",
		Description: "Named profile from the shared AWS config files.",
		Type:        TypeString,
	},
	{
		Key:          KeyVerifyCredentials,
		Name:         "Verify credentials",
		Description:  "Call STS GetCallerIdentity when the provider is created.",
		Type:         TypeBool,
		DefaultValue: "false",
	},
}

// TemplateProperties is the instance template configuration-option table.
var TemplateProperties = []Property{
	{Key: KeyEngine, Name: "Engine", Type: TypeString, Required: true, ValidValues: Engines},
	{Key: KeyEngineVersion, Name: "Engine version", Type: TypeString},
	{Key: KeyInstanceClass, Name: "Instance class", Type: TypeString, Required: true,
		Description: "DB instance class, for example db.t3.micro."},
	{Key: KeyAllocatedStorage, Name: "Allocated storage (GB)", Type: TypeInt, Required: true},
	{Key: KeyDBSubnetGroupName, Name: "DB subnet group name", Type: TypeString, Required: true},
	{Key: KeyVpcSecurityGroupIDs, Name: "VPC security group IDs", Type: TypeList, Required: true,
		Description: "Comma-separated list of VPC security group IDs."},
	{Key: KeyAdminUsername, Name: "Admin username", Type: TypeString, Required: true},
	{Key: KeyAdminPassword, Name: "Admin password", Type: TypeString, Required: true, Sensitive: true},
	{Key: KeyAvailabilityZone, Name: "Availability zone", Type: TypeString},
	{Key: KeyAutoMinorVersionUpgrade, Name: "Auto minor version upgrade", Type: TypeBool},
	{Key: KeyBackupRetentionPeriod, Name: "Backup retention period (days)", Type: TypeInt},
	{Key: KeyDBName, Name: "Database name", Type: TypeString},
	{Key: KeyDBParameterGroupName, Name: "DB parameter group name", Type: TypeString},
	{Key: KeyLicenseModel, Name: "License model", Type: TypeString,
		ValidValues: LicenseModels},
	{Key: KeyMultiAZ, Name: "Multi-AZ", Type: TypeBool},
	{Key: KeyOptionGroupName, Name: "Option group name", Type: TypeString},
	{Key: KeyPort, Name: "Port", Type: TypeInt},
	{Key: KeyPreferredBackupWindow, Name: "Preferred backup window", Type: TypeString,
		Description: "Daily UTC window, hh24:mi-hh24:mi."},
	{Key: KeyPreferredMaintenanceWindow, Name: "Preferred maintenance window", Type: TypeString,
		Description: "Weekly UTC window, ddd:hh24:mi-ddd:hh24:mi."},
	{Key: KeyPubliclyAccessible, Name: "Publicly accessible", Type: TypeBool},
	{Key: KeyStorageEncrypted, Name: "Storage encrypted", Type: TypeBool},
	{Key: KeySkipFinalSnapshot, Name: "Skip final snapshot", Type: TypeBool},
}
