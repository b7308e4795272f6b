package config

import (
	"net/url"
	"os"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// ProviderConfig is the validated provider-level configuration.
type ProviderConfig struct {
	AssociatePublicIPAddresses bool
	Region                     string
	RegionEndpoint             string
	AccessKeyID                string
	SecretAccessKey            string
	SessionToken               string
	Profile                    string
	VerifyCredentials          bool
	CustomTagMappings          map[string]string
	EncryptionInstanceClasses  EncryptionInstanceClasses
}

// NewProviderConfig validates c and builds a ProviderConfig. Region and
// endpoint fall back to AWS_REGION and AWS_ENDPOINT_URL. All validation
// problems are returned together as one aggregate error.
func NewProviderConfig(c Configured, customTagMappings map[string]string) (*ProviderConfig, error) {
	root := field.NewPath("provider")
	errs := Validate(ProviderProperties, c, root)

	r := NewReader(ProviderProperties, c)
	cfg := &ProviderConfig{
		AssociatePublicIPAddresses: r.Bool(KeyAssociatePublicIPAddresses),
		Region:                     r.String(KeyRegion),
		RegionEndpoint:             r.String(KeyRegionEndpoint),
		AccessKeyID:                r.String(KeyAccessKeyID),
		SecretAccessKey:            r.String(KeySecretAccessKey),
		SessionToken:               r.String(KeySessionToken),
		Profile:                    r.String(KeyProfile),
		VerifyCredentials:          r.Bool(KeyVerifyCredentials),
		CustomTagMappings:          customTagMappings,
		EncryptionInstanceClasses:  DefaultEncryptionInstanceClasses,
	}

	if cfg.Region == "" {
		cfg.Region = getEnvOrDefault("AWS_REGION", "us-east-1")
	}
	if cfg.RegionEndpoint == "" {
		cfg.RegionEndpoint = os.Getenv("AWS_ENDPOINT_URL")
	} else if u, err := url.Parse(cfg.RegionEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, field.Invalid(root.Child(KeyRegionEndpoint), cfg.RegionEndpoint, "must be an absolute URL"))
	}

	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		errs = append(errs, field.Required(root.Child(KeySecretAccessKey),
			"accessKeyId and secretAccessKey must be set together"))
	}

	for key, mapped := range customTagMappings {
		if mapped == "" {
			errs = append(errs, field.Required(field.NewPath("customTagMappings").Key(key), "mapped tag key cannot be empty"))
		}
	}

	if len(errs) > 0 {
		return nil, errs.ToAggregate()
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
