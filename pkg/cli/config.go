package cli

import (
	"rds-provider/pkg/config"
)

// LoadProviderConfig reads the provider configuration file and applies the
// region and endpoint flags on top of it.
func LoadProviderConfig(path, region, endpoint string) (*config.FileConfig, *config.ProviderConfig, error) {
	fileConfig, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	values := config.Configured{}
	for k, v := range fileConfig.Provider {
		values[k] = v
	}
	if region != "" {
		values[config.KeyRegion] = region
	}
	if endpoint != "" {
		values[config.KeyRegionEndpoint] = endpoint
	}

	providerConfig, err := config.NewProviderConfig(values, fileConfig.CustomTagMappings)
	if err != nil {
		return nil, nil, err
	}
	if len(fileConfig.EncryptionInstanceClasses) > 0 {
		providerConfig.EncryptionInstanceClasses = fileConfig.EncryptionInstanceClasses
	}
	return fileConfig, providerConfig, nil
}
