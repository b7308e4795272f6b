package clients

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/log"

	awsrds "rds-provider/internal/adapters/aws/rds"
	"rds-provider/internal/adapters/tags"
	"rds-provider/internal/ports"
	rdsuc "rds-provider/internal/usecases/rds"
	awsprovider "rds-provider/pkg/aws"
	"rds-provider/pkg/config"
	"rds-provider/pkg/metrics"
)

// ProviderFactory wires the RDS provider use case from provider configuration.
type ProviderFactory struct {
	config *config.ProviderConfig
	opts   []rdsuc.Option
}

// NewProviderFactory creates a new factory
func NewProviderFactory(providerConfig *config.ProviderConfig, opts ...rdsuc.Option) *ProviderFactory {
	return &ProviderFactory{
		config: providerConfig,
		opts:   opts,
	}
}

// GetRDSProviderUseCase builds an RDS provider use case. When credential
// verification is enabled, the credentials are checked with STS first.
func (f *ProviderFactory) GetRDSProviderUseCase(ctx context.Context) (ports.RDSProviderUseCase, error) {
	logger := log.FromContext(ctx)
	ready := metrics.NewProviderMetricsRecorder(f.config.Region)

	awsConfig, err := awsprovider.LoadConfig(ctx, f.config)
	if err != nil {
		ready.SetNotReady()
		return nil, err
	}

	if f.config.VerifyCredentials {
		identity, err := awsprovider.VerifyCredentials(ctx, awsprovider.NewSTSClient(awsConfig))
		if err != nil {
			logger.Error(err, "Failed to get caller identity")
			ready.SetNotReady()
			return nil, err
		}
		logger.Info("Successfully authenticated", "account", identity.Account, "identity", identity.Arn)
	}

	ready.SetReady()
	repo := awsrds.NewRepository(awsConfig)
	return rdsuc.NewProviderUseCase(repo, tags.NewHelper(f.config.CustomTagMappings), f.config, f.opts...), nil
}
