package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"rds-provider/pkg/config"
	"rds-provider/pkg/metrics"
)

// STSClient is the subset of the STS API used to verify credentials.
type STSClient interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// CallerIdentity is the AWS principal the provider runs as.
type CallerIdentity struct {
	Account string
	Arn     string
}

// LoadConfig builds an AWS SDK config from the provider configuration.
// Static keys win over a named profile; with neither, the default credential
// chain is used.
func LoadConfig(ctx context.Context, providerConfig *config.ProviderConfig) (aws.Config, error) {
	// Base config with region
	configOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(providerConfig.Region),
	}

	if providerConfig.AccessKeyID != "" && providerConfig.SecretAccessKey != "" {
		configOptions = append(configOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(providerConfig.AccessKeyID, providerConfig.SecretAccessKey, providerConfig.SessionToken),
		))
	} else if providerConfig.Profile != "" {
		configOptions = append(configOptions, awsconfig.WithSharedConfigProfile(providerConfig.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// If custom endpoint is provided (for LocalStack or custom AWS endpoint)
	if providerConfig.RegionEndpoint != "" {
		cfg.BaseEndpoint = aws.String(providerConfig.RegionEndpoint)
	}

	return cfg, nil
}

// NewSTSClient returns an STS client for cfg.
func NewSTSClient(cfg aws.Config) STSClient {
	return sts.NewFromConfig(cfg)
}

// VerifyCredentials checks the credentials using STS GetCallerIdentity.
func VerifyCredentials(ctx context.Context, client STSClient) (*CallerIdentity, error) {
	recorder := metrics.NewAWSAPIMetricsRecorder(metrics.ServiceSTS, "GetCallerIdentity")

	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		recorder.RecordError(err)
		return nil, fmt.Errorf("authentication failed: %w", err)
	}
	recorder.RecordSuccess()

	return &CallerIdentity{
		Account: aws.ToString(identity.Account),
		Arn:     aws.ToString(identity.Arn),
	}, nil
}
