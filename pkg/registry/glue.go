package registry

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/glue"
)

// GlueAPI is the subset of the AWS Glue client used by the registry.
// *glue.Client satisfies it.
type GlueAPI interface {
	GetSchemaVersion(ctx context.Context, params *glue.GetSchemaVersionInput, optFns ...func(*glue.Options)) (*glue.GetSchemaVersionOutput, error)
	GetSchemaByDefinition(ctx context.Context, params *glue.GetSchemaByDefinitionInput, optFns ...func(*glue.Options)) (*glue.GetSchemaByDefinitionOutput, error)
	RegisterSchemaVersion(ctx context.Context, params *glue.RegisterSchemaVersionInput, optFns ...func(*glue.Options)) (*glue.RegisterSchemaVersionOutput, error)
	CreateSchema(ctx context.Context, params *glue.CreateSchemaInput, optFns ...func(*glue.Options)) (*glue.CreateSchemaOutput, error)
	PutSchemaVersionMetadata(ctx context.Context, params *glue.PutSchemaVersionMetadataInput, optFns ...func(*glue.Options)) (*glue.PutSchemaVersionMetadataOutput, error)
	CreateRegistry(ctx context.Context, params *glue.CreateRegistryInput, optFns ...func(*glue.Options)) (*glue.CreateRegistryOutput, error)
	DeleteRegistry(ctx context.Context, params *glue.DeleteRegistryInput, optFns ...func(*glue.Options)) (*glue.DeleteRegistryOutput, error)
}

var _ GlueAPI = (*glue.Client)(nil)

// GlueConfig selects the AWS endpoint used by NewGlueAPI.
// Empty values fall back to the default AWS configuration chain.
type GlueConfig struct {
	Region   string
	Endpoint string
}

// NewGlueAPI builds a Glue client from the default AWS configuration chain.
func NewGlueAPI(ctx context.Context, conf GlueConfig) (*glue.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if conf.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(conf.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return glue.NewFromConfig(awsCfg, func(o *glue.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	}), nil
}
