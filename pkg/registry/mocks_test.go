package registry

import (
	"context"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockGlueAPI is a mock for GlueAPI interface
type mockGlueAPI struct {
	mock.Mock
}

func (m *mockGlueAPI) GetSchemaVersion(ctx context.Context, params *glue.GetSchemaVersionInput, _ ...func(*glue.Options)) (*glue.GetSchemaVersionOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.GetSchemaVersionOutput), args.Error(1)
}

func (m *mockGlueAPI) GetSchemaByDefinition(ctx context.Context, params *glue.GetSchemaByDefinitionInput, _ ...func(*glue.Options)) (*glue.GetSchemaByDefinitionOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.GetSchemaByDefinitionOutput), args.Error(1)
}

func (m *mockGlueAPI) RegisterSchemaVersion(ctx context.Context, params *glue.RegisterSchemaVersionInput, _ ...func(*glue.Options)) (*glue.RegisterSchemaVersionOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.RegisterSchemaVersionOutput), args.Error(1)
}

func (m *mockGlueAPI) CreateSchema(ctx context.Context, params *glue.CreateSchemaInput, _ ...func(*glue.Options)) (*glue.CreateSchemaOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.CreateSchemaOutput), args.Error(1)
}

func (m *mockGlueAPI) PutSchemaVersionMetadata(ctx context.Context, params *glue.PutSchemaVersionMetadataInput, _ ...func(*glue.Options)) (*glue.PutSchemaVersionMetadataOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.PutSchemaVersionMetadataOutput), args.Error(1)
}

func (m *mockGlueAPI) CreateRegistry(ctx context.Context, params *glue.CreateRegistryInput, _ ...func(*glue.Options)) (*glue.CreateRegistryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.CreateRegistryOutput), args.Error(1)
}

func (m *mockGlueAPI) DeleteRegistry(ctx context.Context, params *glue.DeleteRegistryInput, _ ...func(*glue.Options)) (*glue.DeleteRegistryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.DeleteRegistryOutput), args.Error(1)
}

// mockRegistry is a mock for Registry interface
type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetSchemaVersion(ctx context.Context, versionID uuid.UUID) (*schema.SchemaVersion, error) {
	args := m.Called(ctx, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.SchemaVersion), args.Error(1)
}

func (m *mockRegistry) GetSchemaByDefinition(ctx context.Context, definition, schemaName string) (*schema.SchemaVersion, error) {
	args := m.Called(ctx, definition, schemaName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.SchemaVersion), args.Error(1)
}

func (m *mockRegistry) RegisterSchemaVersion(ctx context.Context, definition, schemaName string, metadata Metadata) (uuid.UUID, error) {
	args := m.Called(ctx, definition, schemaName, metadata)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRegistry) CreateSchema(ctx context.Context, schemaName string, dataFormat schema.DataFormat, definition string,
	compatibility schema.CompatibilityMode, metadata Metadata) (uuid.UUID, error) {
	args := m.Called(ctx, schemaName, dataFormat, definition, compatibility, metadata)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockRegistry) PutSchemaVersionMetadata(ctx context.Context, versionID uuid.UUID, metadata Metadata) error {
	args := m.Called(ctx, versionID, metadata)
	return args.Error(0)
}
