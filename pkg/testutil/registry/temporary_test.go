package registry

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRegistryAPI struct {
	mock.Mock
}

func (m *mockRegistryAPI) CreateRegistry(ctx context.Context, params *glue.CreateRegistryInput, _ ...func(*glue.Options)) (*glue.CreateRegistryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.CreateRegistryOutput), args.Error(1)
}

func (m *mockRegistryAPI) DeleteRegistry(ctx context.Context, params *glue.DeleteRegistryInput, _ ...func(*glue.Options)) (*glue.DeleteRegistryOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*glue.DeleteRegistryOutput), args.Error(1)
}

func withClock(now time.Time) Option {
	return func(o *temporaryOptions) {
		o.now = func() time.Time { return now }
	}
}

func TestStartTemporaryRegistry(t *testing.T) {
	// Arrange
	api := &mockRegistryAPI{}
	api.On("CreateRegistry", mock.Anything, mock.MatchedBy(func(in *glue.CreateRegistryInput) bool {
		return *in.Description == "integration"
	})).Return(&glue.CreateRegistryOutput{}, nil)
	api.On("DeleteRegistry", mock.Anything, mock.Anything).Return(&glue.DeleteRegistryOutput{}, nil)
	now := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	// Act
	r, err := StartTemporaryRegistry(context.Background(), api,
		WithName("orders"), WithDescription("integration"), withClock(now))
	require.NoError(t, err)
	closeErr := r.Close(context.Background())

	// Assert
	require.NoError(t, closeErr)
	assert.Regexp(t, regexp.MustCompile(`^orders-24-03-09-14-05-[0-9A-Za-z]{16}$`), r.Name())

	created := api.Calls[0].Arguments.Get(1).(*glue.CreateRegistryInput)
	assert.Equal(t, r.Name(), *created.RegistryName)
	deleted := api.Calls[1].Arguments.Get(1).(*glue.DeleteRegistryInput)
	assert.Equal(t, r.Name(), *deleted.RegistryId.RegistryName)
}

func TestStartTemporaryRegistry_Defaults(t *testing.T) {
	// Arrange
	api := &mockRegistryAPI{}
	api.On("CreateRegistry", mock.Anything, mock.MatchedBy(func(in *glue.CreateRegistryInput) bool {
		return *in.Description == DefaultDescription
	})).Return(&glue.CreateRegistryOutput{}, nil)

	// Act
	first, err := StartTemporaryRegistry(context.Background(), api)
	require.NoError(t, err)
	second, err := StartTemporaryRegistry(context.Background(), api)
	require.NoError(t, err)

	// Assert
	assert.Regexp(t, `^temporary-registry-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}-[0-9A-Za-z]{16}$`, first.Name())
	assert.NotEqual(t, first.Name(), second.Name())
	api.AssertExpectations(t)
}

func TestClose_WithoutAutoremove(t *testing.T) {
	// Arrange
	api := &mockRegistryAPI{}
	api.On("CreateRegistry", mock.Anything, mock.Anything).Return(&glue.CreateRegistryOutput{}, nil)
	r, err := StartTemporaryRegistry(context.Background(), api, WithAutoremove(false))
	require.NoError(t, err)

	// Act
	err = r.Close(context.Background())

	// Assert
	require.NoError(t, err)
	api.AssertNotCalled(t, "DeleteRegistry", mock.Anything, mock.Anything)
}

func TestStartTemporaryRegistry_Errors(t *testing.T) {
	t.Run("create fails", func(t *testing.T) {
		// Arrange
		api := &mockRegistryAPI{}
		api.On("CreateRegistry", mock.Anything, mock.Anything).Return(nil, errors.New("limit exceeded"))

		// Act
		r, err := StartTemporaryRegistry(context.Background(), api)

		// Assert
		require.Error(t, err)
		assert.Nil(t, r)
		assert.Contains(t, err.Error(), "failed to create registry temporary-registry-")
	})

	t.Run("delete fails", func(t *testing.T) {
		// Arrange
		api := &mockRegistryAPI{}
		api.On("CreateRegistry", mock.Anything, mock.Anything).Return(&glue.CreateRegistryOutput{}, nil)
		api.On("DeleteRegistry", mock.Anything, mock.Anything).Return(nil, errors.New("in use"))
		r, err := StartTemporaryRegistry(context.Background(), api)
		require.NoError(t, err)

		// Act
		err = r.Close(context.Background())

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "in use")
	})
}

func TestStartTemporaryRegistry_NilLogger(t *testing.T) {
	// Arrange
	api := &mockRegistryAPI{}
	api.On("CreateRegistry", mock.Anything, mock.Anything).Return(&glue.CreateRegistryOutput{}, nil)
	api.On("DeleteRegistry", mock.Anything, mock.Anything).Return(&glue.DeleteRegistryOutput{}, nil)

	// Act
	r, err := StartTemporaryRegistry(context.Background(), api, WithLogger(nil))
	require.NoError(t, err)
	closeErr := r.Close(context.Background())

	// Assert
	assert.NoError(t, closeErr)
	api.AssertExpectations(t)
}
