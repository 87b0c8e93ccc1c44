// Package registry creates throw-away Glue registries for integration tests.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	DefaultName        = "temporary-registry"
	DefaultDescription = "Temporary registry created by the glue-schema-registry Go module."

	suffixLength = 16
	dateLayout   = "06-01-02-15-04"
)

// RegistryAPI is the part of the Glue API needed to manage registries.
// *glue.Client and every registry.GlueAPI satisfy it.
type RegistryAPI interface {
	CreateRegistry(ctx context.Context, params *glue.CreateRegistryInput, optFns ...func(*glue.Options)) (*glue.CreateRegistryOutput, error)
	DeleteRegistry(ctx context.Context, params *glue.DeleteRegistryInput, optFns ...func(*glue.Options)) (*glue.DeleteRegistryOutput, error)
}

// TemporaryRegistry is a real registry with a unique name, removed on Close.
type TemporaryRegistry struct {
	api         RegistryAPI
	name        string
	description string
	autoremove  bool
	log         *zap.Logger
}

// Option configures a TemporaryRegistry.
type Option func(*temporaryOptions)

type temporaryOptions struct {
	name        string
	description string
	autoremove  bool
	now         func() time.Time
	log         *zap.Logger
}

// WithName sets the human-readable prefix of the registry name.
func WithName(name string) Option {
	return func(o *temporaryOptions) {
		o.name = name
	}
}

// WithDescription sets the registry description.
func WithDescription(description string) Option {
	return func(o *temporaryOptions) {
		o.description = description
	}
}

// WithAutoremove controls whether Close deletes the registry. Defaults to true.
func WithAutoremove(autoremove bool) Option {
	return func(o *temporaryOptions) {
		o.autoremove = autoremove
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(o *temporaryOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// StartTemporaryRegistry creates a registry named <name>-<yy-mm-dd-HH-MM>-<16 random alphanumerics>.
func StartTemporaryRegistry(ctx context.Context, api RegistryAPI, opts ...Option) (*TemporaryRegistry, error) {
	options := &temporaryOptions{
		name:        DefaultName,
		description: DefaultDescription,
		autoremove:  true,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	r := &TemporaryRegistry{
		api:         api,
		name:        uniqueName(options.name, options.now().UTC()),
		description: options.description,
		autoremove:  options.autoremove,
		log:         options.log,
	}

	r.log.Info("creating registry", zap.String("registry-name", r.name))
	if _, err := api.CreateRegistry(ctx, &glue.CreateRegistryInput{
		RegistryName: aws.String(r.name),
		Description:  aws.String(r.description),
	}); err != nil {
		return nil, fmt.Errorf("failed to create registry %s: %w", r.name, err)
	}

	return r, nil
}

// Name returns the suffixed registry name, e.g. for registry.WithRegistryName.
func (r *TemporaryRegistry) Name() string {
	return r.name
}

// Close deletes the registry unless autoremove is disabled.
func (r *TemporaryRegistry) Close(ctx context.Context) error {
	if !r.autoremove {
		return nil
	}

	r.log.Info("deleting registry", zap.String("registry-name", r.name))
	if _, err := r.api.DeleteRegistry(ctx, &glue.DeleteRegistryInput{
		RegistryId: &types.RegistryId{RegistryName: aws.String(r.name)},
	}); err != nil {
		return fmt.Errorf("failed to delete registry %s: %w", r.name, err)
	}
	return nil
}

func uniqueName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format(dateLayout), lo.RandomString(suffixLength, lo.AlphanumericCharset))
}
