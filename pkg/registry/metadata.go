package registry

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// MetadataEntry is a single key/value pair attached to a schema version.
type MetadataEntry struct {
	Key   string
	Value string
}

// Metadata is applied in order, one registry call per entry.
type Metadata []MetadataEntry

// MetadataFromMap converts m into Metadata ordered by key.
func MetadataFromMap(m map[string]string) Metadata {
	md := lo.MapToSlice(m, func(k, v string) MetadataEntry {
		return MetadataEntry{Key: k, Value: v}
	})
	sort.Slice(md, func(i, j int) bool { return md[i].Key < md[j].Key })
	return md
}

// PutSchemaVersionMetadata applies each entry as an independent call.
// The first failure stops the loop; entries applied before it stay in place.
func (c *Client) PutSchemaVersionMetadata(ctx context.Context, versionID uuid.UUID, metadata Metadata) error {
	for _, entry := range metadata {
		if err := c.putMetadataEntry(ctx, versionID, entry); err != nil {
			return &Error{
				Op:        "PutSchemaVersionMetadata",
				VersionID: versionID,
				Err:       fmt.Errorf("%w: key=%q value=%q: %w", ErrMetadataFailed, entry.Key, entry.Value, err),
			}
		}
	}
	return nil
}

func (c *Client) putMetadataEntry(ctx context.Context, versionID uuid.UUID, entry MetadataEntry) (err error) {
	ctx, span := c.startSpan(ctx, "PutSchemaVersionMetadata")
	defer func() { span.end(err) }()

	c.log.Debug("putting schema version metadata",
		zap.Stringer("schema-version-id", versionID),
		zap.String("key", entry.Key),
	)

	_, err = c.api.PutSchemaVersionMetadata(ctx, &glue.PutSchemaVersionMetadataInput{
		SchemaVersionId: aws.String(versionID.String()),
		MetadataKeyValue: &types.MetadataKeyValuePair{
			MetadataKey:   aws.String(entry.Key),
			MetadataValue: aws.String(entry.Value),
		},
	})
	return err
}
