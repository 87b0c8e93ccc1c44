package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errStillPending = errors.New("schema version is still pending")

// WaitForSchemaEvolutionCheck blocks until the registry finishes checking a new version.
//
// After the initial delay the version is polled at most maxWaitAttempts times,
// waitInterval apart. AVAILABLE ends the wait; any other status except PENDING
// fails with ErrEvolutionCheckFailed; running out of attempts fails with
// ErrEvolutionCheckTimeout.
func (c *Client) WaitForSchemaEvolutionCheck(ctx context.Context, versionID uuid.UUID) (err error) {
	const op = "WaitForSchemaEvolutionCheck"

	ctx, span := c.startSpan(ctx, op)
	defer func() { span.end(err) }()

	if err := sleep(ctx, c.initialWaitDelay); err != nil {
		return &Error{Op: op, VersionID: versionID, Err: err}
	}

	attempts := 0
	poll := func() error {
		attempts++
		status, err := c.pollStatus(ctx, versionID)
		if err != nil {
			return backoff.Permanent(err)
		}

		c.log.Debug("polled schema version status",
			zap.Stringer("schema-version-id", versionID),
			zap.String("status", string(status)),
			zap.Int("attempt", attempts),
		)

		switch status {
		case types.SchemaVersionStatusAvailable:
			return nil
		case types.SchemaVersionStatusPending:
			return errStillPending
		default:
			return backoff.Permanent(fmt.Errorf("%w: status is %q", ErrEvolutionCheckFailed, status))
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.waitInterval), uint64(c.maxWaitAttempts-1)),
		ctx,
	)

	err = backoff.Retry(poll, policy)
	if err == nil {
		return nil
	}
	if errors.Is(err, errStillPending) {
		err = fmt.Errorf("%w: still pending after %d attempts", ErrEvolutionCheckTimeout, attempts)
	}
	return &Error{Op: op, VersionID: versionID, Err: err}
}

func (c *Client) pollStatus(ctx context.Context, versionID uuid.UUID) (types.SchemaVersionStatus, error) {
	out, err := c.api.GetSchemaVersion(ctx, &glue.GetSchemaVersionInput{
		SchemaVersionId: aws.String(versionID.String()),
	})
	if err != nil {
		return "", classify(err)
	}
	return out.Status, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
