package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/google/uuid"
)

var (
	// ErrSchemaNotFound is returned when the schema itself does not exist in the registry.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrSchemaVersionNotFound is returned when the schema exists but not the requested version.
	ErrSchemaVersionNotFound = errors.New("schema version not found")

	// ErrSchemaAlreadyExists is returned by the registry when a concurrent writer created the schema first.
	ErrSchemaAlreadyExists = errors.New("schema already exists")

	// ErrSchemaVersionNotAvailable is returned when a version exists but its status is not AVAILABLE.
	ErrSchemaVersionNotAvailable = errors.New("schema version not available")

	// ErrEvolutionCheckFailed is returned when a new version ends in a terminal status other than AVAILABLE.
	ErrEvolutionCheckFailed = errors.New("schema evolution check failed")

	// ErrEvolutionCheckTimeout is returned when a new version is still PENDING after all poll attempts.
	ErrEvolutionCheckTimeout = errors.New("schema evolution check timed out")

	// ErrMetadataFailed is returned when a metadata key/value pair could not be applied.
	ErrMetadataFailed = errors.New("failed to put schema version metadata")
)

// Glue reports both not-found cases as EntityNotFoundException and only the message tells them apart.
const (
	glueSchemaVersionNotFoundMsg = "Schema version is not found"
	glueSchemaNotFoundMsg        = "Schema is not found"
)

// Error is returned by every registry operation. Err carries the cause and
// the classification sentinel, so both errors.Is and errors.As work through it.
type Error struct {
	Op         string
	SchemaName string
	VersionID  uuid.UUID
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("schema registry: ")
	b.WriteString(e.Op)
	if e.SchemaName != "" {
		b.WriteString(" schema=")
		b.WriteString(e.SchemaName)
	}
	if e.VersionID != uuid.Nil {
		b.WriteString(" version=")
		b.WriteString(e.VersionID.String())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps Glue API errors onto the package sentinels, keeping the original error in the chain.
func classify(err error) error {
	var notFound *types.EntityNotFoundException
	if errors.As(err, &notFound) {
		msg := notFound.ErrorMessage()
		switch {
		case strings.Contains(msg, glueSchemaVersionNotFoundMsg):
			return fmt.Errorf("%w: %w", ErrSchemaVersionNotFound, err)
		case strings.Contains(msg, glueSchemaNotFoundMsg):
			return fmt.Errorf("%w: %w", ErrSchemaNotFound, err)
		}
		return err
	}

	var alreadyExists *types.AlreadyExistsException
	if errors.As(err, &alreadyExists) {
		return fmt.Errorf("%w: %w", ErrSchemaAlreadyExists, err)
	}

	return err
}

// IsNotFound reports whether err means the schema or the schema version is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSchemaNotFound) || errors.Is(err, ErrSchemaVersionNotFound)
}
