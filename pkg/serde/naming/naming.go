// Package naming derives the registry schema name a record is published under.
package naming

import (
	"fmt"

	"github.com/Sokol111/glue-schema-registry/pkg/serde/schema"
)

// Strategy returns the schema name for a record written to topic.
type Strategy func(topic string, isKey bool, s schema.Schema) string

const (
	TopicName       = "topic-name"
	RecordName      = "record-name"
	TopicRecordName = "topic-record-name"
)

// TopicNameStrategy names schemas "<topic>-key" or "<topic>-value".
// It is the default strategy.
func TopicNameStrategy(topic string, isKey bool, _ schema.Schema) string {
	if isKey {
		return topic + "-key"
	}
	return topic + "-value"
}

// RecordNameStrategy names schemas by the record's fully qualified name.
func RecordNameStrategy(_ string, _ bool, s schema.Schema) string {
	return s.FullyQualifiedName()
}

// TopicRecordNameStrategy names schemas "<topic>-<fully qualified name>".
func TopicRecordNameStrategy(topic string, _ bool, s schema.Schema) string {
	return topic + "-" + s.FullyQualifiedName()
}

var strategies = map[string]Strategy{
	TopicName:       TopicNameStrategy,
	RecordName:      RecordNameStrategy,
	TopicRecordName: TopicRecordNameStrategy,
}

// Lookup resolves a strategy by its configuration name.
func Lookup(name string) (Strategy, error) {
	strategy, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown naming strategy %q", name)
	}
	return strategy, nil
}

// Names lists the configuration names accepted by Lookup.
func Names() []string {
	return []string{TopicName, RecordName, TopicRecordName}
}
