package config

import "time"

const configSection = "schema-registry"

// Keys under configSection.
const (
	keyRegistryName     = "registry-name"
	keyMaxWaitAttempts  = "max-wait-attempts"
	keyWaitInterval     = "wait-interval"
	keyCompatibility    = "compatibility"
	keyNamingStrategy   = "naming-strategy"
	keyAutoRegister     = "auto-register"
	keyCompression      = "compression"
	keyReturnRecordName = "return-record-name"
	keyRegion           = "region"
	keyEndpoint         = "endpoint"
)

// Validation ranges
const (
	minMaxWaitAttempts = 1
	maxMaxWaitAttempts = 100

	minWaitInterval = time.Millisecond
	maxWaitInterval = 5 * time.Minute
)
