package schema

// CompatibilityMode controls the checks the registry performs on new schema versions.
type CompatibilityMode string

const (
	// CompatibilityNone performs no compatibility checks.
	CompatibilityNone CompatibilityMode = "NONE"
	// CompatibilityDisabled prevents any new versions from being added.
	CompatibilityDisabled CompatibilityMode = "DISABLED"
	// CompatibilityBackward lets consumers read both the current and the previous version.
	CompatibilityBackward CompatibilityMode = "BACKWARD"
	// CompatibilityBackwardAll lets consumers read the current and all previous versions.
	CompatibilityBackwardAll CompatibilityMode = "BACKWARD_ALL"
	// CompatibilityForward lets consumers read both the current and the subsequent version.
	CompatibilityForward CompatibilityMode = "FORWARD"
	// CompatibilityForwardAll lets consumers read the current and all subsequent versions.
	CompatibilityForwardAll CompatibilityMode = "FORWARD_ALL"
	// CompatibilityFull combines BACKWARD and FORWARD.
	CompatibilityFull CompatibilityMode = "FULL"
	// CompatibilityFullAll combines BACKWARD_ALL and FORWARD_ALL.
	CompatibilityFullAll CompatibilityMode = "FULL_ALL"
)

// DefaultCompatibilityMode is used when creating schemas without an explicit mode.
const DefaultCompatibilityMode = CompatibilityBackward

// CompatibilityModes lists every mode accepted by the registry.
var CompatibilityModes = []CompatibilityMode{
	CompatibilityNone,
	CompatibilityDisabled,
	CompatibilityBackward,
	CompatibilityBackwardAll,
	CompatibilityForward,
	CompatibilityForwardAll,
	CompatibilityFull,
	CompatibilityFullAll,
}

// IsValid checks if the compatibility mode is known to the registry.
func (m CompatibilityMode) IsValid() bool {
	for _, mode := range CompatibilityModes {
		if m == mode {
			return true
		}
	}
	return false
}

// String returns the string representation of the compatibility mode.
func (m CompatibilityMode) String() string {
	return string(m)
}
