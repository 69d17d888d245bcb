package config

// Section is one named block of the configuration file.
type Section interface {
	// ID is the key the section is stored under.
	ID() string

	// Title is a human-readable name.
	Title() string

	// Description explains what the section configures.
	Description() string

	// Data returns the current values keyed as they are persisted.
	Data() map[string]any

	// SetData replaces values present in data. Missing keys keep their value.
	SetData(data map[string]any) error

	// Validate reports whether the current values are usable.
	Validate() error

	// Reset restores defaults.
	Reset()
}
