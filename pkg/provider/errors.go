package provider

import "fmt"

// UnknownEntryKindError reports a raw configuration entry whose type field is
// not one of the recognized kinds. The whole transform aborts; no partial
// configuration is usable.
type UnknownEntryKindError struct {
	Type string
}

func (e *UnknownEntryKindError) Error() string {
	return fmt.Sprintf("unknown configuration entry type %q", e.Type)
}

// MalformedEntryError reports a raw entry missing a required field for its
// kind.
type MalformedEntryError struct {
	Kind  Kind
	Field string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed %s entry: missing required field %q", e.Kind, e.Field)
}

// UnknownProviderError reports a lookup for a (kind, name) pair with no
// registered constructor.
type UnknownProviderError struct {
	Kind Kind
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("no %s provider registered under %q", e.Kind, e.Name)
}
