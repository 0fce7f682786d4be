package asset

import (
	"fmt"
	"strings"
)

// ID names an asset as "module:name".
type ID struct {
	Module string
	Name   string
}

func NewID(module, name string) ID {
	return ID{Module: module, Name: name}
}

// ParseID reads "module:name". A bare "name" resolves into defaultModule.
func ParseID(s, defaultModule string) ID {
	s = strings.TrimSpace(s)
	if module, name, ok := strings.Cut(s, ":"); ok {
		return ID{Module: module, Name: name}
	}
	return ID{Module: defaultModule, Name: s}
}

func (id ID) String() string {
	return id.Module + ":" + id.Name
}

func (id ID) Valid() bool {
	return ValidName(id.Module) && ValidName(id.Name)
}

// ValidName accepts non-empty names without separators, whitespace or
// parent directory references. Slashes are allowed for sub directories.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, ": \t\r\n\\")
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed := ParseID(string(text), "")
	if !parsed.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidName, string(text))
	}
	*id = parsed
	return nil
}
