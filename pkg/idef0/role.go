package idef0

import (
	"strconv"
	"strings"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

// Role is the ICOM role an arrow plays relative to an activity.
type Role int

const (
	// RoleInput is transformed by the activity; it enters the left side.
	RoleInput Role = iota
	// RoleControl constrains the activity; it enters the top side.
	RoleControl
	// RoleOutput is produced by the activity; it leaves the right side.
	RoleOutput
	// RoleMechanism performs the activity; it enters the bottom side.
	RoleMechanism
)

var roleNames = [...]string{
	RoleInput:     "Input",
	RoleControl:   "Control",
	RoleOutput:    "Output",
	RoleMechanism: "Mechanism",
}

// String returns the canonical role token ("Input", "Control", ...).
func (r Role) String() string {
	if r.Valid() {
		return roleNames[r]
	}
	return "Role(" + strconv.Itoa(int(r)) + ")"
}

// Valid reports whether r is one of the four ICOM roles.
func (r Role) Valid() bool {
	return r >= RoleInput && r <= RoleMechanism
}

// ParseRole converts a role token into a Role. Matching is case-insensitive
// so both the canonical "Input" and the lower-case "input" are accepted.
func ParseRole(s string) (Role, error) {
	token := strings.TrimSpace(s)
	for i, name := range roleNames {
		if strings.EqualFold(token, name) {
			return Role(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownRole, "unknown ICOM role %q (must be Input, Control, Output or Mechanism)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownRole, "unknown ICOM role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
