// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"fmt"
	"strings"
)

// Role is the functional bus a channel feeds.
type Role uint8

const (
	RoleStationary Role = iota + 1 // desk mic, drives the priority level
	RoleMobile                     // field/wireless mic, ducked under the desk
	RoleSafety                     // never attenuated
)

// roleCount sizes per-role tables; index 0 is unused.
const roleCount = int(RoleSafety) + 1

var roles = [...]Role{RoleStationary, RoleMobile, RoleSafety}

func (r Role) Valid() bool {
	return r >= RoleStationary && r <= RoleSafety
}

func (r Role) String() string {
	switch r {
	case RoleStationary:
		return "STATIONARY"
	case RoleMobile:
		return "MOBILE"
	case RoleSafety:
		return "SAFETY"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Location is the on-site label shown by the dashboard.
func (r Role) Location() string {
	switch r {
	case RoleStationary:
		return "DESK"
	case RoleMobile:
		return "FIELD"
	case RoleSafety:
		return "SAFETY"
	default:
		return "?"
	}
}

// ParseRole accepts role names and their on-site aliases, case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stationary", "desk":
		return RoleStationary, nil
	case "mobile", "field", "wireless":
		return RoleMobile, nil
	case "safety":
		return RoleSafety, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}
