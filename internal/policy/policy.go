// Package policy derives booking rules from the actor's role and the org's
// scheduling configuration. Resolution is a pure function: the same inputs
// always produce the same BookingPolicy, and nothing here reads a clock or
// any global state.
package policy

import "strings"

// Role identifies the kind of actor requesting availability or a booking.
type Role string

const (
	RolePatient    Role = "patient"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleDoctor     Role = "doctor"
	RoleSuperAdmin Role = "superadmin"
)

// ParseRole normalizes a role string. Unknown or empty values resolve to
// patient, the least-privileged role.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStaff:
		return RoleStaff
	case RoleAdmin:
		return RoleAdmin
	case RoleDoctor:
		return RoleDoctor
	case RoleSuperAdmin:
		return RoleSuperAdmin
	default:
		return RolePatient
	}
}

// Privileged reports whether the role books in real time, exempt from the
// standard advance-notice rule.
func (r Role) Privileged() bool {
	switch r {
	case RoleStaff, RoleAdmin, RoleDoctor, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// BookingPolicy is the resolved rule set for one request. It is derived per
// call and never persisted.
type BookingPolicy struct {
	// MinAdvanceMinutes is the minimum lead time between "now" and a slot's
	// start for the slot to be bookable. Zero for privileged actors.
	MinAdvanceMinutes int
	// Privileged actors may book any strictly-future slot.
	Privileged bool
}

// Resolve translates (org lead time, actor role, override) into a
// BookingPolicy.
//
// minAdvanceMinutes is the org's single configured lead-time value; callers
// wanting a different lead time for a specific appointment type pass that
// value here explicitly rather than hardcoding a second constant.
// useStandardRules forces the patient-equivalent rule for privileged actors
// ("book as if a patient").
func Resolve(role Role, minAdvanceMinutes int, useStandardRules bool) BookingPolicy {
	if minAdvanceMinutes < 0 {
		minAdvanceMinutes = 0
	}
	if role.Privileged() && !useStandardRules {
		return BookingPolicy{MinAdvanceMinutes: 0, Privileged: true}
	}
	return BookingPolicy{MinAdvanceMinutes: minAdvanceMinutes, Privileged: false}
}
