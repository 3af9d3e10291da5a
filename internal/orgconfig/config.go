// Package orgconfig provides per-organization scheduling configuration and
// its redis-backed store. Every tunable the engine consumes (lead time, slot
// duration, availability thresholds, timezone) lives here so no call site
// carries its own constant.
package orgconfig

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a submitted configuration fails
// validation.
var ErrInvalidConfig = errors.New("invalid scheduling configuration")

// Config holds the scheduling rules for one organization.
type Config struct {
	OrgID string `json:"org_id"`
	// Timezone is the IANA zone the org's clinics operate in, e.g.
	// "America/New_York". "Today" and lead times are evaluated in this zone.
	Timezone string `json:"timezone"`
	// MinAdvanceMinutes is the standard (patient) lead-time rule. One value
	// per org; appointment-type overrides are passed per request, never
	// stored as parallel constants.
	MinAdvanceMinutes int `json:"min_advance_minutes"`
	// SlotDurationMinutes is the default slot length when a request doesn't
	// specify one.
	SlotDurationMinutes int `json:"slot_duration_minutes"`
	// LowMaxSlots and MediumMaxSlots bound the availability-level bands:
	// 0 slots = none, 1..LowMax = low, LowMax+1..MediumMax = medium,
	// above MediumMax = high.
	LowMaxSlots    int `json:"low_max_slots"`
	MediumMaxSlots int `json:"medium_max_slots"`
}

// Defaults are the server-wide fallback values applied when an org has no
// stored configuration.
type Defaults struct {
	Timezone            string
	MinAdvanceMinutes   int
	SlotDurationMinutes int
	LowMaxSlots         int
	MediumMaxSlots      int
}

// DefaultConfig builds the documented fallback configuration for an org with
// no stored settings. A missing configuration is never an error.
func DefaultConfig(orgID string, d Defaults) *Config {
	if d.Timezone == "" {
		d.Timezone = "UTC"
	}
	if d.MinAdvanceMinutes <= 0 {
		d.MinAdvanceMinutes = 1440
	}
	if d.SlotDurationMinutes <= 0 {
		d.SlotDurationMinutes = 30
	}
	if d.LowMaxSlots <= 0 {
		d.LowMaxSlots = 2
	}
	if d.MediumMaxSlots <= d.LowMaxSlots {
		d.MediumMaxSlots = d.LowMaxSlots + 3
	}
	return &Config{
		OrgID:               orgID,
		Timezone:            d.Timezone,
		MinAdvanceMinutes:   d.MinAdvanceMinutes,
		SlotDurationMinutes: d.SlotDurationMinutes,
		LowMaxSlots:         d.LowMaxSlots,
		MediumMaxSlots:      d.MediumMaxSlots,
	}
}

// Validate checks a configuration before it is stored.
func (c *Config) Validate() error {
	if c.OrgID == "" {
		return fmt.Errorf("%w: org_id required", ErrInvalidConfig)
	}
	if c.MinAdvanceMinutes < 0 {
		return fmt.Errorf("%w: min_advance_minutes must be >= 0", ErrInvalidConfig)
	}
	if c.SlotDurationMinutes < 5 || c.SlotDurationMinutes > 480 {
		return fmt.Errorf("%w: slot_duration_minutes must be between 5 and 480", ErrInvalidConfig)
	}
	if c.LowMaxSlots < 1 || c.MediumMaxSlots <= c.LowMaxSlots {
		return fmt.Errorf("%w: thresholds must satisfy 1 <= low < medium", ErrInvalidConfig)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfig, c.Timezone)
		}
	}
	return nil
}

// Location returns the org's *time.Location, falling back to UTC when the
// zone is empty or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
