package entity

import (
	"strings"
	"time"
)

// Airline represents a carrier known to the assistant
type Airline struct {
	ID         uint
	Code       string
	Name       string
	Aliases    []string
	UsageCount int
	FirstSeen  time.Time
	LastSeen   time.Time
}

// HasAlias reports whether name is already one of the airline's aliases, ignoring case
func (a *Airline) HasAlias(name string) bool {
	for _, alias := range a.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

// AddAlias appends name unless an alias with the same case-insensitive form exists.
// It returns true when the alias list grew.
func (a *Airline) AddAlias(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || a.HasAlias(name) {
		return false
	}
	a.Aliases = append(a.Aliases, name)
	return true
}

// AirlineUsage is a name/usage pair used in statistics
type AirlineUsage struct {
	Name       string `json:"name"`
	UsageCount int    `json:"usage_count"`
}
