package vault

import (
	"fmt"
	"net/http"
	"strings"
)

// EntryKind discriminates the two things a directory listing can contain.
type EntryKind int

const (
	// EntryKey is a leaf secret holding a field map.
	EntryKey EntryKind = iota
	// EntryDir is a sub-tree holding further entries, never a field map.
	EntryDir
)

// Entry is one result of listing a directory: either a leaf key or a
// sub-directory. Entries are produced only by List; the kind is derived
// from whether the raw name carries a trailing separator.
type Entry struct {
	Name string
	Kind EntryKind
}

// entryFromRaw classifies a raw listing name. A trailing separator marks a
// directory; the separator is stripped from the stored name.
func entryFromRaw(raw string) Entry {
	if strings.HasSuffix(raw, Separator) {
		return Entry{Name: strings.TrimSuffix(raw, Separator), Kind: EntryDir}
	}

	return Entry{Name: raw, Kind: EntryKey}
}

// Record is the key-value payload stored at one leaf path. The field name
// "Password" receives special handling in the reveal workflow; here it is
// just another field.
type Record map[string]string

// PasswordField is the reserved field name the reveal workflow treats
// specially (clipboard instead of stdout).
const PasswordField = "Password"

// HealthStatus is the server state reported by the health endpoint.
type HealthStatus int

const (
	HealthActive HealthStatus = iota
	HealthStandby
	HealthRecovery
	HealthPerformance
	HealthUninitialized
	HealthSealed
)

// Non-standard status codes the health endpoint uses for replication and
// recovery modes.
const (
	statusRecovery      = 472
	statusPerformance   = 473
	statusUninitialized = 501
)

// healthFromHTTPStatus maps the health endpoint's status code to a state.
// Any code outside the fixed enumeration is a store-level error.
func healthFromHTTPStatus(code int) (HealthStatus, error) {
	switch code {
	case http.StatusOK:
		return HealthActive, nil
	case http.StatusTooManyRequests:
		return HealthStandby, nil
	case statusRecovery:
		return HealthRecovery, nil
	case statusPerformance:
		return HealthPerformance, nil
	case statusUninitialized:
		return HealthUninitialized, nil
	case http.StatusServiceUnavailable:
		return HealthSealed, nil
	default:
		return 0, storeErr("health", fmt.Sprintf("unexpected status code from health endpoint: %d", code))
	}
}

func (s HealthStatus) String() string {
	switch s {
	case HealthActive:
		return "active"
	case HealthStandby:
		return "standby"
	case HealthRecovery:
		return "recovery"
	case HealthPerformance:
		return "performance"
	case HealthUninitialized:
		return "uninitialized"
	case HealthSealed:
		return "sealed"
	default:
		return "unknown"
	}
}
