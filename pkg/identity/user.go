package identity

import "fmt"

// Capability names one operation class a user may perform. Capabilities are
// granted at account-creation time and are read-only to the session core.
type Capability string

const (
	CapRead      Capability = "read"
	CapWrite     Capability = "write"
	CapDelete    Capability = "delete"
	CapCreateDir Capability = "createdir"
	CapRename    Capability = "rename"
)

// ParseCapability validates a capability name from configuration or storage.
func ParseCapability(s string) (Capability, error) {
	switch Capability(s) {
	case CapRead, CapWrite, CapDelete, CapCreateDir, CapRename:
		return Capability(s), nil
	default:
		return "", fmt.Errorf("unknown capability %q", s)
	}
}

// CapabilitySet is the set of operation classes granted to a user.
type CapabilitySet map[Capability]bool

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = true
	}
	return set
}

// Has reports whether the set grants the given capability.
func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}

// List returns the granted capabilities in unspecified order.
func (s CapabilitySet) List() []Capability {
	out := make([]Capability, 0, len(s))
	for c, ok := range s {
		if ok {
			out = append(out, c)
		}
	}
	return out
}

// Quota is a per-user ceiling on cumulative stored bytes.
// MaxBytes of 0 means unlimited.
type Quota struct {
	MaxBytes uint64
}

// Unlimited reports whether the quota bypasses numeric checks.
func (q Quota) Unlimited() bool {
	return q.MaxBytes == 0
}

// User is an authenticated account record as provided by the identity store.
//
// The record is read-only to the session core; the only mutation the core
// may request is a usage-counter update after a completed write, via
// Store.AddUsage. Root is the absolute directory all of the user's paths are
// confined to.
type User struct {
	Name         string
	Root         string
	Capabilities CapabilitySet
	Quota        Quota
}
