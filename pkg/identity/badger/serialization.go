package badger

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/marmos91/sandfs/pkg/identity"
)

// Serialization Strategy
// ======================
//
// User records are stored as JSON: they are small, read rarely, and a
// flexible schema keeps future fields (new capabilities, quota shapes) from
// requiring migrations. Usage counters are stored as fixed 8-byte big-endian
// integers: they are written on every completed upload, so the encoding is
// kept as cheap as possible.

// userData is the on-disk representation of a user record.
type userData struct {
	Name          string   `json:"name"`
	Root          string   `json:"root"`
	Capabilities  []string `json:"capabilities"`
	QuotaMaxBytes uint64   `json:"quota_max_bytes"`
}

func encodeUser(u *identity.User) ([]byte, error) {
	data := userData{
		Name:          u.Name,
		Root:          u.Root,
		QuotaMaxBytes: u.Quota.MaxBytes,
	}
	for _, c := range u.Capabilities.List() {
		data.Capabilities = append(data.Capabilities, string(c))
	}

	encoded, err := json.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user %q: %w", u.Name, err)
	}
	return encoded, nil
}

func decodeUser(raw []byte) (*identity.User, error) {
	var data userData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %w", err)
	}

	caps := make(identity.CapabilitySet, len(data.Capabilities))
	for _, s := range data.Capabilities {
		c, err := identity.ParseCapability(s)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", data.Name, err)
		}
		caps[c] = true
	}

	return &identity.User{
		Name:         data.Name,
		Root:         data.Root,
		Capabilities: caps,
		Quota:        identity.Quota{MaxBytes: data.QuotaMaxBytes},
	}, nil
}

func encodeUsage(used uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], used)
	return buf[:]
}

func decodeUsage(raw []byte) (uint64, error) {
	if len(raw) != 8 {
		return 0, fmt.Errorf("invalid usage counter length: %d bytes (want 8)", len(raw))
	}
	return binary.BigEndian.Uint64(raw), nil
}
