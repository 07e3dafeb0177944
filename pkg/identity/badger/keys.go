package badger

// Database Key Namespace
// ======================
//
// BadgerDB is a key-value store, so user data is organized under prefixed
// keys. Two namespaces are enough for the identity store:
//
//	Data Type        Prefix   Key Format    Value
//	------------------------------------------------------------------
//	User Records     "u:"     u:<name>      userData (JSON)
//	Usage Counters   "q:"     q:<name>      uint64 (8 bytes, big-endian)
//
// Records and counters live under separate keys so that the hot counter
// update path (one per completed write) never rewrites the record JSON, and
// concurrent increments for the same user conflict only with each other.

const (
	userKeyPrefix  = "u:"
	usageKeyPrefix = "q:"
)

func userKey(name string) []byte {
	return []byte(userKeyPrefix + name)
}

func usageKey(name string) []byte {
	return []byte(usageKeyPrefix + name)
}
