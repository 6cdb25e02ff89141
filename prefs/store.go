// Package prefs provides durable key-value preference storage. Values are
// JSON-serialized on write and deserialized on read. A missing key is not an
// error: Get reports found=false and leaves out untouched.
package prefs

// Store is the persistence capability handed to components that need
// durable state. Implementations must tolerate concurrent use.
type Store interface {
	// Set serializes value as JSON and persists it under key.
	Set(key string, value any) error
	// Get deserializes the value stored under key into out. It returns
	// found=false (and no error) when the key is absent. A stored value
	// that cannot be deserialized is returned as an error.
	Get(key string, out any) (found bool, err error)
	// Remove deletes the value stored under key. Removing an absent key
	// is a no-op.
	Remove(key string) error
}
