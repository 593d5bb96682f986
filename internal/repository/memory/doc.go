// Package memory provides in-process repository implementations guarded by
// a sync.RWMutex. They back the "memory" store driver and the service tests.
// Values are copied in and out so callers never share slices with the store.
package memory
