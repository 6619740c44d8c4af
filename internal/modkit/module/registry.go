package module

import "sync"

// process-wide port registry. The api binary wires catalog's enricher into
// the pipeline through here during bootstrap; nothing touches it after the
// modules are mounted
var (
	regMu sync.RWMutex
	reg   = map[string]any{}
)

// Register stores the port set published by a module
func Register(name string, ports any) {
	regMu.Lock()
	defer regMu.Unlock()
	reg[name] = ports
}

// PortsAs looks up name and asserts its port set to T
func PortsAs[T any](name string) (T, bool) {
	regMu.RLock()
	v, found := reg[name]
	regMu.RUnlock()

	var zero T
	if !found {
		return zero, false
	}
	got, ok := v.(T)
	return got, ok
}

// Reset clears the registry between tests
func Reset() {
	regMu.Lock()
	defer regMu.Unlock()
	reg = map[string]any{}
}
