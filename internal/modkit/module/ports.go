package module

import "reflect"

// PortSet marks a module defined port bundle; each module declares its own
// concrete struct and hands it back from Ports
type PortSet = any

// PortsOf extracts an implementation of T from a module's Ports() value.
// The bundle may be T itself or a struct carrying T in an exported field,
// which is how catalog exposes its enricher to the pipeline. ok is false
// when neither shape matches
func PortsOf[T any](m Module) (t T, ok bool) {
	bundle := m.Ports()
	if bundle == nil {
		return t, false
	}
	if got, hit := bundle.(T); hit {
		return got, true
	}

	rv := reflect.ValueOf(bundle)
	if rv.Kind() != reflect.Struct {
		return t, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if got, hit := f.Interface().(T); hit {
			return got, true
		}
	}
	return t, false
}

// MustPortsOf panics when the port is absent; wiring gaps should stop boot
func MustPortsOf[T any](m Module) T {
	if port, ok := PortsOf[T](m); ok {
		return port
	}
	panic("module " + m.Name() + " does not expose the requested port")
}
