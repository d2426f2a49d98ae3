package services

import (
	"math"
	"strings"
)

// Model is one loaded building model as handed over by the model-loading
// side: an identity plus the loosely-typed document the parser produced.
// Raw is never modified by this package.
type Model struct {
	ID   string
	Name string
	Raw  map[string]any
}

// PropertyStore maps element ids (decimal object keys) to raw records.
type PropertyStore map[string]any

// RawElementRecord is a read-only view over one element's properties.
type RawElementRecord map[string]any

// Get returns the decoded value of a top-level property.
func (r RawElementRecord) Get(name string) PropertyValue {
	return DecodeValue(r[name])
}

// TypeCode returns the numeric schema type of the record. A wrapped code
// ({"value": 103090709}) is accepted like a bare one. Fractional codes and
// codes outside the int64 range are rejected.
func (r RawElementRecord) TypeCode() (int64, bool) {
	f, ok := r.Get("type").Float()
	if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// StoreAccessor is one place a model may keep its property store.
type StoreAccessor interface {
	Name() string
	Store(m *Model) (PropertyStore, bool)
}

// pathAccessor walks a fixed chain of object keys.
type pathAccessor struct {
	path []string
}

// PathAccessor returns an accessor for a dotted object path such as
// "data.properties".
func PathAccessor(dotted string) StoreAccessor {
	return pathAccessor{path: strings.Split(dotted, ".")}
}

func (a pathAccessor) Name() string {
	return strings.Join(a.path, ".")
}

func (a pathAccessor) Store(m *Model) (PropertyStore, bool) {
	if m == nil || m.Raw == nil {
		return nil, false
	}
	var cur any = m.Raw
	for _, key := range a.path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	store, ok := cur.(map[string]any)
	if !ok || len(store) == 0 {
		return nil, false
	}
	return PropertyStore(store), true
}

// DefaultStoreAccessors lists the known store locations in priority order:
// primary store (nested, then flat), metadata store, internal store and
// the streaming properties manager.
func DefaultStoreAccessors() []StoreAccessor {
	return []StoreAccessor{
		PathAccessor("data.properties"),
		PathAccessor("properties"),
		PathAccessor("ifcMetadata.properties"),
		PathAccessor("_properties"),
		PathAccessor("streamSettings.propertiesManager.data"),
	}
}

// PropertyLocator resolves a model's property store from an ordered list
// of accessors.
type PropertyLocator struct {
	accessors []StoreAccessor
}

// NewPropertyLocator builds a locator. With no accessors it uses
// DefaultStoreAccessors.
func NewPropertyLocator(accessors ...StoreAccessor) *PropertyLocator {
	if len(accessors) == 0 {
		accessors = DefaultStoreAccessors()
	}
	return &PropertyLocator{accessors: accessors}
}

// Locate returns the first non-empty store and the name of the accessor
// that found it. Results from different locations are never merged.
func (l *PropertyLocator) Locate(m *Model) (PropertyStore, string, bool) {
	for _, a := range l.accessors {
		if store, ok := a.Store(m); ok {
			return store, a.Name(), true
		}
	}
	return nil, "", false
}
