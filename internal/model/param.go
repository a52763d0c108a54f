package model

import "fmt"

// ParamType is the declared value type of a parameter.
type ParamType string

// Available ParamType values.
const (
	ParamFloat  ParamType = "float"
	ParamInt    ParamType = "int"
	ParamString ParamType = "string"
)

// ParamIdent identifies the authoritative store for one parameter instance:
// the parameter's fully qualified name plus the tree path of the owning
// fragment.
type ParamIdent struct {
	FQN  string
	Path string
}

func (i ParamIdent) String() string {
	return i.FQN + "@" + i.Path
}

// ParamStore is a typed mutable cell holding the current value of one
// parameter. The scan runner is the sole writer during a scan; any number of
// read-only handles may observe changes via notification.
//
// Exactly one authoritative store exists per ident at any time. The
// default/override/scan-axis binding that created a store owns it; hand-off
// happens by unregistering the old store's handles before attaching them to
// the new store (see ParamHandle.Bind).
type ParamStore interface {
	Ident() ParamIdent
	Type() ParamType

	// Get returns the current value in the store's native representation.
	Get() any

	// SetValue coerces value to the native type, stores it and notifies any
	// registered handles.
	SetValue(value any) error

	// Coerce converts value to the native type without touching the store.
	// The device chunk path uses this to prepare values for transmission.
	Coerce(value any) (any, error)

	registerHandle(h *ParamHandle)
	unregisterHandle(h *ParamHandle)
}

type storeBase struct {
	ident   ParamIdent
	handles []*ParamHandle
}

func (s *storeBase) Ident() ParamIdent { return s.ident }

func (s *storeBase) registerHandle(h *ParamHandle) {
	s.handles = append(s.handles, h)
}

func (s *storeBase) unregisterHandle(h *ParamHandle) {
	for i, cur := range s.handles {
		if cur == h {
			s.handles = append(s.handles[:i], s.handles[i+1:]...)
			return
		}
	}
}

func (s *storeBase) notify() {
	for _, h := range s.handles {
		h.changedAfterUse = true
	}
}

// FloatParamStore holds a float64 parameter value.
type FloatParamStore struct {
	storeBase
	value float64
}

// NewFloatParamStore creates a float store with the given initial value.
func NewFloatParamStore(ident ParamIdent, value float64) *FloatParamStore {
	return &FloatParamStore{storeBase: storeBase{ident: ident}, value: value}
}

func (s *FloatParamStore) Type() ParamType { return ParamFloat }
func (s *FloatParamStore) Get() any        { return s.value }

// GetFloat returns the current value without boxing.
func (s *FloatParamStore) GetFloat() float64 { return s.value }

func (s *FloatParamStore) SetValue(value any) error {
	v, err := s.Coerce(value)
	if err != nil {
		return err
	}
	s.value = v.(float64)
	s.notify()
	return nil
}

func (s *FloatParamStore) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("%w: cannot coerce %T to float for %s", ErrValueType, value, s.ident)
	}
}

// IntParamStore holds an int64 parameter value.
type IntParamStore struct {
	storeBase
	value int64
}

// NewIntParamStore creates an int store with the given initial value.
func NewIntParamStore(ident ParamIdent, value int64) *IntParamStore {
	return &IntParamStore{storeBase: storeBase{ident: ident}, value: value}
}

func (s *IntParamStore) Type() ParamType { return ParamInt }
func (s *IntParamStore) Get() any        { return s.value }

// GetInt returns the current value without boxing.
func (s *IntParamStore) GetInt() int64 { return s.value }

func (s *IntParamStore) SetValue(value any) error {
	v, err := s.Coerce(value)
	if err != nil {
		return err
	}
	s.value = v.(int64)
	s.notify()
	return nil
}

func (s *IntParamStore) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		// Regular float scans are usable for integer parameters; values are
		// rounded towards zero like the upstream device runtime does.
		return int64(v), nil
	default:
		return nil, fmt.Errorf("%w: cannot coerce %T to int for %s", ErrValueType, value, s.ident)
	}
}

// StringParamStore holds a string parameter value.
type StringParamStore struct {
	storeBase
	value string
}

// NewStringParamStore creates a string store with the given initial value.
func NewStringParamStore(ident ParamIdent, value string) *StringParamStore {
	return &StringParamStore{storeBase: storeBase{ident: ident}, value: value}
}

func (s *StringParamStore) Type() ParamType { return ParamString }
func (s *StringParamStore) Get() any        { return s.value }

func (s *StringParamStore) SetValue(value any) error {
	v, err := s.Coerce(value)
	if err != nil {
		return err
	}
	s.value = v.(string)
	s.notify()
	return nil
}

func (s *StringParamStore) Coerce(value any) (any, error) {
	if v, ok := value.(string); ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: cannot coerce %T to string for %s", ErrValueType, value, s.ident)
}

// NewParamStore creates the store matching the schema's declared type, with
// the schema's zero-ish default.
func NewParamStore(schema ParamSchema, path string) (ParamStore, error) {
	ident := ParamIdent{FQN: schema.FQN, Path: path}
	switch schema.Type {
	case ParamFloat:
		return NewFloatParamStore(ident, 0), nil
	case ParamInt:
		return NewIntParamStore(ident, 0), nil
	case ParamString:
		return NewStringParamStore(ident, ""), nil
	default:
		return nil, fmt.Errorf("%w: unknown parameter type %q for %s", ErrValueType, schema.Type, ident)
	}
}

// ParamHandle is a read-side view of a parameter for fragment code. It
// tracks whether the value changed since it was last used, so fragments can
// skip expensive device updates for unchanged parameters.
type ParamHandle struct {
	store           ParamStore
	changedAfterUse bool
}

// NewParamHandle returns a handle bound to the given store.
func NewParamHandle(store ParamStore) *ParamHandle {
	h := &ParamHandle{changedAfterUse: true}
	h.Bind(store)
	return h
}

// Bind re-points the handle at a new authoritative store. The old store's
// registration is removed first so no dangling notifications remain.
func (h *ParamHandle) Bind(store ParamStore) {
	if h.store != nil {
		h.store.unregisterHandle(h)
	}
	h.store = store
	if store != nil {
		store.registerHandle(h)
	}
	h.changedAfterUse = true
}

// Use returns the current value and marks it as consumed.
func (h *ParamHandle) Use() any {
	h.changedAfterUse = false
	return h.store.Get()
}

// UseFloat is Use for float-typed parameters.
func (h *ParamHandle) UseFloat() float64 {
	h.changedAfterUse = false
	return h.store.(*FloatParamStore).GetFloat()
}

// Changed reports whether the value was set since the last Use.
func (h *ParamHandle) Changed() bool { return h.changedAfterUse }
