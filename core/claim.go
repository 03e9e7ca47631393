package core

// Request describes what a handler needs from the token: the claim name,
// whether its absence must abort the request, and the target kind.
type Request struct {
	Name     string
	Required bool
	Kind     Kind
}

// Binding is a claim request that can be resolved without knowing its Go type.
// Claim[T] implements it; adapters hold heterogeneous lists of bindings.
type Binding interface {
	Request() Request
	extract(doc Document) Outcome[any]
}

// ClaimOption customizes a claim declaration.
type ClaimOption func(*Request)

// Optional marks the claim as optional: when it is absent the resolver
// returns no value instead of failing.
func Optional() ClaimOption {
	return func(r *Request) {
		r.Required = false
	}
}

// Required sets whether the claim must be present. Claims are required by default.
func Required(required bool) ClaimOption {
	return func(r *Request) {
		r.Required = required
	}
}

// Claim is a typed claim declaration. The type parameter fixes the Go type of
// the resolved value, and the constructor fixes the matching coercion.
type Claim[T any] struct {
	req    Request
	coerce func(any) (T, error)
}

// Request returns the untyped description of the claim.
func (c Claim[T]) Request() Request {
	return c.req
}

// Name returns the claim name.
func (c Claim[T]) Name() string {
	return c.req.Name
}

// Extract looks the claim up in doc and coerces it without applying the
// required policy. A nil document yields an Absent outcome.
func (c Claim[T]) Extract(doc Document) Outcome[T] {
	raw, ok := doc.Lookup(c.req.Name)
	if !ok || isNull(raw) {
		return Outcome[T]{Status: StatusAbsent}
	}

	val, err := decodeValue(raw)
	if err != nil {
		return Outcome[T]{Status: StatusFailed, Reason: &coercionError{kind: c.req.Kind, details: err}}
	}

	v, err := c.coerce(val)
	if err != nil {
		return Outcome[T]{Status: StatusFailed, Reason: &coercionError{kind: c.req.Kind, details: err}}
	}

	return Outcome[T]{Value: v, Status: StatusPresent}
}

// ExtractFrom is Extract over a decoded payload. When the payload could not be
// decoded the outcome is Failed and carries the decode reason.
func (c Claim[T]) ExtractFrom(p Payload) Outcome[T] {
	if p.Reason != nil {
		return Outcome[T]{Status: StatusFailed, Reason: p.Reason}
	}
	return c.Extract(p.Document)
}

func (c Claim[T]) extract(doc Document) Outcome[any] {
	o := c.Extract(doc)
	return Outcome[any]{Value: o.Value, Status: o.Status, Reason: o.Reason}
}

func newClaim[T any](name string, kind Kind, coerce func(any) (T, error), opts []ClaimOption) Claim[T] {
	if name == "" {
		panic("core: claim name must not be empty")
	}
	req := Request{Name: name, Required: true, Kind: kind}
	for _, opt := range opts {
		opt(&req)
	}
	return Claim[T]{req: req, coerce: coerce}
}

// String declares a claim resolved as text.
func String(name string, opts ...ClaimOption) Claim[string] {
	return newClaim(name, KindString, coerceString, opts)
}

// Int32 declares a claim resolved as a 32-bit integer.
func Int32(name string, opts ...ClaimOption) Claim[int32] {
	return newClaim(name, KindInt32, coerceInt32, opts)
}

// Int64 declares a claim resolved as a 64-bit integer.
func Int64(name string, opts ...ClaimOption) Claim[int64] {
	return newClaim(name, KindInt64, coerceInt64, opts)
}

// Bool declares a claim resolved as a boolean.
func Bool(name string, opts ...ClaimOption) Claim[bool] {
	return newClaim(name, KindBool, coerceBool, opts)
}

// Structured declares a claim whose JSON subtree is decoded into T.
//
//	type Address struct {
//	    Country string `json:"country"`
//	}
//
//	addr := core.Structured[Address]("address")
func Structured[T any](name string, opts ...ClaimOption) Claim[T] {
	return newClaim(name, KindStructured, coerceStructured[T], opts)
}

// Strings declares a claim holding a JSON array of strings, such as "groups".
func Strings(name string, opts ...ClaimOption) Claim[[]string] {
	return Structured[[]string](name, opts...)
}
