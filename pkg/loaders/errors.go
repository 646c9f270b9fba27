package loaders

import "errors"

// Resolution errors. All are fatal to scene construction; no partial scene
// is ever returned alongside one of these.
var (
	// ErrParse indicates a malformed directive, field, or value
	ErrParse = errors.New("malformed scene directive")

	// ErrUnresolvedReference indicates a named material or transform was
	// used before its definition
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrCyclicDefinition indicates a named transform list that reaches
	// itself through its own expansion
	ErrCyclicDefinition = errors.New("cyclic definition")

	// ErrUnknownKind indicates an add directive with an unsupported kind
	ErrUnknownKind = errors.New("unknown kind")
)
