package pkb

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// Extractor errors are fatal for the whole session: each is a typed error
// kind so callers can distinguish failure reasons with Kind.Is(err) rather
// than string-matching a message, mirroring the ErrInvalidJWT-style
// sentinel pattern the wider pack's auth packages use for their own
// typed, parameterised errors.
var (
	ErrUndefinedProcedure = errors.NewKind("call to undefined procedure %q")
	ErrCyclicCall         = errors.NewKind("illegal cyclic or recursive call involving procedure %q")
	ErrDuplicateProcedure = errors.NewKind("duplicate procedure definition %q")
	ErrMalformedAST       = errors.NewKind("malformed AST: %s")
)
