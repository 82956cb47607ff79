package redund

import "errors"

// errProfileAbsent is returned by Canonicalize when called on a pair
// missing either strand. The merge driver never calls Canonicalize in that
// state; surfacing it as an error rather than a panic keeps that invariant
// checkable by tests. Plain stdlib errors.New,
// mirroring markduplicates/library_size.go's use of the standard library
// for a fixed sentinel rather than github.com/grailbio/base/errors, which
// this package reserves for errors.E(...) context-carrying wraps and
// errors.Once fan-in (see driver.go).
var errProfileAbsent = errors.New("redund: canonicalize called with an absent profile")
