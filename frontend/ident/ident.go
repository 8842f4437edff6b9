// Package ident holds the two name representations the frontend moves
// between: Ident, a name as written in source, and Symbol, a globally
// unique resolved identifier.
package ident

import "strings"

// Symbol is a flat, globally unique identifier. Top-level names are the
// defining module path joined to the source name; generated closures get a
// positional index instead of a name. Two symbols are equal iff their
// qualified paths are equal, which makes Symbol usable as a map key for
// every scope and graph structure in the frontend.
type Symbol string

// NewSymbol qualifies name with the module path that defines it.
func NewSymbol(path, name string) Symbol {
	return Symbol(path + "$" + name)
}

func (s Symbol) String() string {
	return string(s)
}

// Name returns the last segment of the qualified path.
func (s Symbol) Name() string {
	str := string(s)
	if i := strings.LastIndexByte(str, '$'); i >= 0 {
		return str[i+1:]
	}
	return str
}

// Ident is a not-yet-resolved name exactly as it appeared in source.
// It only exists during resolution: it is consumed and replaced by a Symbol
// or, on failure, echoed back verbatim inside a diagnostic.
type Ident struct {
	// Module is the qualifying module path, or "" for an unqualified name.
	Module string
	Name   string
}

func Unqualified(name string) Ident {
	return Ident{Name: name}
}

func Qualified(module, name string) Ident {
	return Ident{Module: module, Name: name}
}

func (i Ident) IsQualified() bool {
	return i.Module != ""
}

func (i Ident) String() string {
	if i.Module == "" {
		return i.Name
	}
	return i.Module + "." + i.Name
}
