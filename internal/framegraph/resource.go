// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package framegraph

import (
	"hash/fnv"
	"reflect"
)

// namedResource marks identities created with Named.
type namedResource struct{}

var namedType = reflect.TypeFor[namedResource]()

// ResourceID identifies a piece of data passes can read or write.
type ResourceID struct {
	typ  reflect.Type
	name string
}

// TypeOf returns the identity of resource type T.
func TypeOf[T any]() ResourceID {
	return ResourceID{typ: reflect.TypeFor[T]()}
}

// Named returns an identity keyed by name instead of a Go type.
func Named(name string) ResourceID {
	return ResourceID{typ: namedType, name: name}
}

func (r ResourceID) String() string {
	if r.typ == nil {
		return "<none>"
	}
	if r.typ == namedType {
		return r.name
	}
	return r.typ.String()
}

// Label is a hashed name used for explicit Signal/WaitFor ordering.
type Label uint64

// LabelOf hashes name into a Label.
func LabelOf(name string) Label {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return Label(h.Sum64())
}
