// Package model defines the documents stored by the storefront API.
//
// Every document type implements Document: it carries a generated ObjectID,
// applies its creation defaults in Prepare, and exposes its reference fields
// through Reference so storage and resolvers can follow them without knowing
// the concrete type.
//
// Reference fields hold identifiers only. Nothing checks at write time that a
// referenced document exists; resolvers treat a dangling reference as null.
// Populated (eagerly joined) documents ride along in fields tagged bson:"-" and
// are never persisted.
package model
