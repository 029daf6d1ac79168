// Package storage defines the persistence gateway of the storefront API.
//
// A Store groups five independent collections (users, categories, products,
// orders, reviews). Each Collection supports exactly four operations:
//
//   - Create inserts a document with a generated identifier and its creation
//     defaults, and leaves the stored form in the argument
//   - FindByID returns the document or nil; a miss is not an error
//   - FindMany returns all documents, or those matching one equality Filter
//   - FindByIDs loads a set of documents in one call, for populate only
//
// There are no updates, deletes, transactions, sorting or pagination.
// Uniqueness is not enforced above the backend's own _id index.
//
// Implementations:
//   - mongostore: MongoDB via the official driver
//   - memstore: in-process, used by tests and storage.mode "memory"
//
// Metered wraps any Store and counts every call in Prometheus.
//
// Thread Safety:
// All Store implementations must be safe for concurrent use. They serialize
// nothing across calls: two concurrent operations observe each other's writes
// in whatever order the backend applies them.
package storage
