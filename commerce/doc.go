// Package commerce implements the storefront operations behind the GraphQL
// Query and Mutation fields.
//
// Service holds the shared persistence gateway and change-event publisher.
// Each operation maps to one gateway call, except:
//
//   - Products and Orders eagerly join one hop (category, line products)
//   - CreateOrder looks up every line's product concurrently, sums
//     price × quantity with decimal arithmetic, then writes the order
//
// References are not validated on write: AddProduct, AddReview and the order's
// user accept any well-formed identifier. Malformed identifiers fail with an
// invalid-input error before any storage call. CreateOrder is the one
// operation that requires its references to exist; a missing product fails it
// with ErrProductNotFound and nothing is written.
//
// Nothing is serialized between requests. Concurrent CreateOrder calls read
// prices independently and neither blocks the other.
package commerce
