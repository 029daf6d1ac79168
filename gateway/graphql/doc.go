// Package graphql serves the storefront API over GraphQL.
//
// The schema is built in code with github.com/graphql-go/graphql. Each
// Query and Mutation field dispatches to one Backend operation
// (commerce.Service in production). Relational fields (Product.category,
// Product.reviews, Order.user, OrderItem.product, Review.user,
// Review.product) resolve lazily, once per parent instance, with no
// batching: a list of N orders issues N user lookups. Sibling relational
// fields run concurrently; each starts its lookup on a goroutine and hands
// graphql-go a thunk.
//
// Product.category and OrderItem.product use the document attached by the
// products/orders queries when present and fall back to a lookup otherwise.
//
// # Date scalar
//
// Date is epoch milliseconds on the wire. Variables accept any integral
// number. Literals accept only Int; any other literal kind decodes to null
// without an error.
//
// # Errors
//
// Resolver errors carry extensions.code derived from the error class:
//
//	INVALID_INPUT      malformed identifier
//	NOT_FOUND          createOrder line product missing
//	TRANSIENT_ERROR    database unreachable
//	DEADLINE_EXCEEDED  request deadline hit
//	CANCELLED          client went away
//	INTERNAL_ERROR     anything else (message hidden)
//
// A failing field is null in the response; its siblings still resolve.
//
// # SDL
//
// schema.graphql documents the same schema in SDL. VerifySDL compares it
// against the built schema with gqlparser and reports every difference;
// the server refuses to start when they drift.
//
// # HTTP
//
// Server routes:
//
//	POST /graphql         {"query", "operationName", "variables"}
//	GET  /graphql?query=  same, from the URL
//	GET  /                GraphQL Playground
//	GET  /health          dependency health (503 when unhealthy)
//	GET  /metrics         Prometheus metrics
//	GET  /schema.graphql  the SDL
package graphql
