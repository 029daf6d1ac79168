// Package storefront is a small e-commerce GraphQL API over MongoDB.
//
// Clients manage users, categories, products, orders and reviews through a
// single GraphQL endpoint. Product and review lists can be filtered by their
// parent reference, orders are priced from the current product prices when
// they are placed, and nested fields (a product's category, an order's user,
// a review's product) are resolved by looking the referenced document up.
//
// # Architecture
//
//	cmd/storefront        flags, logging, wiring, graceful shutdown
//	config                layered configuration: defaults, file, environment
//	gateway/graphql       HTTP server, GraphQL schema, resolvers, Date scalar
//	commerce              queries and mutations, order pricing, change events
//	storage               persistence gateway interface, filters, populate
//	storage/mongostore    MongoDB implementation
//	storage/memstore      in-process implementation for tests and demos
//	model                 documents as stored
//	events, natsclient    best-effort change events over NATS
//	errors                classified errors (transient, invalid, not found, fatal)
//	metric, health        Prometheus metrics and the /health endpoint
//
// # Request Flow
//
//	HTTP request
//	  -> gateway/graphql.Handler (parse, validate, execute)
//	  -> field resolver
//	  -> commerce.Service
//	  -> storage.Store (metered)
//	  -> MongoDB
//
// Resolver errors are classified and reported in the GraphQL errors array with
// extensions.code; sibling fields keep their data.
//
// # Running
//
//	MONGODB_URI=mongodb://localhost:27017/shop go run ./cmd/storefront
//
// The API listens on PORT (default 4000) at /graphql, with GraphQL Playground
// at / and the schema text at /schema.graphql.
package storefront
