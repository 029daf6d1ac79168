// Package config loads the storefront configuration.
//
// Configuration is built in layers, later layers overriding earlier ones:
//
//  1. Defaults (see Default)
//  2. File layers added with AddLayer, JSON or YAML by extension
//  3. Environment variables
//
// Only keys present in a file layer override the layer below, so a file that
// sets http.playground to false leaves http.port at its default.
//
// # Environment
//
//	MONGODB_URI               storage.uri
//	PORT                      http.port
//	NATS_URL                  nats.url (empty disables change events)
//	STOREFRONT_STORAGE_MODE   storage.mode (mongo or memory)
//	STOREFRONT_DATABASE       storage.database
//	STOREFRONT_HTTP_PATH      http.path
//	STOREFRONT_NATS_TOKEN     nats.token
//
// # Usage
//
//	loader := config.NewLoader()
//	loader.AddLayer("configs/storefront.yaml")
//	loader.EnableValidation(true)
//	cfg, err := loader.Load()
//
// Durations accept Go duration strings ("10s", "1m30s") in files.
package config
