// Package errors provides standardized error handling patterns for the storefront API.
//
// # Error Classification
//
// Errors fall into four classes:
//
//   - Transient: database or broker unavailable, timeouts, cancelled requests
//   - Invalid: malformed input such as an identifier that is not a 24-digit hex ObjectID
//   - NotFound: a document an operation depends on does not exist
//   - Fatal: bad configuration and anything unclassified
//
// The GraphQL gateway maps each class to an error code in the response extensions,
// so classification decides what a client sees. Unclassified errors are treated as
// Fatal and surface as "Internal server error".
//
// # Error Wrapping Pattern
//
// All error wrapping follows the format:
//
//	"component.method: action failed: %w"
//
//	errors.WrapTransient(err, "MongoStore", "Create", "insert user")
//	errors.WrapInvalid(err, "Service", "AddProduct", "parse categoryId")
//	errors.WrapNotFound(err, "Service", "CreateOrder", "lookup product")
//	errors.WrapFatal(err, "Config", "Validate", "storage mode")
//
// The generic Wrap() keeps the original classification of err.
//
// # Integration with errors.As/Is
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    logger.Warn("operation failed", "component", ce.Component, "class", ce.Class)
//	}
//
// No error in this system is retried; classification only drives reporting.
package errors
