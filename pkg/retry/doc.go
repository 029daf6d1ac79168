// Package retry retries transient failures with exponential backoff.
//
// Whether an error is retried is decided by the errors package: only errors
// for which errors.IsTransient reports true get another attempt. Invalid,
// not-found and fatal errors are returned at once.
//
//	store, err := retry.DoWithResult(ctx, retry.Startup(), func() (*mongostore.Store, error) {
//	    return mongostore.Connect(ctx, cfg, logger)
//	})
//
// The context bounds the whole sequence, backoff included.
package retry
