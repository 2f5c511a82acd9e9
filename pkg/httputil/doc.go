// Package httputil provides small HTTP helpers shared by the canopy server.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps a
// structured error from [github.com/matzehuels/canopy/pkg/errors] to an HTTP
// status and writes {"code", "error"}:
//
//	if err != nil {
//	    httputil.WriteError(w, err)
//	    return
//	}
//	httputil.WriteJSON(w, http.StatusOK, update)
//
// [DecodeJSON] reads a bounded request body and reports malformed input as
// INVALID_INPUT, so handlers can pass the error straight to WriteError.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped in
// [RetryableError] are retried:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy, func() error {
//	    if err := client.Ping(ctx).Err(); err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    return nil
//	})
package httputil
