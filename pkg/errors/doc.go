// Package errors provides structured error types for better observability
// and programmatic error handling across the relay.
//
// Three classes reach HTTP callers: validation failures (missing upload,
// malformed body), upstream failures (hosted model or chat API errors) and
// CORS rejections. Each is a *StructuredError carrying an ErrorCode that the
// server package maps to a status code exactly once, at the HTTP boundary.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUpstream,
//	    "Prediction failed",
//	    cause,
//	    map[string]any{
//	        "upstream": "akhaliq/Plant-Disease-Classifier",
//	        "endpoint": "/predict",
//	    },
//	)
package errors
