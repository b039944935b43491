// Package remote is the HTTP transport shared by the chat and track-list
// clients.
//
// # Overview
//
// Transport wraps an *http.Client and performs the two request shapes the
// remote feeds need: a GET that returns the whole body, and a form-encoded
// POST whose body is never interpreted. Both report failures as
// *TransportError so callers can tell a failed fetch apart from a successful
// one that produced no records.
//
// # Error Handling
//
// TransportError carries the operation, the URL, the HTTP status when one was
// received, and the underlying cause:
//
//   - "create request: ..." when the URL cannot be turned into a request
//   - "execute request: ..." for connection, DNS and timeout failures
//   - "returned status 500: non-success response" for non-2xx replies
//   - "read response: ..." when the body cannot be read
//   - "decode response: ..." when the body is not in the expected encoding
//
// Use errors.As to recover the TransportError and errors.Is with ErrStatus or
// ErrDecode to classify it.
//
// # Design Rationale
//
// The transport never retries and adds no timeout of its own. The defaults of
// the supplied http.Client apply; callers wanting retries wrap the clients
// explicitly.
package remote
