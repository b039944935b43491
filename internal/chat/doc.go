// Package chat fetches, parses and posts messages for the station chat.
//
// # Receiving
//
// The chat feed is an XML document at {base}/chat/messages.xml whose
// top-level records are <message> elements. Parser walks the document once
// with encoding/xml and moves through three states:
//
//	idle ──<message>──> insideRecord ──<field>──> insideField
//	  ^                     │    ^                     │
//	  └────</message>───────┘    └──────</field>───────┘
//
// Fields are matched by element name, in any order. When a field repeats
// within one record the last occurrence wins. Unknown elements are ignored,
// and markup nested inside a field contributes only its text, so a username
// containing HTML is never read as record structure.
//
// A document that cannot be opened at all yields *ParserInitializationError
// and no messages. A syntax error part-way through aborts the parse with
// *MalformedDocumentError; the messages completed before the error are
// returned with it.
//
// # Sending
//
// Messages are posted to {base}/chat/save.php as
//
//	chatmessage=<text>&chatpassword=<true|false>&username=<name>
//
// with each value percent-encoded independently. The response body is not
// read; callers receive the status and headers only.
//
// # Concurrency
//
// Fetch, FetchAsync, Send and SendAsync return immediately. Network I/O runs
// on a fresh goroutine per call and the completion is delivered exactly once
// on the Client's dispatcher, which also performs parsing. There is no
// caching, coalescing or retrying: every call is a new request.
package chat
