// Command storeserver runs an HTTP server that keeps an in-memory key-value
// store, meant as a fixture for integration tests of HTTP clients and proxies.
// It listens on localhost:8080 and takes no arguments or configuration.
//
// The path of a request, without its leading slash, is the key. GET returns
// the value or 404, HEAD only the status, PUT stores the body (text/plain or
// no content type, else 400) and returns 201, DELETE removes the key and
// returns 204 whether the key was there or not. OPTIONS lists the allowed
// verbs, while POST and PATCH get a 405 with the same list. GET and POST on a
// path with uppercase letters are redirected (302) to the lowercased path.
//
// The non-standard ECHO verb returns the request's x- header fields, verbatim,
// and its body.
//
// Requests are served one at a time, one per connection. The store goes away
// with the process.
package main // import "github.com/nicolagi/verbstore/cmd/storeserver"
