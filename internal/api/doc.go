// Package api serves the GCD calculator over HTTP.
//
// Separation of Concerns
//
// The api package decodes form bodies into raw field values, maps core
// results and validation errors to localised HTML views, and hosts the HTTP
// server. Parsing, validation and the computation itself live in core, which
// knows nothing about HTTP or HTML.
//
// Server
//
// NewServer wires a routing table onto a ServeMux and configures timeouts.
// Start binds synchronously, so an unusable address is reported to the
// caller, then serves in a goroutine; Stop performs graceful shutdown. The
// server moves through idle, listening, stopping and stopped, and refuses to
// start twice.
//
// Middleware, outermost first: request id, access log, panic recovery, gzip
// compression, static headers.
//
// Error Model
//
// Every rejection is an HTML page. Unreadable bodies, wrong content types,
// duplicate, missing, malformed and zero fields answer 400 without calling the
// kernel. Unrouted paths answer 404; routed paths with the wrong method answer
// 405 with an Allow header. Pages are rendered into a buffer first, so a
// template failure becomes a plain 500 rather than a truncated page.
//
// Current Endpoints
//
// - GET /: the input form
// - POST /gcd: computes the GCD of form fields n and m
package api
