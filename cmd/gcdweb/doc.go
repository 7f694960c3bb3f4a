// Command gcdweb serves a form that computes the greatest common divisor of
// two numbers.
//
// Usage:
//
//   gcdweb [serve] [--listen 127.0.0.1:3000] [--config gcdweb.yaml] [flags]
//   gcdweb config   print the effective configuration as YAML
//
// Every flag can also be set in gcdweb.yaml or as a GCDWEB_* environment
// variable (for example GCDWEB_LOG_LEVEL=debug). Flags win over the
// environment, which wins over the file.
//
// Behavior:
//
// Binds the listener (a bind failure exits 1), serves until SIGINT/SIGTERM,
// then shuts down gracefully within --shutdown-timeout.
package main
