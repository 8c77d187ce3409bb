// Package app contains the core application logic. It owns the configured
// logger and the project cache, answers the queries the CLI exposes, and
// runs the watch loop, decoupled from any specific entrypoint.
package app
