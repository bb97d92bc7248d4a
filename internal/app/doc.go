// Package app contains the core application logic: probing capabilities,
// loading node units, assembling the registry, and serving the palette to
// the host. It is decoupled from any specific entrypoint like a CLI.
package app
