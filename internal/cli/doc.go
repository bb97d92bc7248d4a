// Package cli parses command-line arguments into an app configuration and
// owns the process exit-code contract.
package cli
