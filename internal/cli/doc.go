// Package cli parses command-line arguments into an application
// configuration and defines the process exit-code contract.
package cli
