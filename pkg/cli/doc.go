// Package cli implements the agrirelay command-line interface.
//
// # Commands
//
// serve - Run the HTTP relay:
//
//	agrirelay serve [--config FILE] [--port 5000] [--allowed-origins LIST]
//
// Starts the relay on the configured address and blocks until SIGINT or
// SIGTERM, then drains in-flight requests for up to --shutdown-timeout.
//
// config - Print the effective configuration:
//
//	agrirelay config [--config FILE] [--format yaml|json|table]
//
// Resolves configuration the same way serve does and prints it with the
// hosted-model token and chatbot key redacted.
//
// # Configuration Precedence
//
// Defaults, then the YAML file (--config or AGRIRELAY_CONFIG), then
// environment variables, then flags. Later sources win.
//
// # Exit Codes
//
//	0  Success
//	1  Invalid configuration or server failure
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/agrirelay/agrirelay/pkg/cli.version=1.0.0'"
package cli
