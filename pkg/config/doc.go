// Package config loads the relay's process configuration.
//
// Configuration is resolved once at startup, in increasing precedence:
// built-in defaults, an optional YAML file, environment variables, and
// finally command-line flags applied by the cli package. The resulting
// *Config is passed explicitly to the components that need it; nothing
// reads the environment after startup.
//
// Example YAML file:
//
//	port: 5000
//	allowedOrigins:
//	  - https://agri.example.com
//	upstreamTimeout: 45s
//	maxUploadBytes: 5242880
//	logLevel: debug
//
// Recognized environment variables: PORT, BIND_ADDRESS, ALLOWED_ORIGINS,
// HF_API_TOKEN, CHATBASE_API_KEY, CHATBASE_BOT_ID, CHATBASE_URL,
// GRADIO_BASE_URL, UPSTREAM_TIMEOUT_SECONDS, MAX_UPLOAD_BYTES,
// SHUTDOWN_TIMEOUT_SECONDS, LOG_LEVEL and AGRIRELAY_CONFIG (file path).
package config
