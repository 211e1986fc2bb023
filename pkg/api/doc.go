// Package api assembles the AgriRelay HTTP service.
//
// Serve wires one shared upstream HTTP client into the hosted model dialer
// and the chatbot client, builds the relay routes and hands them to
// pkg/server, which owns middleware, CORS, health probes, metrics and
// graceful shutdown.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := api.Serve(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// Application endpoints:
//   - POST /api/predict-disease    - multipart "image" field, returns {"prediction": label}
//   - POST /api/predict-crop       - JSON readings, returns {"recommendedCrop": value}
//   - POST /api/predict-fertilizer - JSON readings, returns {"prediction": value}
//   - POST /api/chatbase           - {"message": text}, returns the chatbot reply verbatim
//   - GET  /api/chatbase-test      - plain text probe
//   - GET  /api                    - plain text probe
//
// System endpoints:
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// Example:
//
//	curl -X POST http://localhost:5000/api/predict-crop \
//	  -H 'Content-Type: application/json' \
//	  -d '{"temp":25,"humidity":80,"ph":6.5,"rainfall":200,"N":90,"P":40,"K":40}'
package api
