// Package relay implements the prediction and chat routes.
//
// Each inbound request results in exactly one upstream call:
//
//	POST /api/predict-disease     multipart "image" -> plant disease classifier
//	POST /api/predict-crop        JSON readings     -> crop recommendation model
//	POST /api/predict-fertilizer  JSON readings     -> fertilizer recommendation model
//	POST /api/chatbase            {"message": ...}  -> chatbot, reply passed through
//	GET  /api/chatbase-test       liveness text for the chat route
//	GET  /api                     liveness text
//
// Adapters return (result, error). Errors are tagged with pkg/errors codes
// and written once by the handler through server.WriteErrorFromErr, so an
// upstream failure becomes a 500 JSON body with "error" and "details" while
// the server keeps serving later requests.
//
// Hosted models are reached through a SpaceConnector, normally
// GradioConnector over a shared gradio.Dialer, and the chatbot through a
// ChatClient such as *chatbase.Client. Tests substitute both.
package relay
