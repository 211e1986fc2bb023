// Package gradio is a minimal client for models hosted as Gradio spaces.
//
// A session is opened with Dialer.Connect, which reads the space
// configuration to discover the API prefix. Files are sent with
// Client.Upload and referenced by the returned FileData in prediction
// arguments. Client.Predict posts positional arguments to
// {prefix}/call/{endpoint} and reads the event stream of the returned event
// id until the complete event.
//
// Usage:
//
//	d := &gradio.Dialer{HTTP: upstream.NewClient(), Token: token}
//	c, err := d.Connect(ctx, "owner/space")
//	if err != nil {
//	    return err
//	}
//	res, err := c.Predict(ctx, "/predict", 25.0, 80.0)
//
// All calls carry the bearer token when configured and go through the
// shared upstream client, so they are bounded by its timeouts and recorded
// in its metrics.
package gradio
