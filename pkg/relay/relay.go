// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/agrirelay/agrirelay/pkg/defaults"
	apperrors "github.com/agrirelay/agrirelay/pkg/errors"
	"github.com/agrirelay/agrirelay/pkg/gradio"
	"github.com/agrirelay/agrirelay/pkg/server"
)

// ModelSession is an open session to a hosted model space.
type ModelSession interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (gradio.FileData, error)
	Predict(ctx context.Context, endpoint string, data ...any) (*gradio.Result, error)
}

// SpaceConnector opens a session to the named space.
type SpaceConnector func(ctx context.Context, space string) (ModelSession, error)

// GradioConnector adapts a gradio.Dialer to a SpaceConnector.
func GradioConnector(d *gradio.Dialer) SpaceConnector {
	return func(ctx context.Context, space string) (ModelSession, error) {
		c, err := d.Connect(ctx, space)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// ChatClient sends a user message to the chatbot and returns its raw reply.
type ChatClient interface {
	Chat(ctx context.Context, message string) (json.RawMessage, error)
}

// Relay forwards each inbound request to exactly one upstream call. It holds
// no per-request state and is safe for concurrent use.
type Relay struct {
	connect         SpaceConnector
	chat            ChatClient
	maxUploadBytes  int64
	maxJSONBytes    int64
	upstreamTimeout time.Duration
	validator       *validator.Validate
}

// Option configures a Relay.
type Option func(*Relay)

// WithMaxUploadBytes caps the multipart body of the disease route.
func WithMaxUploadBytes(n int64) Option {
	return func(rl *Relay) {
		if n > 0 {
			rl.maxUploadBytes = n
		}
	}
}

// WithMaxJSONBytes caps JSON request bodies.
func WithMaxJSONBytes(n int64) Option {
	return func(rl *Relay) {
		if n > 0 {
			rl.maxJSONBytes = n
		}
	}
}

// WithUpstreamTimeout bounds each adapter call, including session setup.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(rl *Relay) {
		if d > 0 {
			rl.upstreamTimeout = d
		}
	}
}

// New returns a Relay using connect for hosted models and chat for the chatbot.
func New(connect SpaceConnector, chat ChatClient, opts ...Option) *Relay {
	rl := &Relay{
		connect:         connect,
		chat:            chat,
		maxUploadBytes:  defaults.MaxUploadBytes,
		maxJSONBytes:    defaults.MaxJSONBodyBytes,
		upstreamTimeout: defaults.UpstreamCallTimeout,
		validator:       newValidator(),
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// upstreamError tags err as an adapter failure. Deadline overruns keep the
// TIMEOUT code so they can be told apart in logs and bodies.
func upstreamError(upstream, message string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.WrapWithContext(apperrors.ErrCodeTimeout, message, err,
			map[string]any{"upstream": upstream})
	}
	return apperrors.Upstream(upstream, message, err)
}

func logFailure(ctx context.Context, adapter, upstream string, err error) {
	slog.Error("adapter call failed",
		"adapter", adapter,
		"upstream", upstream,
		"requestID", server.RequestIDFromContext(ctx),
		"error", err,
	)
}
