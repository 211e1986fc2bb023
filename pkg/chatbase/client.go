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

// Package chatbase calls the hosted chatbot message API.
package chatbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agrirelay/agrirelay/pkg/upstream"
)

const (
	// DefaultEndpoint is the public chat API.
	DefaultEndpoint = "https://www.chatbase.co/api/v1/chat"

	// UpstreamName labels chatbot calls in metrics.
	UpstreamName = "chatbase"

	roleUser = "user"
)

// Message is a single turn in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	ChatbotID string    `json:"chatbotId"`
	Messages  []Message `json:"messages"`
}

// Client sends user messages to a configured chatbot.
type Client struct {
	endpoint string
	apiKey   string
	botID    string
	http     *upstream.Client
}

// New returns a client for botID. An empty endpoint selects DefaultEndpoint
// and a nil httpc a default upstream client.
func New(endpoint, apiKey, botID string, httpc *upstream.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpc == nil {
		httpc = upstream.NewClient()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		botID:    botID,
		http:     httpc,
	}
}

// Chat sends message as a single user turn and returns the JSON response
// body exactly as received.
func (c *Client) Chat(ctx context.Context, message string) (json.RawMessage, error) {
	payload, err := json.Marshal(chatRequest{
		ChatbotID: c.botID,
		Messages:  []Message{{Role: roleUser, Content: message}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	upstream.SetBearer(req, c.apiKey)

	body, err := c.http.Do(UpstreamName, req)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("chat response is not valid JSON")
	}
	return json.RawMessage(body), nil
}
