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

package gradio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/agrirelay/agrirelay/pkg/upstream"
)

const (
	// UpstreamName labels outbound calls to hosted models in metrics.
	UpstreamName = "gradio"

	fileDataType = "gradio.FileData"
)

// SpaceURL returns the public base URL of a hosted space identified as
// "owner/name". Full URLs are returned unchanged.
func SpaceURL(space string) string {
	if strings.HasPrefix(space, "http://") || strings.HasPrefix(space, "https://") {
		return strings.TrimRight(space, "/")
	}
	host := strings.ToLower(space)
	host = strings.NewReplacer("/", "-", "_", "-", ".", "-").Replace(host)
	return "https://" + host + ".hf.space"
}

// Dialer opens sessions to hosted model spaces.
type Dialer struct {
	// HTTP is the shared outbound client.
	HTTP *upstream.Client
	// Token is sent as a bearer token on every call when set.
	Token string
	// SpaceURLs overrides the URL of individual spaces, keyed by space id.
	SpaceURLs map[string]string
	// BaseURL overrides the URL of every space not listed in SpaceURLs.
	BaseURL string
}

// URL returns the base URL used for space: its SpaceURLs entry, then
// BaseURL, then the hosted URL derived from the id.
func (d *Dialer) URL(space string) string {
	if u, ok := d.SpaceURLs[space]; ok && u != "" {
		return strings.TrimRight(u, "/")
	}
	if d.BaseURL != "" {
		return strings.TrimRight(d.BaseURL, "/")
	}
	return SpaceURL(space)
}

// Client is a session bound to a single space.
type Client struct {
	http    *upstream.Client
	token   string
	space   string
	baseURL string
	prefix  string
	version string
}

type spaceConfig struct {
	Version   string `json:"version"`
	APIPrefix string `json:"api_prefix"`
}

// Connect fetches the space configuration and returns a session ready for
// uploads and predictions.
func (d *Dialer) Connect(ctx context.Context, space string) (*Client, error) {
	if space == "" {
		return nil, fmt.Errorf("space id is required")
	}

	hc := d.HTTP
	if hc == nil {
		hc = upstream.NewClient()
	}

	base := d.URL(space)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/config", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create config request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	upstream.SetBearer(req, d.Token)

	body, err := hc.Do(UpstreamName, req)
	if err != nil {
		return nil, fmt.Errorf("could not connect to space %s: %w", space, err)
	}

	var cfg spaceConfig
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config from space %s: %w", space, err)
	}

	return &Client{
		http:    hc,
		token:   d.Token,
		space:   space,
		baseURL: base,
		prefix:  strings.TrimRight(cfg.APIPrefix, "/"),
		version: cfg.Version,
	}, nil
}

// Space returns the space id the session is bound to.
func (c *Client) Space() string { return c.space }

// Version returns the framework version reported by the space.
func (c *Client) Version() string { return c.version }

func (c *Client) apiURL(path string) string {
	return c.baseURL + c.prefix + path
}

// FileData references a file already uploaded to the space.
type FileData struct {
	Path     string   `json:"path"`
	URL      string   `json:"url,omitempty"`
	OrigName string   `json:"orig_name,omitempty"`
	MimeType string   `json:"mime_type,omitempty"`
	Size     int      `json:"size,omitempty"`
	Meta     FileMeta `json:"meta"`
}

// FileMeta tags a payload value as a file reference.
type FileMeta struct {
	Type string `json:"_type"`
}

// Upload sends data to the space's upload endpoint and returns the reference
// to pass as a prediction argument.
func (c *Client) Upload(ctx context.Context, filename, contentType string, data []byte) (FileData, error) {
	if filename == "" {
		filename = "upload"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	} else {
		h.Set("Content-Type", "application/octet-stream")
	}

	part, err := mw.CreatePart(h)
	if err != nil {
		return FileData{}, fmt.Errorf("failed to create upload part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return FileData{}, fmt.Errorf("failed to write upload part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return FileData{}, fmt.Errorf("failed to finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("/upload"), &buf)
	if err != nil {
		return FileData{}, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	upstream.SetBearer(req, c.token)

	body, err := c.http.Do(UpstreamName, req)
	if err != nil {
		return FileData{}, fmt.Errorf("upload failed: %w", err)
	}

	var paths []string
	if err := json.Unmarshal(body, &paths); err != nil {
		return FileData{}, fmt.Errorf("invalid upload response: %w", err)
	}
	if len(paths) == 0 {
		return FileData{}, fmt.Errorf("upload response contained no files")
	}

	return FileData{
		Path:     paths[0],
		URL:      c.apiURL("/file=" + paths[0]),
		OrigName: filename,
		MimeType: contentType,
		Size:     len(data),
		Meta:     FileMeta{Type: fileDataType},
	}, nil
}
