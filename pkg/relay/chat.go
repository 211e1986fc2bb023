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

	"github.com/agrirelay/agrirelay/pkg/chatbase"
)

const msgChatFail = "Chatbase response failed"

// Chat forwards req to the chatbot and returns its JSON reply verbatim.
func (rl *Relay) Chat(ctx context.Context, req *ChatRequest) (json.RawMessage, error) {
	if err := rl.validate(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, rl.upstreamTimeout)
	defer cancel()

	reply, err := rl.chat.Chat(ctx, req.Message)
	if err != nil {
		logFailure(ctx, "chat", chatbase.UpstreamName, err)
		return nil, upstreamError(chatbase.UpstreamName, msgChatFail, err)
	}
	return reply, nil
}
