// Copyright 2025 Blink Labs Software
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

package response

import (
	"encoding/json"
)

// MarshalJSON tags each message with its instruction type
func (r Response) MarshalJSON() ([]byte, error) {
	type taggedMsg struct {
		Type string `json:"type"`
		Msg  Msg    `json:"msg"`
	}
	msgs := make([]taggedMsg, 0, len(r.Messages))
	for _, msg := range r.Messages {
		msgs = append(msgs, taggedMsg{Type: msg.Type(), Msg: msg})
	}
	attrs := r.Attributes
	if attrs == nil {
		attrs = []Attribute{}
	}
	events := r.Events
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(
		struct {
			Messages   []taggedMsg `json:"messages"`
			Attributes []Attribute `json:"attributes"`
			Events     []Event     `json:"events"`
		}{
			Messages:   msgs,
			Attributes: attrs,
			Events:     events,
		},
	)
}
