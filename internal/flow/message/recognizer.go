/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package message recognizes challenge completion signals arriving from
// authentication frames. Different card networks and authentication providers
// emit different payload shapes, so recognition is driven by a variant list
// rather than a single schema.
package message

import (
	"encoding/json"
	"strings"
)

// fieldVariant matches a payload field against a set of accepted values.
type fieldVariant struct {
	field  string
	values []string
}

// completionFieldVariants are the field and value combinations that signal a
// completed challenge. Field names are matched case sensitively because each
// provider emits a fixed casing.
var completionFieldVariants = []fieldVariant{
	{field: "Status", values: []string{"SUCCESS"}},
	{field: "status", values: []string{"SUCCESS", "success"}},
	{field: "ActionCode", values: []string{"SUCCESS"}},
	{field: "type", values: []string{"3dsMethodFinished"}},
	{field: "MessageType", values: []string{"profile.completed", "authentication.completed"}},
	{field: "messageType", values: []string{"profile.completed", "authentication.completed"}},
}

// completionBoolFields signal completion when present and true.
var completionBoolFields = []string{"validated", "success"}

// completionSubstrings mark a plain string payload as a completion signal.
var completionSubstrings = []string{"success", "complete", "authenticated"}

// failureMarkers disqualify a payload even when a completion substring matches.
var failureMarkers = []string{"fail", "error", "cancel", "unsuccess"}

// transactionIDFields are checked in order when extracting the transaction ID.
var transactionIDFields = []string{
	"authenticationTransactionId",
	"TransactionId",
	"transactionId",
}

// Recognition is the outcome of inspecting one frame payload.
type Recognition struct {
	Completed     bool
	TransactionID string
	Raw           map[string]any
}

// Recognize inspects a frame payload and reports whether it signals a
// completed challenge. Failure payloads are never recognized as completion.
func Recognize(data any) Recognition {
	switch value := data.(type) {
	case map[string]any:
		return recognizeObject(value)
	case string:
		return recognizeString(value)
	default:
		return Recognition{}
	}
}

func recognizeObject(payload map[string]any) Recognition {
	recognition := Recognition{Raw: payload}

	if objectSignalsFailure(payload) {
		return recognition
	}

	for _, variant := range completionFieldVariants {
		fieldValue, ok := payload[variant.field].(string)
		if !ok {
			continue
		}
		for _, accepted := range variant.values {
			if fieldValue == accepted {
				recognition.Completed = true
				recognition.TransactionID = extractTransactionID(payload)
				return recognition
			}
		}
	}

	for _, field := range completionBoolFields {
		if flag, ok := payload[field].(bool); ok && flag {
			recognition.Completed = true
			recognition.TransactionID = extractTransactionID(payload)
			return recognition
		}
	}

	return recognition
}

func recognizeString(payload string) Recognition {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return Recognition{}
	}

	// JSON strings are unwrapped and inspected as objects.
	if strings.HasPrefix(trimmed, "{") {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return recognizeObject(parsed)
		}
	}

	lowered := strings.ToLower(trimmed)
	for _, marker := range failureMarkers {
		if strings.Contains(lowered, marker) {
			return Recognition{}
		}
	}
	for _, substring := range completionSubstrings {
		if strings.Contains(lowered, substring) {
			return Recognition{Completed: true, Raw: map[string]any{"value": payload}}
		}
	}
	return Recognition{}
}

// objectSignalsFailure reports whether any recognized field carries an
// explicit failure value.
func objectSignalsFailure(payload map[string]any) bool {
	for _, field := range []string{"Status", "status", "ActionCode"} {
		value, ok := payload[field].(string)
		if !ok {
			continue
		}
		lowered := strings.ToLower(value)
		for _, marker := range failureMarkers {
			if strings.Contains(lowered, marker) {
				return true
			}
		}
	}
	for _, field := range completionBoolFields {
		if flag, ok := payload[field].(bool); ok && !flag {
			return true
		}
	}
	return false
}

func extractTransactionID(payload map[string]any) string {
	for _, field := range transactionIDFields {
		if id, ok := payload[field].(string); ok && id != "" {
			return id
		}
	}
	return ""
}
