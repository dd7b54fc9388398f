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

package browser

import (
	"encoding/json"
	"net/http"

	"github.com/motumag/payflow/internal/microform"
	serverconst "github.com/motumag/payflow/internal/system/constants"
	"github.com/motumag/payflow/internal/system/error/apierror"
	"github.com/motumag/payflow/internal/system/log"
	sysutils "github.com/motumag/payflow/internal/system/utils"
)

// widgetEvent is the outcome of a tokenize directive as observed by the
// front end. Result carries the widget's raw token payload on success.
type widgetEvent struct {
	RequestID string `json:"requestId"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// apiErrorInvalidEvent is returned when the widget event payload cannot be decoded.
var apiErrorInvalidEvent = apierror.ErrorResponse{
	Code:        "PFE-60006",
	Message:     "Invalid request payload",
	Description: "Failed to decode widget event payload",
}

// channelHandler handles the front end facing directive and event requests.
type channelHandler struct {
	channel *Channel
}

func newChannelHandler(channel *Channel) *channelHandler {
	return &channelHandler{channel: channel}
}

// HandleDirectivesRequest drains and returns the queued presentation directives.
func (ch *channelHandler) HandleDirectivesRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "BrowserChannelHandler"))

	directives := ch.channel.DrainDirectives()
	if directives == nil {
		directives = []Directive{}
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(directives); err != nil {
		logger.Error("Error encoding directives response", log.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// HandleWidgetEventRequest accepts a widget outcome and resolves the waiting
// tokenize request.
func (ch *channelHandler) HandleWidgetEventRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "BrowserChannelHandler"))

	event, err := sysutils.DecodeJSONBody[widgetEvent](r)
	if err != nil || event.RequestID == "" {
		w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
		w.WriteHeader(http.StatusBadRequest)
		if encodeErr := json.NewEncoder(w).Encode(apiErrorInvalidEvent); encodeErr != nil {
			logger.Error("Error encoding error response", log.Error(encodeErr))
		}
		return
	}

	var tokenizationErr error
	if event.Error != "" {
		tokenizationErr = &microform.TokenizationError{Message: event.Error}
	}
	ch.channel.ResolveToken(event.RequestID, event.Result, tokenizationErr)

	w.WriteHeader(http.StatusNoContent)
}
