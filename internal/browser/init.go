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
	"net/http"

	"github.com/motumag/payflow/internal/system/middleware"
)

// Initialize creates the browser channel and registers its routes on the mux.
func Initialize(mux *http.ServeMux) *Channel {
	channel := NewChannel()
	handler := newChannelHandler(channel)

	opts := middleware.CORSOptions{
		AllowedMethods:   "GET, POST",
		AllowedHeaders:   "Content-Type",
		AllowCredentials: true,
	}
	mux.HandleFunc(middleware.WithCORS("GET /client/directives",
		handler.HandleDirectivesRequest, opts))
	mux.HandleFunc(middleware.WithCORS("POST /client/events",
		handler.HandleWidgetEventRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /client/events",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}, opts))

	return channel
}
