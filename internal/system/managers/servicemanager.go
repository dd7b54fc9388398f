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

// Package managers provides functionality for managing and registering server services.
package managers

import (
	"net/http"

	"github.com/motumag/payflow/internal/browser"
	"github.com/motumag/payflow/internal/flow"
	"github.com/motumag/payflow/internal/system/config"
	"github.com/motumag/payflow/internal/system/healthcheck"
)

// ServiceManagerInterface defines the interface for managing services.
type ServiceManagerInterface interface {
	RegisterServices() error
}

// ServiceManager implements the ServiceManagerInterface and is responsible for registering services.
type ServiceManager struct {
	mux *http.ServeMux
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {
	return &ServiceManager{
		mux: mux,
	}
}

// RegisterServices registers all the services with the provided HTTP multiplexer.
func (sm *ServiceManager) RegisterServices() error {
	cfg := config.GetPayflowRuntime().Config

	// Register the browser channel service. The channel doubles as the widget
	// driver and the frame bridge for the flow service.
	channel := browser.Initialize(sm.mux)

	// Register the payment flow execution service.
	_ = flow.Initialize(sm.mux, channel, channel)

	// Register the health service.
	healthcheck.Initialize(sm.mux, cfg.Gateway.BaseURL, nil)

	return nil
}
