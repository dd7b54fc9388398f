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

// Package healthcheck provides liveness and readiness probes for the server.
package healthcheck

import (
	"strings"

	httpservice "github.com/motumag/payflow/internal/system/http"
	"github.com/motumag/payflow/internal/system/log"
)

const gatewayServiceName = "PaymentGateway"

// HealthCheckServiceInterface defines the interface for the health check service.
type HealthCheckServiceInterface interface {
	CheckReadiness() ServerStatus
}

// healthCheckService is the default implementation of the HealthCheckServiceInterface.
type healthCheckService struct {
	gatewayBaseURL string
	httpClient     httpservice.HTTPClientInterface
}

// NewHealthCheckService creates a health check service probing the given gateway.
func NewHealthCheckService(gatewayBaseURL string,
	httpClient httpservice.HTTPClientInterface) HealthCheckServiceInterface {
	if httpClient == nil {
		httpClient = httpservice.GetHTTPClient()
	}
	return &healthCheckService{
		gatewayBaseURL: strings.TrimSuffix(gatewayBaseURL, "/"),
		httpClient:     httpClient,
	}
}

// CheckReadiness checks the readiness of the server and its dependencies.
func (hcs *healthCheckService) CheckReadiness() ServerStatus {
	gatewayStatus := ServiceStatus{
		ServiceName: gatewayServiceName,
		Status:      hcs.checkGatewayStatus(),
	}

	status := StatusUp
	if gatewayStatus.Status == StatusDown {
		status = StatusDown
	}
	return ServerStatus{
		Status:        status,
		ServiceStatus: []ServiceStatus{gatewayStatus},
	}
}

// checkGatewayStatus probes the payment gateway. Any HTTP response counts as
// reachable; only transport failures mark the gateway down.
func (hcs *healthCheckService) checkGatewayStatus() Status {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "HealthCheckService"))

	resp, err := hcs.httpClient.Get(hcs.gatewayBaseURL + "/health")
	if err != nil {
		logger.Error("Failed to reach the payment gateway", log.Error(err))
		return StatusDown
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Error closing response body", log.Error(closeErr))
		}
	}()

	return StatusUp
}
