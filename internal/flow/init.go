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

package flow

import (
	"net/http"
	"time"

	"github.com/motumag/payflow/internal/flow/engine"
	"github.com/motumag/payflow/internal/flow/frames"
	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/microform"
	"github.com/motumag/payflow/internal/session"
	"github.com/motumag/payflow/internal/system/config"
	httpservice "github.com/motumag/payflow/internal/system/http"
	"github.com/motumag/payflow/internal/system/middleware"
)

// Initialize creates and wires the payment flow service components and
// registers the flow execution routes on the mux.
func Initialize(mux *http.ServeMux, driver microform.DriverInterface,
	bridge frames.BridgeInterface) PaymentFlowServiceInterface {
	cfg := config.GetPayflowRuntime().Config

	httpClient := httpservice.GetHTTPClient()
	if cfg.Gateway.TimeoutSeconds > 0 {
		httpClient = httpservice.NewHTTPClientWithTimeout(
			time.Duration(cfg.Gateway.TimeoutSeconds) * time.Second)
	}
	gatewayClient := gateway.NewCachedClient(
		gateway.NewClient(cfg.Gateway.BaseURL, cfg.Microform.ClientVersion, httpClient))

	flowEngine := engine.New(session.NewStore(), gatewayClient,
		microform.NewTokenizer(driver), bridge, engine.Options{
			TargetOrigins:       cfg.Microform.TargetOrigins,
			AllowedCardNetworks: cfg.Microform.AllowedCardNetworks,
			TrustedFrameOrigins: cfg.PayerAuth.TrustedFrameOrigins,
			ReturnURL:           cfg.PayerAuth.ReturnURL,
			MerchantData:        cfg.PayerAuth.MerchantData,
			DeviceCollectionURL: cfg.PayerAuth.DeviceCollectionURL,
		})

	flowService := newPaymentFlowService(flowEngine)
	handler := newPaymentFlowHandler(flowService)
	registerRoutes(mux, handler)
	return flowService
}

func registerRoutes(mux *http.ServeMux, handler *paymentFlowHandler) {
	opts := middleware.CORSOptions{
		AllowedMethods:   "POST",
		AllowedHeaders:   "Content-Type, Authorization",
		AllowCredentials: true,
	}
	mux.HandleFunc(middleware.WithCORS("POST /flow/execute",
		handler.HandleFlowExecutionRequest, opts))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /flow/execute",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}, opts))
}
