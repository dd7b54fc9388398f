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
	"encoding/json"
	"net"
	"net/http"

	"github.com/motumag/payflow/internal/flow/constants"
	"github.com/motumag/payflow/internal/flow/model"
	"github.com/motumag/payflow/internal/gateway"
	serverconst "github.com/motumag/payflow/internal/system/constants"
	"github.com/motumag/payflow/internal/system/error/apierror"
	"github.com/motumag/payflow/internal/system/error/serviceerror"
	"github.com/motumag/payflow/internal/system/log"
	sysutils "github.com/motumag/payflow/internal/system/utils"
)

// paymentFlowHandler handles payment flow execution requests.
type paymentFlowHandler struct {
	flowService PaymentFlowServiceInterface
}

func newPaymentFlowHandler(flowService PaymentFlowServiceInterface) *paymentFlowHandler {
	return &paymentFlowHandler{flowService: flowService}
}

// HandleFlowExecutionRequest handles the flow execution request.
func (h *paymentFlowHandler) HandleFlowExecutionRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "PaymentFlowHandler"))

	flowReq, err := sysutils.DecodeJSONBody[model.FlowRequest](r)
	if err != nil {
		w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
		w.WriteHeader(http.StatusBadRequest)

		if err := json.NewEncoder(w).Encode(constants.APIErrorFlowRequestJSONDecodeError); err != nil {
			logger.Error("Error encoding error response", log.Error(err))
			http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
		}
		return
	}

	sessionID := sysutils.SanitizeString(flowReq.SessionID)
	actionID := sysutils.SanitizeString(flowReq.ActionID)
	inputs := sysutils.SanitizeStringMap(flowReq.Inputs)
	if raw, ok := flowReq.Inputs["payload"]; ok {
		// The payload input is parsed as JSON downstream; HTML escaping
		// would corrupt it.
		inputs["payload"] = raw
	}
	device := deviceInformationFromRequest(r, flowReq.Inputs)

	flowResp, svcErr := h.flowService.Execute(r.Context(), sessionID, actionID, inputs, device)
	if svcErr != nil {
		handleServiceError(w, logger, svcErr)
		return
	}

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(flowResp); err != nil {
		logger.Error("Error encoding response", log.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	logger.Debug("Flow execution request handled successfully",
		log.String(log.LoggerKeySessionID, flowResp.SessionID),
		log.String(log.LoggerKeyFlowStep, string(flowResp.FlowStep)))
}

// handleServiceError writes a service error as an API error response.
func handleServiceError(w http.ResponseWriter, logger *log.Logger, svcErr *serviceerror.ServiceError) {
	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)

	errResp := apierror.ErrorResponse{
		Code:        svcErr.Code,
		Message:     svcErr.Error,
		Description: svcErr.ErrorDescription,
	}

	if svcErr.Type == serviceerror.ClientErrorType {
		w.WriteHeader(http.StatusBadRequest)
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		logger.Error("Error encoding error response", log.Error(err))
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// deviceInformationFromRequest assembles the enrollment device fingerprint
// from the request headers and the browser probed inputs.
func deviceInformationFromRequest(r *http.Request, inputs map[string]string) gateway.DeviceInformation {
	ipAddress := r.Header.Get("X-Forwarded-For")
	if ipAddress == "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ipAddress = host
		} else {
			ipAddress = r.RemoteAddr
		}
	}

	return gateway.DeviceInformation{
		HTTPAcceptBrowserValue:       r.Header.Get(serverconst.AcceptHeaderName),
		UserAgentBrowserValue:        r.UserAgent(),
		IPAddress:                    ipAddress,
		HTTPBrowserLanguage:          inputs["browserLanguage"],
		HTTPBrowserColorDepth:        inputs["browserColorDepth"],
		HTTPBrowserScreenHeight:      inputs["browserScreenHeight"],
		HTTPBrowserScreenWidth:       inputs["browserScreenWidth"],
		HTTPBrowserTimeDifference:    inputs["browserTimeDifference"],
		HTTPBrowserJavaEnabled:       inputs["browserJavaEnabled"] == "true",
		HTTPBrowserJavaScriptEnabled: true,
	}
}
