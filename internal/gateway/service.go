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

// Package gateway provides typed request/response bindings for the backend payment gateway.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	sysconst "github.com/motumag/payflow/internal/system/constants"
	httpservice "github.com/motumag/payflow/internal/system/http"
	"github.com/motumag/payflow/internal/system/log"
)

const loggerComponentName = "BackendGatewayClient"

// Endpoint paths relative to the deployment's base path.
const (
	pathCaptureContext       = "/capture-context"
	pathVerifyTransientToken = "/verify-transient-token"
	pathAuthenticationSetups = "/authentication-setups"
	pathPayerAuthEnrollment  = "/payer-authentication-enrollment"
)

// maxErrorBodySize bounds how much of an error response body is read.
const maxErrorBodySize = 8192

// ClientInterface defines the contract for the backend gateway client.
// None of the operations retry; a retry is a user initiated re-trigger at the caller.
type ClientInterface interface {
	GetCaptureContext(ctx context.Context, targetOrigins, allowedCardNetworks []string) (
		*CaptureContext, error)
	VerifyTransientToken(ctx context.Context, transientToken string) (*TokenValidationResult, error)
	SetupAuthentication(ctx context.Context, jti string) (*AuthenticationSetupResult, error)
	CheckEnrollment(ctx context.Context, request *EnrollmentRequest) (*EnrollmentCheckResult, error)
}

// client is the default implementation of ClientInterface.
type client struct {
	baseURL       string
	clientVersion string
	httpClient    httpservice.HTTPClientInterface
}

// NewClient creates a new backend gateway client for the given base URL.
func NewClient(baseURL, clientVersion string, httpClient httpservice.HTTPClientInterface) ClientInterface {
	if httpClient == nil {
		httpClient = httpservice.GetHTTPClient()
	}
	return &client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		clientVersion: clientVersion,
		httpClient:    httpClient,
	}
}

// GetCaptureContext requests a capture context authorizing widget initialization.
func (c *client) GetCaptureContext(ctx context.Context, targetOrigins, allowedCardNetworks []string) (
	*CaptureContext, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	reqBody := captureContextRequest{
		TargetOrigins:       targetOrigins,
		AllowedCardNetworks: allowedCardNetworks,
		ClientVersion:       c.clientVersion,
	}

	resp, err := c.postJSON(ctx, pathCaptureContext, reqBody, "getCaptureContext")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, logger)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.backendError(resp, "getCaptureContext")
	}

	var ccResp captureContextResponse
	if err := json.NewDecoder(resp.Body).Decode(&ccResp); err != nil {
		logger.Error("Failed to parse capture context response", log.Error(err))
		return nil, &BackendError{Operation: "getCaptureContext", Status: resp.StatusCode,
			Message: "malformed capture context response"}
	}

	if ccResp.Status != "success" || ccResp.Data == nil {
		return nil, &BackendError{Operation: "getCaptureContext", Status: resp.StatusCode,
			Message: ccResp.Message}
	}

	logger.Debug("Capture context issued",
		log.String("clientLibrary", ccResp.Data.ClientLibraryURL))
	return ccResp.Data, nil
}

// VerifyTransientToken verifies the transient token and returns its validation result.
func (c *client) VerifyTransientToken(ctx context.Context, transientToken string) (
	*TokenValidationResult, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if strings.TrimSpace(transientToken) == "" {
		return nil, &ValidationError{Message: "transient token is empty"}
	}

	resp, err := c.postJSON(ctx, pathVerifyTransientToken,
		verifyTokenRequest{TransientToken: transientToken}, "verifyTransientToken")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, logger)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := decodeErrorBody(resp)
		logger.Error("Token verification rejected by gateway",
			log.Int("statusCode", resp.StatusCode), log.String("traceId", errBody.TraceID))
		return nil, &ValidationError{
			Status:      resp.StatusCode,
			Message:     errBody.Message,
			TraceID:     errBody.TraceID,
			FieldErrors: errBody.FieldErrors,
		}
	}

	var vtResp verifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&vtResp); err != nil {
		logger.Error("Failed to parse token verification response", log.Error(err))
		return nil, &BackendError{Operation: "verifyTransientToken", Status: resp.StatusCode,
			Message: "malformed verification response"}
	}
	if vtResp.Data == nil {
		return nil, &BackendError{Operation: "verifyTransientToken", Status: resp.StatusCode,
			Message: "verification response missing data"}
	}

	logger.Debug("Transient token verified", log.String("jti", vtResp.Data.JTI))
	return vtResp.Data, nil
}

// SetupAuthentication runs the payer authentication setup for the given token JTI.
// A non COMPLETED status in a 2xx response is reported as an AuthSetupError.
func (c *client) SetupAuthentication(ctx context.Context, jti string) (
	*AuthenticationSetupResult, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if strings.TrimSpace(jti) == "" {
		return nil, &AuthSetupError{Message: "token JTI is empty"}
	}

	resp, err := c.postJSON(ctx, pathAuthenticationSetups,
		authSetupRequest{TransientTokenJTI: jti}, "setupAuthentication")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, logger)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := decodeErrorBody(resp)
		logger.Error("Authentication setup rejected by gateway",
			log.Int("statusCode", resp.StatusCode), log.String("traceId", errBody.TraceID))
		return nil, &AuthSetupError{
			HTTPStatus:        resp.StatusCode,
			Status:            errBody.CybersourceStatus,
			Message:           errBody.Message,
			TraceID:           errBody.TraceID,
			CybersourceReason: errBody.CybersourceReason,
		}
	}

	var asResp authSetupResponse
	if err := json.NewDecoder(resp.Body).Decode(&asResp); err != nil {
		logger.Error("Failed to parse authentication setup response", log.Error(err))
		return nil, &BackendError{Operation: "setupAuthentication", Status: resp.StatusCode,
			Message: "malformed authentication setup response"}
	}

	result := flattenAuthSetupResponse(&asResp)
	logger.Debug("Authentication setup response received",
		log.String("id", result.ID), log.String("status", result.Status))
	return result, nil
}

// CheckEnrollment runs the payer authentication enrollment check.
func (c *client) CheckEnrollment(ctx context.Context, request *EnrollmentRequest) (
	*EnrollmentCheckResult, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	if request == nil || strings.TrimSpace(request.TransientTokenJWT) == "" {
		return nil, &EnrollmentError{Message: "enrollment request is missing the transient token"}
	}

	wireReq := enrollmentWireRequest{
		ClientReferenceInformation: clientReferenceInformation{Code: request.ClientReferenceCode},
		OrderInformation: orderInformation{
			AmountDetails: request.Amount,
			BillTo:        request.BillTo,
		},
		DeviceInformation: request.Device,
		ConsumerAuthentication: consumerAuthenticationRequest{
			ChallengeCode: request.ChallengeCode,
			DeviceChannel: request.DeviceChannel,
			ReturnURL:     request.ReturnURL,
			ReferenceID:   request.ReferenceID,
		},
		TokenInformation: tokenInformation{TransientTokenJWT: request.TransientTokenJWT},
	}

	resp, err := c.postJSON(ctx, pathPayerAuthEnrollment, wireReq, "checkEnrollment")
	if err != nil {
		return nil, err
	}
	defer closeBody(resp, logger)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody := decodeErrorBody(resp)
		logger.Error("Enrollment check rejected by gateway",
			log.Int("statusCode", resp.StatusCode), log.String("traceId", errBody.TraceID))
		return nil, &EnrollmentError{
			HTTPStatus: resp.StatusCode,
			Message:    errBody.Message,
			TraceID:    errBody.TraceID,
		}
	}

	var enResp enrollmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&enResp); err != nil {
		logger.Error("Failed to parse enrollment response", log.Error(err))
		return nil, &BackendError{Operation: "checkEnrollment", Status: resp.StatusCode,
			Message: "malformed enrollment response"}
	}

	result := flattenEnrollmentResponse(&enResp)
	logger.Debug("Enrollment check response received",
		log.String("id", result.ID), log.String("status", result.Status),
		log.String("challengeRequired", result.ChallengeRequired))
	return result, nil
}

// postJSON builds and executes a JSON POST request against the gateway.
func (c *client) postJSON(ctx context.Context, path string, body any, operation string) (
	*http.Response, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	payload, err := json.Marshal(body)
	if err != nil {
		logger.Error("Failed to marshal request body", log.Error(err))
		return nil, &BackendError{Operation: operation, Message: "failed to encode request body"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		bytes.NewReader(payload))
	if err != nil {
		logger.Error("Failed to create gateway request", log.Error(err))
		return nil, &BackendError{Operation: operation, Message: "failed to create request"}
	}
	httpReq.Header.Add(sysconst.ContentTypeHeaderName, sysconst.ContentTypeJSON)
	httpReq.Header.Add(sysconst.AcceptHeaderName, sysconst.ContentTypeJSON)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("Gateway request failed", log.String("path", path), log.Error(err))
		return nil, &NetworkError{Operation: operation, Err: err}
	}

	return resp, nil
}

// backendError drains the error body of a non-2xx response into a BackendError.
func (c *client) backendError(resp *http.Response, operation string) error {
	errBody := decodeErrorBody(resp)
	return &BackendError{
		Operation: operation,
		Status:    resp.StatusCode,
		Message:   errBody.Message,
		TraceID:   errBody.TraceID,
	}
}

// decodeErrorBody parses the structured error body of a non-2xx response.
// A body that cannot be parsed yields an empty errorResponseBody.
func decodeErrorBody(resp *http.Response) errorResponseBody {
	var errBody errorResponseBody
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return errBody
	}
	_ = json.Unmarshal(data, &errBody)
	if errBody.Message == "" {
		errBody.Message = strings.TrimSpace(string(data))
	}
	return errBody
}

// flattenAuthSetupResponse maps the nested wire response to the flattened result model.
func flattenAuthSetupResponse(resp *authSetupResponse) *AuthenticationSetupResult {
	result := &AuthenticationSetupResult{
		ID:     resp.ID,
		Status: resp.Status,
	}
	if resp.ClientReferenceInformation != nil {
		result.ClientReferenceCode = resp.ClientReferenceInformation.Code
	}
	if resp.ConsumerAuthentication != nil {
		result.ReferenceID = resp.ConsumerAuthentication.ReferenceID
		result.AccessToken = resp.ConsumerAuthentication.AccessToken
		result.DeviceDataCollectionURL = resp.ConsumerAuthentication.DeviceDataCollectionURL
	}
	return result
}

// flattenEnrollmentResponse maps the nested wire response to the flattened result model.
func flattenEnrollmentResponse(resp *enrollmentResponse) *EnrollmentCheckResult {
	result := &EnrollmentCheckResult{
		ID:     resp.ID,
		Status: resp.Status,
	}
	if resp.ConsumerAuthentication != nil {
		result.VeresEnrolled = resp.ConsumerAuthentication.VeresEnrolled
		result.ChallengeRequired = resp.ConsumerAuthentication.ChallengeRequired
		result.AccessToken = resp.ConsumerAuthentication.AccessToken
		result.StepUpURL = resp.ConsumerAuthentication.StepUpURL
		result.PAReq = resp.ConsumerAuthentication.PAReq
		result.TransactionID = resp.ConsumerAuthentication.TransactionID
	}
	return result
}

// closeBody closes the response body and logs any close failure.
func closeBody(resp *http.Response, logger *log.Logger) {
	if closeErr := resp.Body.Close(); closeErr != nil {
		logger.Error("Failed to close gateway response body", log.Error(closeErr))
	}
}
