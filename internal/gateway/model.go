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

package gateway

// CaptureContext is the short-lived credential authorizing the browser to
// initialize the hosted tokenization widget for one session.
type CaptureContext struct {
	JWT                    string `json:"jwt"`
	ClientLibraryURL       string `json:"clientLibrary"`
	ClientLibraryIntegrity string `json:"clientLibraryIntegrity"`
}

// CardInfo describes the card detected during token verification.
type CardInfo struct {
	Type  string `json:"type,omitempty"`
	Brand string `json:"brand,omitempty"`
}

// TokenValidationResult is the outcome of verifying a transient token.
// The JTI is the join key into authentication setup.
type TokenValidationResult struct {
	JTI      string    `json:"jti"`
	CardInfo *CardInfo `json:"cardInfo,omitempty"`
}

// AuthenticationSetupResult is the flattened outcome of the authentication setup call.
// AccessToken is present only when device data collection is required.
type AuthenticationSetupResult struct {
	ID                      string `json:"id"`
	Status                  string `json:"status"`
	ReferenceID             string `json:"referenceId"`
	AccessToken             string `json:"accessToken,omitempty"`
	DeviceDataCollectionURL string `json:"deviceDataCollectionUrl,omitempty"`
	ClientReferenceCode     string `json:"clientReferenceCode,omitempty"`
}

// EnrollmentCheckResult is the flattened outcome of the payer authentication enrollment check.
type EnrollmentCheckResult struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	VeresEnrolled     string `json:"veresEnrolled,omitempty"`
	ChallengeRequired string `json:"challengeRequired,omitempty"`
	AccessToken       string `json:"accessToken,omitempty"`
	StepUpURL         string `json:"stepUpUrl,omitempty"`
	PAReq             string `json:"pareq,omitempty"`
	TransactionID     string `json:"authenticationTransactionId,omitempty"`
}

// AmountDetails carries the order amount for the enrollment check.
type AmountDetails struct {
	TotalAmount string `json:"totalAmount"`
	Currency    string `json:"currency"`
}

// BillTo carries the billing address fields for the enrollment check.
type BillTo struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Address1           string `json:"address1"`
	Address2           string `json:"address2,omitempty"`
	Locality           string `json:"locality"`
	AdministrativeArea string `json:"administrativeArea"`
	PostalCode         string `json:"postalCode"`
	Country            string `json:"country"`
	Email              string `json:"email"`
	PhoneNumber        string `json:"phoneNumber,omitempty"`
}

// DeviceInformation carries the browser fingerprint fields for the enrollment check.
type DeviceInformation struct {
	HTTPAcceptBrowserValue       string `json:"httpAcceptBrowserValue,omitempty"`
	UserAgentBrowserValue        string `json:"userAgentBrowserValue,omitempty"`
	IPAddress                    string `json:"ipAddress,omitempty"`
	HTTPBrowserLanguage          string `json:"httpBrowserLanguage,omitempty"`
	HTTPBrowserColorDepth        string `json:"httpBrowserColorDepth,omitempty"`
	HTTPBrowserScreenHeight      string `json:"httpBrowserScreenHeight,omitempty"`
	HTTPBrowserScreenWidth       string `json:"httpBrowserScreenWidth,omitempty"`
	HTTPBrowserTimeDifference    string `json:"httpBrowserTimeDifference,omitempty"`
	HTTPBrowserJavaEnabled       bool   `json:"httpBrowserJavaEnabled"`
	HTTPBrowserJavaScriptEnabled bool   `json:"httpBrowserJavaScriptEnabled"`
}

// EnrollmentRequest assembles the billing, device and token fields for the enrollment check.
type EnrollmentRequest struct {
	ClientReferenceCode string
	Amount              AmountDetails
	BillTo              BillTo
	Device              DeviceInformation
	ChallengeCode       string
	DeviceChannel       string
	ReturnURL           string
	ReferenceID         string
	TransientTokenJWT   string
}

// captureContextRequest is the wire request for the capture context endpoint.
type captureContextRequest struct {
	TargetOrigins       []string `json:"targetOrigins"`
	AllowedCardNetworks []string `json:"allowedCardNetworks"`
	ClientVersion       string   `json:"clientVersion"`
}

// captureContextResponse is the wire response of the capture context endpoint.
type captureContextResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    *CaptureContext `json:"data,omitempty"`
}

// verifyTokenRequest is the wire request for the token verification endpoint.
type verifyTokenRequest struct {
	TransientToken string `json:"transientToken"`
}

// verifyTokenResponse is the wire response of the token verification endpoint.
type verifyTokenResponse struct {
	Data *TokenValidationResult `json:"data,omitempty"`
}

// authSetupRequest is the wire request for the authentication setup endpoint.
type authSetupRequest struct {
	TransientTokenJTI string `json:"transientTokenJti"`
}

// consumerAuthenticationInformation is the nested payer authentication block returned by
// the risk endpoints.
type consumerAuthenticationInformation struct {
	AccessToken             string `json:"accessToken,omitempty"`
	ReferenceID             string `json:"referenceId,omitempty"`
	DeviceDataCollectionURL string `json:"deviceDataCollectionUrl,omitempty"`
	VeresEnrolled           string `json:"veresEnrolled,omitempty"`
	ChallengeRequired       string `json:"challengeRequired,omitempty"`
	StepUpURL               string `json:"stepUpUrl,omitempty"`
	PAReq                   string `json:"pareq,omitempty"`
	TransactionID           string `json:"authenticationTransactionId,omitempty"`
}

// clientReferenceInformation is the nested merchant reference block used by the risk endpoints.
type clientReferenceInformation struct {
	Code string `json:"code,omitempty"`
}

// authSetupResponse is the wire response of the authentication setup endpoint.
type authSetupResponse struct {
	ID                         string                             `json:"id"`
	Status                     string                             `json:"status"`
	ClientReferenceInformation *clientReferenceInformation        `json:"clientReferenceInformation,omitempty"`
	ConsumerAuthentication     *consumerAuthenticationInformation `json:"consumerAuthenticationInformation,omitempty"`
}

// enrollmentResponse is the wire response of the enrollment check endpoint.
type enrollmentResponse struct {
	ID                     string                             `json:"id"`
	Status                 string                             `json:"status"`
	ConsumerAuthentication *consumerAuthenticationInformation `json:"consumerAuthenticationInformation,omitempty"`
}

// enrollmentWireRequest is the wire request for the enrollment check endpoint.
type enrollmentWireRequest struct {
	ClientReferenceInformation clientReferenceInformation       `json:"clientReferenceInformation"`
	OrderInformation           orderInformation                 `json:"orderInformation"`
	DeviceInformation          DeviceInformation                `json:"deviceInformation"`
	ConsumerAuthentication     consumerAuthenticationRequest    `json:"consumerAuthenticationInformation"`
	TokenInformation           tokenInformation                 `json:"tokenInformation"`
}

// orderInformation nests the amount and billing address for the enrollment request.
type orderInformation struct {
	AmountDetails AmountDetails `json:"amountDetails"`
	BillTo        BillTo        `json:"billTo"`
}

// consumerAuthenticationRequest is the nested challenge configuration for the enrollment request.
type consumerAuthenticationRequest struct {
	ChallengeCode string `json:"challengeCode,omitempty"`
	DeviceChannel string `json:"deviceChannel,omitempty"`
	ReturnURL     string `json:"returnUrl,omitempty"`
	ReferenceID   string `json:"referenceId,omitempty"`
}

// tokenInformation carries the transient token for the enrollment request.
type tokenInformation struct {
	TransientTokenJWT string `json:"transientTokenJwt"`
}

// errorResponseBody is the structured error body returned by the backend gateway.
type errorResponseBody struct {
	Message           string            `json:"message,omitempty"`
	TraceID           string            `json:"traceId,omitempty"`
	Path              string            `json:"path,omitempty"`
	CybersourceID     string            `json:"cybersourceId,omitempty"`
	CybersourceStatus string            `json:"cybersourceStatus,omitempty"`
	CybersourceReason string            `json:"cybersourceReason,omitempty"`
	FieldErrors       map[string]string `json:"fieldErrors,omitempty"`
}
