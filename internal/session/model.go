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

// Package session holds the per-session payment flow state and its observable store.
package session

import (
	"time"

	"github.com/motumag/payflow/internal/flow/constants"
	"github.com/motumag/payflow/internal/flow/model"
	"github.com/motumag/payflow/internal/gateway"
)

// Default form values applied to a newly created session.
const (
	DefaultExpirationMonth = "01"
	DefaultExpirationYear  = "25"
	DefaultAmount          = "30.00"
	DefaultCurrency        = "USD"
)

// BillingInfo holds the billing address captured from the payment form.
type BillingInfo struct {
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

// SessionState is the complete state of one payment flow session. All fields
// advance monotonically through the flow until Reset; pointer fields hold
// results that are replaced whole, never mutated in place.
type SessionState struct {
	SessionID   string
	CurrentStep constants.FlowStep

	CardholderName  string
	ExpirationMonth string
	ExpirationYear  string
	Amount          string
	Currency        string
	Billing         BillingInfo

	CaptureContext *gateway.CaptureContext
	WidgetReady    bool

	TransientToken      string
	TokenValidation     *gateway.TokenValidationResult
	AuthenticationSetup *gateway.AuthenticationSetupResult

	DeviceCollectionComplete bool
	Enrollment               *gateway.EnrollmentCheckResult
	ThreeDSCompletion        *model.ThreeDSCompletionData

	Loading           bool
	ProcessingPayment bool
	PaymentSuccess    bool
	LastError         *model.FlowError

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSessionState returns the initial state for a new session.
func NewSessionState(sessionID string) *SessionState {
	now := time.Now()
	return &SessionState{
		SessionID:       sessionID,
		CurrentStep:     constants.StepIdle,
		ExpirationMonth: DefaultExpirationMonth,
		ExpirationYear:  DefaultExpirationYear,
		Amount:          DefaultAmount,
		Currency:        DefaultCurrency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
