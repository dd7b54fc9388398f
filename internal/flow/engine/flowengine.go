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

// Package engine orchestrates the payment flow state machine. Each operation
// advances the session through its steps, reverts to a designated step on
// failure, and records failures as uniform flow errors in the session.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/motumag/payflow/internal/flow/constants"
	"github.com/motumag/payflow/internal/flow/frames"
	"github.com/motumag/payflow/internal/flow/message"
	"github.com/motumag/payflow/internal/flow/model"
	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/microform"
	"github.com/motumag/payflow/internal/session"
	sysjwt "github.com/motumag/payflow/internal/system/jwt"
	"github.com/motumag/payflow/internal/system/log"
	"github.com/motumag/payflow/internal/system/utils"
)

const engineLoggerComponentName = "PaymentFlowEngine"

// Fixed parameters of the browser based enrollment check.
const (
	enrollmentChallengeCode = "04"
	enrollmentDeviceChannel = "BROWSER"
)

// defaultDeviceCollectionTimeout bounds how long the engine waits for the
// device collection frame to report completion before moving on.
const defaultDeviceCollectionTimeout = 10 * time.Second

// Options carries the deployment level parameters of the engine.
type Options struct {
	TargetOrigins       []string
	AllowedCardNetworks []string
	TrustedFrameOrigins []string
	ReturnURL           string
	MerchantData        string

	// DeviceCollectionURL is the provider's collection endpoint used when the
	// authentication setup response does not name one.
	DeviceCollectionURL     string
	DeviceCollectionTimeout time.Duration
}

// TokenInput carries the non-sensitive form fields submitted for tokenization.
type TokenInput struct {
	CardholderName  string
	ExpirationMonth string
	ExpirationYear  string
	Amount          string
	Currency        string
	Billing         session.BillingInfo
}

// Engine drives payment flow sessions end to end.
type Engine struct {
	store           *session.Store
	gatewayClient   gateway.ClientInterface
	tokenizer       microform.TokenizerInterface
	registry        *message.Registry
	deviceCollector *frames.DeviceCollectionController
	challenge       *frames.ChallengeController
	options         Options

	mu           sync.Mutex
	inflight     map[string]map[constants.Operation]struct{}
	deviceTimers map[string]*time.Timer
}

// New creates a flow engine over the given collaborators.
func New(store *session.Store, gatewayClient gateway.ClientInterface,
	tokenizer microform.TokenizerInterface, bridge frames.BridgeInterface,
	options Options) *Engine {
	if options.DeviceCollectionTimeout <= 0 {
		options.DeviceCollectionTimeout = defaultDeviceCollectionTimeout
	}
	return &Engine{
		store:           store,
		gatewayClient:   gatewayClient,
		tokenizer:       tokenizer,
		registry:        message.NewRegistry(options.TrustedFrameOrigins),
		deviceCollector: frames.NewDeviceCollectionController(bridge),
		challenge:       frames.NewChallengeController(bridge),
		options:         options,
		inflight:        make(map[string]map[constants.Operation]struct{}),
		deviceTimers:    make(map[string]*time.Timer),
	}
}

// StartSession registers a new session and returns its initial state.
func (e *Engine) StartSession() session.SessionState {
	sessionID := utils.GenerateUUID()
	state := e.store.Create(sessionID)

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, engineLoggerComponentName))
	logger.Debug("Session started", log.String(log.LoggerKeySessionID, sessionID))
	return state
}

// Get returns the current session snapshot.
func (e *Engine) Get(sessionID string) (session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	return state, nil
}

// Mount retrieves the capture context and initializes the tokenization widget.
// A session whose widget is already mounted is returned unchanged.
func (e *Engine) Mount(ctx context.Context, sessionID string) (session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	if state.CaptureContextLoaded() && state.WidgetReady {
		return state, nil
	}
	if !e.begin(sessionID, constants.OperationCaptureContext) {
		return state, nil
	}
	defer e.end(sessionID, constants.OperationCaptureContext)

	e.setLoading(sessionID)

	captureContext, err := e.gatewayClient.GetCaptureContext(ctx,
		e.options.TargetOrigins, e.options.AllowedCardNetworks)
	if err != nil {
		return e.fail(sessionID, constants.StepCaptureContext, constants.StepIdle, err)
	}
	if err := e.tokenizer.Initialize(ctx, captureContext); err != nil {
		return e.fail(sessionID, constants.StepCaptureContext, constants.StepIdle, err)
	}

	e.commit(sessionID, func(s *session.SessionState) {
		s.CaptureContext = captureContext
		s.WidgetReady = true
		s.CurrentStep = constants.StepCaptureContext
	})
	return e.snapshot(sessionID)
}

// CreateToken validates the form input and tokenizes the card data held by
// the widget.
func (e *Engine) CreateToken(ctx context.Context, sessionID string, input TokenInput) (
	session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	if !state.CaptureContextLoaded() || !state.WidgetReady {
		return state, &PreconditionError{
			Operation: constants.OperationCreateToken,
			Message:   "widget is not mounted",
		}
	}
	if err := validateTokenInput(input); err != nil {
		return e.fail(sessionID, constants.StepTokenCreation, constants.StepIdle,
			&gateway.ValidationError{Message: err.Error()})
	}
	if !e.begin(sessionID, constants.OperationCreateToken) {
		return state, nil
	}
	defer e.end(sessionID, constants.OperationCreateToken)

	cardholderName := utils.SanitizeString(input.CardholderName)
	e.commit(sessionID, func(s *session.SessionState) {
		s.CardholderName = cardholderName
		s.ExpirationMonth = input.ExpirationMonth
		s.ExpirationYear = input.ExpirationYear
		s.Amount = input.Amount
		s.Currency = input.Currency
		s.Billing = input.Billing
		s.CurrentStep = constants.StepTokenCreation
		s.Loading = true
		s.LastError = nil
	})

	token, err := e.tokenizer.CreateToken(ctx, microform.TokenOptions{
		CardholderName:  cardholderName,
		ExpirationMonth: input.ExpirationMonth,
		ExpirationYear:  input.ExpirationYear,
	})
	if err != nil {
		return e.fail(sessionID, constants.StepTokenCreation, constants.StepIdle, err)
	}

	e.commit(sessionID, func(s *session.SessionState) {
		s.TransientToken = token
		s.CurrentStep = constants.StepTokenCreated
	})
	return e.snapshot(sessionID)
}

// VerifyToken verifies the transient token with the backend gateway.
func (e *Engine) VerifyToken(ctx context.Context, sessionID string) (session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	if !state.TransientTokenCreated() {
		return state, &PreconditionError{
			Operation: constants.OperationVerifyToken,
			Message:   "no transient token has been created",
		}
	}
	if !e.begin(sessionID, constants.OperationVerifyToken) {
		return state, nil
	}
	defer e.end(sessionID, constants.OperationVerifyToken)

	e.commit(sessionID, func(s *session.SessionState) {
		s.CurrentStep = constants.StepTokenValidation
		s.Loading = true
		s.LastError = nil
	})

	result, err := e.gatewayClient.VerifyTransientToken(ctx, state.TransientToken)
	if err != nil {
		return e.fail(sessionID, constants.StepTokenValidation, constants.StepTokenCreated, err)
	}
	if result.JTI == "" {
		// Some gateway deployments omit the jti from the verification
		// response; fall back to the claim inside the token itself.
		if claims, claimsErr := sysjwt.ParseClaims(state.TransientToken); claimsErr == nil {
			result.JTI = sysjwt.GetStringClaim(claims, "jti")
		}
	}
	if result.JTI == "" {
		return e.fail(sessionID, constants.StepTokenValidation, constants.StepTokenCreated,
			&gateway.ValidationError{Message: "verified token carries no jti"})
	}

	e.commit(sessionID, func(s *session.SessionState) {
		s.TokenValidation = result
		s.CurrentStep = constants.StepTokenVerified
	})
	return e.snapshot(sessionID)
}

// SetupAuthentication runs payer authentication setup and, when required,
// kicks off device data collection. Device collection is fire and forget; its
// completion arrives later as a frame message or through the timeout fallback.
func (e *Engine) SetupAuthentication(ctx context.Context, sessionID string) (
	session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	if !state.TokenValidated() {
		return state, &PreconditionError{
			Operation: constants.OperationSetupAuthentication,
			Message:   "transient token has not been verified",
		}
	}
	if !e.begin(sessionID, constants.OperationSetupAuthentication) {
		return state, nil
	}
	defer e.end(sessionID, constants.OperationSetupAuthentication)

	e.commit(sessionID, func(s *session.SessionState) {
		s.CurrentStep = constants.StepAuthSetup
		s.Loading = true
		s.LastError = nil
	})

	result, err := e.gatewayClient.SetupAuthentication(ctx, state.TokenValidation.JTI)
	if err != nil {
		return e.fail(sessionID, constants.StepAuthSetup, constants.StepTokenVerified, err)
	}
	if result.Status != constants.AuthSetupStatusCompleted {
		return e.fail(sessionID, constants.StepAuthSetup, constants.StepTokenVerified,
			&gateway.AuthSetupError{Status: result.Status})
	}

	collectionURL := result.DeviceDataCollectionURL
	if collectionURL == "" {
		collectionURL = e.options.DeviceCollectionURL
	}

	if result.AccessToken == "" || collectionURL == "" {
		// No device collection required for this card; the flow finishes here.
		e.commit(sessionID, func(s *session.SessionState) {
			s.AuthenticationSetup = result
			s.DeviceCollectionComplete = true
			s.CurrentStep = constants.StepComplete
			s.PaymentSuccess = true
		})
		return e.snapshot(sessionID)
	}

	unsubscribe := e.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		e.cancelDeviceTimer(sessionID)
		e.markDeviceComplete(sessionID)
	})
	if err := e.deviceCollector.Collect(collectionURL, result.AccessToken); err != nil {
		unsubscribe()
		return e.fail(sessionID, constants.StepDeviceCollection, constants.StepTokenVerified, err)
	}
	e.armDeviceTimer(sessionID, unsubscribe)

	e.commit(sessionID, func(s *session.SessionState) {
		s.AuthenticationSetup = result
		s.CurrentStep = constants.StepDeviceCollection
	})
	return e.snapshot(sessionID)
}

// CheckEnrollment runs the payer authentication enrollment check. A session
// that already holds an enrollment result is returned unchanged.
func (e *Engine) CheckEnrollment(ctx context.Context, sessionID string,
	device gateway.DeviceInformation) (session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	if state.EnrollmentCheckComplete() {
		return state, nil
	}
	if !state.DeviceCollectionComplete || !state.AuthenticationSetupComplete() {
		return state, &PreconditionError{
			Operation: constants.OperationCheckEnrollment,
			Message:   "device data collection has not completed",
		}
	}
	if !e.begin(sessionID, constants.OperationCheckEnrollment) {
		return state, nil
	}
	defer e.end(sessionID, constants.OperationCheckEnrollment)

	// Re-read under the guard so a completion that raced the first read
	// still short-circuits.
	state, _ = e.store.Get(sessionID)
	if state.EnrollmentCheckComplete() {
		return state, nil
	}

	e.commit(sessionID, func(s *session.SessionState) {
		s.CurrentStep = constants.StepEnrollmentCheck
		s.Loading = true
		s.ProcessingPayment = true
		s.LastError = nil
	})

	result, err := e.gatewayClient.CheckEnrollment(ctx, &gateway.EnrollmentRequest{
		ClientReferenceCode: state.AuthenticationSetup.ClientReferenceCode,
		Amount:              gateway.AmountDetails{TotalAmount: state.Amount, Currency: state.Currency},
		BillTo:              billingToBillTo(state.Billing),
		Device:              device,
		ChallengeCode:       enrollmentChallengeCode,
		DeviceChannel:       enrollmentDeviceChannel,
		ReturnURL:           e.options.ReturnURL,
		ReferenceID:         state.AuthenticationSetup.ReferenceID,
		TransientTokenJWT:   state.TransientToken,
	})
	if err != nil {
		return e.fail(sessionID, constants.StepEnrollmentCheck, constants.StepDeviceComplete, err)
	}

	if !challengeMandated(result) {
		e.commit(sessionID, func(s *session.SessionState) {
			s.Enrollment = result
			s.CurrentStep = constants.StepComplete
			s.ProcessingPayment = false
			s.PaymentSuccess = true
		})
		return e.snapshot(sessionID)
	}

	unsubscribe := e.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		e.finishChallenge(sessionID, completion)
	})
	if err := e.challenge.Present(result.StepUpURL, result.AccessToken,
		e.options.MerchantData, result.PAReq); err != nil {
		unsubscribe()
		return e.fail(sessionID, constants.StepEnrollmentCheck, constants.StepDeviceComplete, err)
	}

	// The session reads as complete while the challenge is pending; the
	// completion trigger distinguishes it through ChallengeRequired and the
	// absence of a recorded completion.
	e.commit(sessionID, func(s *session.SessionState) {
		s.Enrollment = result
		s.CurrentStep = constants.StepComplete
		s.ProcessingPayment = true
	})
	return e.snapshot(sessionID)
}

// CompleteChallenge records a challenge completion through the manual
// fallback, for providers whose frames never post a recognizable message.
func (e *Engine) CompleteChallenge(sessionID string, payload map[string]any) (
	session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	if !state.ChallengeRequired() || state.ThreeDSCompletion != nil {
		return state, &PreconditionError{
			Operation: constants.OperationCheckEnrollment,
			Message:   "no challenge is pending completion",
		}
	}

	transactionID := ""
	if payload != nil {
		if id, isString := payload["transactionId"].(string); isString {
			transactionID = id
		}
	}
	e.registry.Teardown()
	e.finishChallenge(sessionID, model.ThreeDSCompletionData{
		TransactionID: transactionID,
		Raw:           payload,
		Source:        model.CompletionSourceManual,
		ReceivedAt:    time.Now(),
	})
	return e.snapshot(sessionID)
}

// HandleFrameMessage routes one frame message into the completion registry.
func (e *Engine) HandleFrameMessage(origin string, data any) bool {
	return e.registry.Dispatch(origin, data)
}

// Reset tears down the widget and frames and restores the session to its
// initial state.
func (e *Engine) Reset(sessionID string) (session.SessionState, error) {
	e.cancelDeviceTimer(sessionID)
	e.registry.Teardown()
	e.deviceCollector.Teardown()
	e.challenge.Teardown()
	e.tokenizer.Teardown()

	if err := e.store.Reset(sessionID); err != nil {
		return session.SessionState{}, err
	}
	return e.snapshot(sessionID)
}

// finishChallenge records the challenge completion and tears the frame down.
func (e *Engine) finishChallenge(sessionID string, completion model.ThreeDSCompletionData) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, engineLoggerComponentName))

	_ = e.store.Set(sessionID, func(s *session.SessionState) {
		if completion.TransactionID == "" && s.Enrollment != nil {
			completion.TransactionID = s.Enrollment.TransactionID
		}
		s.ThreeDSCompletion = &completion
		s.CurrentStep = constants.StepThreeDSComplete
		s.Loading = false
		s.ProcessingPayment = false
		s.PaymentSuccess = true
	})
	e.challenge.Teardown()

	logger.Debug("Challenge completed",
		log.String(log.LoggerKeySessionID, sessionID),
		log.String("source", string(completion.Source)))
}

// markDeviceComplete records that device data collection finished.
func (e *Engine) markDeviceComplete(sessionID string) {
	_ = e.store.Set(sessionID, func(s *session.SessionState) {
		s.DeviceCollectionComplete = true
		s.CurrentStep = constants.StepDeviceComplete
		s.Loading = false
	})
}

func (e *Engine) armDeviceTimer(sessionID string, unsubscribe func()) {
	timer := time.AfterFunc(e.options.DeviceCollectionTimeout, func() {
		unsubscribe()
		e.markDeviceComplete(sessionID)

		logger := log.GetLogger().With(
			log.String(log.LoggerKeyComponentName, engineLoggerComponentName))
		logger.Warn("Device collection timed out, continuing without completion signal",
			log.String(log.LoggerKeySessionID, sessionID))
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.deviceTimers[sessionID]; ok {
		existing.Stop()
	}
	e.deviceTimers[sessionID] = timer
}

func (e *Engine) cancelDeviceTimer(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timer, ok := e.deviceTimers[sessionID]; ok {
		timer.Stop()
		delete(e.deviceTimers, sessionID)
	}
}

// begin marks the operation as in flight for the session. A second dispatch
// of an in-flight operation is ignored by the caller.
func (e *Engine) begin(sessionID string, operation constants.Operation) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inflight[sessionID] == nil {
		e.inflight[sessionID] = make(map[constants.Operation]struct{})
	}
	if _, exists := e.inflight[sessionID][operation]; exists {
		return false
	}
	e.inflight[sessionID][operation] = struct{}{}
	return true
}

func (e *Engine) end(sessionID string, operation constants.Operation) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight[sessionID], operation)
}

// fail records the failure in the session and reverts to the given step.
func (e *Engine) fail(sessionID string, failedStep, revertStep constants.FlowStep, err error) (
	session.SessionState, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, engineLoggerComponentName))

	flowErr := convertFlowError(failedStep, err)
	logger.Error("Flow operation failed",
		log.String(log.LoggerKeySessionID, sessionID),
		log.String(log.LoggerKeyFlowStep, string(failedStep)),
		log.String("kind", string(flowErr.Kind)),
		log.Error(err))

	_ = e.store.Set(sessionID, func(s *session.SessionState) {
		s.LastError = flowErr
		s.CurrentStep = revertStep
		s.Loading = false
		s.ProcessingPayment = false
	})
	return e.snapshot(sessionID)
}

func (e *Engine) setLoading(sessionID string) {
	_ = e.store.Set(sessionID, func(s *session.SessionState) {
		s.Loading = true
		s.LastError = nil
	})
}

func (e *Engine) commit(sessionID string, mutate func(s *session.SessionState)) {
	_ = e.store.Set(sessionID, func(s *session.SessionState) {
		mutate(s)
		s.Loading = false
	})
}

func (e *Engine) snapshot(sessionID string) (session.SessionState, error) {
	state, ok := e.store.Get(sessionID)
	if !ok {
		return session.SessionState{}, session.ErrSessionNotFound
	}
	return state, nil
}

// validateTokenInput checks the tokenization form fields.
func validateTokenInput(input TokenInput) error {
	if err := ValidateCardholderName(input.CardholderName); err != nil {
		return err
	}
	if err := ValidateExpiration(input.ExpirationMonth, input.ExpirationYear, time.Now()); err != nil {
		return err
	}
	return ValidateAmount(input.Amount)
}

// challengeMandated mirrors the session selector for a result that has not
// been stored yet.
func challengeMandated(result *gateway.EnrollmentCheckResult) bool {
	return result.Status == constants.EnrollmentStatusPendingAuthentication &&
		result.ChallengeRequired == constants.ChallengeRequiredYes &&
		result.StepUpURL != "" && result.AccessToken != ""
}

// billingToBillTo maps the session billing fields onto the gateway request shape.
func billingToBillTo(billing session.BillingInfo) gateway.BillTo {
	return gateway.BillTo{
		FirstName:          billing.FirstName,
		LastName:           billing.LastName,
		Address1:           billing.Address1,
		Address2:           billing.Address2,
		Locality:           billing.Locality,
		AdministrativeArea: billing.AdministrativeArea,
		PostalCode:         billing.PostalCode,
		Country:            billing.Country,
		Email:              billing.Email,
		PhoneNumber:        billing.PhoneNumber,
	}
}
