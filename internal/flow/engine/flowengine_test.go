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

package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/motumag/payflow/internal/flow/constants"
	"github.com/motumag/payflow/internal/flow/frames"
	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/microform"
	"github.com/motumag/payflow/internal/session"
	"github.com/motumag/payflow/tests/mocks/framesmock"
	"github.com/motumag/payflow/tests/mocks/gatewaymock"
	"github.com/motumag/payflow/tests/mocks/microformmock"
)

const collectionOrigin = "https://centinelapistag.cardinalcommerce.com"

func validTokenInput() TokenInput {
	return TokenInput{
		CardholderName:  "Jane Doe",
		ExpirationMonth: "12",
		ExpirationYear:  "30",
		Amount:          "30.00",
		Currency:        "USD",
		Billing: session.BillingInfo{
			FirstName: "Jane",
			LastName:  "Doe",
			Address1:  "1 Main St",
			Locality:  "Springfield",
			Country:   "US",
			Email:     "jane@example.com",
		},
	}
}

type EngineTestSuite struct {
	suite.Suite
	store       *session.Store
	gatewayMock *gatewaymock.MockClient
	driver      *microformmock.MockDriver
	bridge      *framesmock.MockBridge
	engine      *Engine
	sessionID   string
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) SetupTest() {
	suite.store = session.NewStore()
	suite.gatewayMock = &gatewaymock.MockClient{}
	suite.driver = &microformmock.MockDriver{}
	suite.bridge = &framesmock.MockBridge{}
	suite.engine = New(suite.store, suite.gatewayMock,
		microform.NewTokenizer(suite.driver), suite.bridge, Options{
			TargetOrigins:           []string{"https://localhost:3000"},
			AllowedCardNetworks:     []string{"VISA", "MASTERCARD"},
			TrustedFrameOrigins:     []string{collectionOrigin},
			ReturnURL:               "https://localhost:3000/payment-callback",
			MerchantData:            "merchant-data-1",
			DeviceCollectionTimeout: 200 * time.Millisecond,
		})

	state := suite.engine.StartSession()
	suite.sessionID = state.SessionID
}

func (suite *EngineTestSuite) advanceToTokenVerified() {
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	_, err = suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())
	suite.Require().NoError(err)
	_, err = suite.engine.VerifyToken(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
}

func (suite *EngineTestSuite) setupAuthWithDeviceCollection() {
	suite.gatewayMock.MockSetupAuthentication = func(ctx context.Context, jti string) (
		*gateway.AuthenticationSetupResult, error) {
		return &gateway.AuthenticationSetupResult{
			ID:                      "auth-setup-1",
			Status:                  "COMPLETED",
			ReferenceID:             "cardinal-ref-1",
			AccessToken:             "device-access-token",
			DeviceDataCollectionURL: "https://collect.example.com",
			ClientReferenceCode:     "ref-code-1",
		}, nil
	}
}

func (suite *EngineTestSuite) TestMountLoadsCaptureContextAndWidget() {
	state, err := suite.engine.Mount(context.Background(), suite.sessionID)

	suite.NoError(err)
	suite.Equal(constants.StepCaptureContext, state.CurrentStep)
	suite.True(state.CaptureContextLoaded())
	suite.True(state.WidgetReady)
	suite.False(state.Loading)
	suite.Len(suite.driver.InitializeCalls, 1)
}

func (suite *EngineTestSuite) TestMountIsIdempotent() {
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	_, err = suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	suite.Equal(1, suite.gatewayMock.GetCaptureContextCalls)
}

func (suite *EngineTestSuite) TestMountFailureRevertsToIdle() {
	suite.gatewayMock.MockGetCaptureContext = func(ctx context.Context, targetOrigins,
		allowedCardNetworks []string) (*gateway.CaptureContext, error) {
		return nil, &gateway.NetworkError{Operation: "getCaptureContext",
			Err: errors.New("connection refused")}
	}

	state, err := suite.engine.Mount(context.Background(), suite.sessionID)

	suite.NoError(err)
	suite.Equal(constants.StepIdle, state.CurrentStep)
	suite.Require().NotNil(state.LastError)
	suite.Equal(constants.ErrorKindNetwork, state.LastError.Kind)
	suite.Equal(constants.StepCaptureContext, state.LastError.Step)
}

func (suite *EngineTestSuite) TestCreateTokenBeforeMount() {
	_, err := suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())

	var precondition *PreconditionError
	suite.ErrorAs(err, &precondition)
}

func (suite *EngineTestSuite) TestCreateTokenRejectsInvalidInput() {
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	input := validTokenInput()
	input.CardholderName = "X"
	state, err := suite.engine.CreateToken(context.Background(), suite.sessionID, input)

	suite.NoError(err)
	suite.Equal(constants.StepIdle, state.CurrentStep)
	suite.True(state.WidgetReady)
	suite.Require().NotNil(state.LastError)
	suite.Equal(constants.ErrorKindValidation, state.LastError.Kind)
	suite.Empty(suite.driver.CreateTokenCalls)
}

func (suite *EngineTestSuite) TestTokenRoundTrip() {
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	state, err := suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())
	suite.Require().NoError(err)
	suite.Equal(constants.StepTokenCreated, state.CurrentStep)
	suite.Equal("header.payload.signature", state.TransientToken)

	suite.Require().Len(suite.driver.CreateTokenCalls, 1)
	suite.Equal("Jane Doe", suite.driver.CreateTokenCalls[0].CardholderName)
	suite.Equal("12", suite.driver.CreateTokenCalls[0].ExpirationMonth)

	_, err = suite.engine.VerifyToken(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	suite.Require().Len(suite.gatewayMock.VerifyTransientTokenCalls, 1)
	suite.Equal(state.TransientToken, suite.gatewayMock.VerifyTransientTokenCalls[0])
}

func (suite *EngineTestSuite) TestTokenizationFailureRevertsToIdle() {
	suite.driver.MockCreateToken = func(options microform.TokenOptions,
		callback func(result any, err error)) {
		callback(nil, errors.New("fields incomplete"))
	}
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	state, err := suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())

	suite.NoError(err)
	suite.Equal(constants.StepIdle, state.CurrentStep)
	suite.True(state.WidgetReady)
	suite.Require().NotNil(state.LastError)
	suite.Equal(constants.ErrorKindWidget, state.LastError.Kind)
}

func (suite *EngineTestSuite) TestVerifyFailureRevertsAndRetrySucceeds() {
	failing := true
	suite.gatewayMock.MockVerifyTransientToken = func(ctx context.Context, token string) (
		*gateway.TokenValidationResult, error) {
		if failing {
			return nil, &gateway.ValidationError{Message: "signature invalid", TraceID: "trace-1"}
		}
		return &gateway.TokenValidationResult{JTI: "jti-1"}, nil
	}
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	_, err = suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())
	suite.Require().NoError(err)

	state, err := suite.engine.VerifyToken(context.Background(), suite.sessionID)
	suite.NoError(err)
	suite.Equal(constants.StepTokenCreated, state.CurrentStep)
	suite.Require().NotNil(state.LastError)
	suite.Equal(constants.ErrorKindValidation, state.LastError.Kind)
	suite.Equal("trace-1", state.LastError.TraceID)

	failing = false
	state, err = suite.engine.VerifyToken(context.Background(), suite.sessionID)
	suite.NoError(err)
	suite.Equal(constants.StepTokenVerified, state.CurrentStep)
	suite.Nil(state.LastError)
}

func (suite *EngineTestSuite) TestVerifyFallsBackToTokenJTIClaim() {
	suite.driver.MockCreateToken = func(options microform.TokenOptions,
		callback func(result any, err error)) {
		// Payload is {"jti":"claim-jti"} base64url encoded.
		callback("eyJhbGciOiJSUzI1NiJ9.eyJqdGkiOiJjbGFpbS1qdGkifQ.signature", nil)
	}
	suite.gatewayMock.MockVerifyTransientToken = func(ctx context.Context, token string) (
		*gateway.TokenValidationResult, error) {
		return &gateway.TokenValidationResult{}, nil
	}
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	_, err = suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())
	suite.Require().NoError(err)

	state, err := suite.engine.VerifyToken(context.Background(), suite.sessionID)

	suite.NoError(err)
	suite.Equal(constants.StepTokenVerified, state.CurrentStep)
	suite.Equal("claim-jti", state.TokenValidation.JTI)
}

func (suite *EngineTestSuite) TestVerifyInFlightGuardIgnoresDuplicate() {
	release := make(chan struct{})
	suite.gatewayMock.MockVerifyTransientToken = func(ctx context.Context, token string) (
		*gateway.TokenValidationResult, error) {
		<-release
		return &gateway.TokenValidationResult{JTI: "jti-1"}, nil
	}
	_, err := suite.engine.Mount(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	_, err = suite.engine.CreateToken(context.Background(), suite.sessionID, validTokenInput())
	suite.Require().NoError(err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = suite.engine.VerifyToken(context.Background(), suite.sessionID)
	}()
	time.Sleep(50 * time.Millisecond)

	_, err = suite.engine.VerifyToken(context.Background(), suite.sessionID)
	suite.NoError(err)

	close(release)
	wg.Wait()

	suite.Len(suite.gatewayMock.VerifyTransientTokenCalls, 1)
}

func (suite *EngineTestSuite) TestSetupAuthenticationWithoutDeviceCollection() {
	suite.advanceToTokenVerified()

	state, err := suite.engine.SetupAuthentication(context.Background(), suite.sessionID)

	// No access token in the setup result finishes the flow outright.
	suite.NoError(err)
	suite.Equal(constants.StepComplete, state.CurrentStep)
	suite.True(state.DeviceCollectionComplete)
	suite.True(state.PaymentSuccess)
	suite.Empty(suite.bridge.PostsTo(frames.DeviceCollectionFrameName))
}

func (suite *EngineTestSuite) TestSetupAuthenticationFallsBackToConfiguredCollectionURL() {
	fallbackEngine := New(suite.store, suite.gatewayMock,
		microform.NewTokenizer(suite.driver), suite.bridge, Options{
			TargetOrigins:       []string{"https://localhost:3000"},
			AllowedCardNetworks: []string{"VISA"},
			TrustedFrameOrigins: []string{collectionOrigin},
			ReturnURL:           "https://localhost:3000/payment-callback",
			DeviceCollectionURL: "https://fallback.example.com/collect",
		})
	sessionID := fallbackEngine.StartSession().SessionID
	suite.gatewayMock.MockSetupAuthentication = func(ctx context.Context, jti string) (
		*gateway.AuthenticationSetupResult, error) {
		return &gateway.AuthenticationSetupResult{
			Status:      "COMPLETED",
			AccessToken: "device-access-token",
		}, nil
	}

	_, err := fallbackEngine.Mount(context.Background(), sessionID)
	suite.Require().NoError(err)
	_, err = fallbackEngine.CreateToken(context.Background(), sessionID, validTokenInput())
	suite.Require().NoError(err)
	_, err = fallbackEngine.VerifyToken(context.Background(), sessionID)
	suite.Require().NoError(err)

	state, err := fallbackEngine.SetupAuthentication(context.Background(), sessionID)

	suite.NoError(err)
	suite.Equal(constants.StepDeviceCollection, state.CurrentStep)
	posts := suite.bridge.PostsTo(frames.DeviceCollectionFrameName)
	suite.Require().Len(posts, 1)
	suite.Equal("https://fallback.example.com/collect", posts[0].TargetURL)
}

func (suite *EngineTestSuite) TestSetupAuthenticationNonCompletedStatus() {
	suite.gatewayMock.MockSetupAuthentication = func(ctx context.Context, jti string) (
		*gateway.AuthenticationSetupResult, error) {
		return &gateway.AuthenticationSetupResult{Status: "FAILED"}, nil
	}
	suite.advanceToTokenVerified()

	state, err := suite.engine.SetupAuthentication(context.Background(), suite.sessionID)

	suite.NoError(err)
	suite.Equal(constants.StepTokenVerified, state.CurrentStep)
	suite.Require().NotNil(state.LastError)
	suite.Equal(constants.ErrorKindBusiness, state.LastError.Kind)
	suite.False(state.AuthenticationSetupComplete())
}

func (suite *EngineTestSuite) TestDeviceCollectionSubmittedAndCompletedByMessage() {
	suite.setupAuthWithDeviceCollection()
	suite.advanceToTokenVerified()

	state, err := suite.engine.SetupAuthentication(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	suite.Equal(constants.StepDeviceCollection, state.CurrentStep)

	posts := suite.bridge.PostsTo(frames.DeviceCollectionFrameName)
	suite.Require().Len(posts, 1)
	suite.Equal("https://collect.example.com", posts[0].TargetURL)
	suite.Equal("device-access-token", posts[0].Fields["JWT"])

	handled := suite.engine.HandleFrameMessage(collectionOrigin,
		map[string]any{"MessageType": "profile.completed"})
	suite.True(handled)

	state, err = suite.engine.Get(suite.sessionID)
	suite.NoError(err)
	suite.Equal(constants.StepDeviceComplete, state.CurrentStep)
	suite.True(state.DeviceCollectionComplete)
}

func (suite *EngineTestSuite) TestDeviceCollectionTimeoutFallback() {
	suite.setupAuthWithDeviceCollection()
	suite.advanceToTokenVerified()

	_, err := suite.engine.SetupAuthentication(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	suite.Eventually(func() bool {
		state, getErr := suite.engine.Get(suite.sessionID)
		return getErr == nil && state.DeviceCollectionComplete
	}, time.Second, 20*time.Millisecond)
}

func (suite *EngineTestSuite) TestFrameMessageFromUntrustedOriginIgnored() {
	suite.setupAuthWithDeviceCollection()
	suite.advanceToTokenVerified()
	_, err := suite.engine.SetupAuthentication(context.Background(), suite.sessionID)
	suite.Require().NoError(err)

	handled := suite.engine.HandleFrameMessage("https://evil.example.com",
		map[string]any{"MessageType": "profile.completed"})

	suite.False(handled)
	state, _ := suite.engine.Get(suite.sessionID)
	suite.False(state.DeviceCollectionComplete)
}

func (suite *EngineTestSuite) advanceToDeviceComplete() {
	suite.setupAuthWithDeviceCollection()
	suite.advanceToTokenVerified()
	_, err := suite.engine.SetupAuthentication(context.Background(), suite.sessionID)
	suite.Require().NoError(err)
	suite.engine.HandleFrameMessage(collectionOrigin,
		map[string]any{"MessageType": "profile.completed"})
}

func (suite *EngineTestSuite) TestCheckEnrollmentFrictionless() {
	suite.advanceToDeviceComplete()

	state, err := suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})

	suite.NoError(err)
	suite.Equal(constants.StepComplete, state.CurrentStep)
	suite.True(state.PaymentSuccess)
	suite.False(state.ProcessingPayment)
	suite.Nil(state.ThreeDSCompletion)

	suite.Require().Len(suite.gatewayMock.CheckEnrollmentCalls, 1)
	request := suite.gatewayMock.CheckEnrollmentCalls[0]
	suite.Equal("cardinal-ref-1", request.ReferenceID)
	suite.Equal("30.00", request.Amount.TotalAmount)
	suite.Equal("04", request.ChallengeCode)
	suite.Equal("BROWSER", request.DeviceChannel)
	suite.Equal("https://localhost:3000/payment-callback", request.ReturnURL)
}

func (suite *EngineTestSuite) TestCheckEnrollmentIsIdempotent() {
	suite.advanceToDeviceComplete()

	_, err := suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})
	suite.Require().NoError(err)
	_, err = suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})
	suite.Require().NoError(err)

	suite.Len(suite.gatewayMock.CheckEnrollmentCalls, 1)
}

func challengeEnrollmentResult() *gateway.EnrollmentCheckResult {
	return &gateway.EnrollmentCheckResult{
		ID:                "enrollment-1",
		Status:            "PENDING_AUTHENTICATION",
		ChallengeRequired: "Y",
		AccessToken:       "step-up-jwt",
		StepUpURL:         "https://stepup.example.com",
		PAReq:             "eyJhbGciOiJIUzI1NiJ9.eyJjaGFsbGVuZ2VXaW5kb3dTaXplIjoiMDIifQ.signature",
		TransactionID:     "txn-1",
	}
}

func (suite *EngineTestSuite) TestCheckEnrollmentPresentsChallenge() {
	suite.gatewayMock.MockCheckEnrollment = func(ctx context.Context,
		request *gateway.EnrollmentRequest) (*gateway.EnrollmentCheckResult, error) {
		return challengeEnrollmentResult(), nil
	}
	suite.advanceToDeviceComplete()

	state, err := suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})

	// The session holds at complete while the challenge is pending.
	suite.NoError(err)
	suite.Equal(constants.StepComplete, state.CurrentStep)
	suite.True(state.ProcessingPayment)
	suite.True(state.ChallengeRequired())
	suite.Nil(state.ThreeDSCompletion)

	posts := suite.bridge.PostsTo(frames.StepUpFrameName)
	suite.Require().Len(posts, 1)
	suite.Equal("https://stepup.example.com", posts[0].TargetURL)
	suite.Equal("step-up-jwt", posts[0].Fields["JWT"])
	suite.Equal("merchant-data-1", posts[0].Fields["MD"])
}

func (suite *EngineTestSuite) TestChallengeCompletedByFrameMessage() {
	suite.gatewayMock.MockCheckEnrollment = func(ctx context.Context,
		request *gateway.EnrollmentRequest) (*gateway.EnrollmentCheckResult, error) {
		return challengeEnrollmentResult(), nil
	}
	suite.advanceToDeviceComplete()
	_, err := suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})
	suite.Require().NoError(err)

	handled := suite.engine.HandleFrameMessage(collectionOrigin,
		map[string]any{"Status": "SUCCESS", "transactionId": "txn-from-message"})
	suite.True(handled)

	state, _ := suite.engine.Get(suite.sessionID)
	suite.Equal(constants.StepThreeDSComplete, state.CurrentStep)
	suite.True(state.PaymentSuccess)
	suite.False(state.ProcessingPayment)
	suite.Require().NotNil(state.ThreeDSCompletion)
	suite.Equal("txn-from-message", state.ThreeDSCompletion.TransactionID)
	suite.Contains(suite.bridge.RemovedFrames, frames.StepUpFrameName)
}

func (suite *EngineTestSuite) TestChallengeCompletedManually() {
	suite.gatewayMock.MockCheckEnrollment = func(ctx context.Context,
		request *gateway.EnrollmentRequest) (*gateway.EnrollmentCheckResult, error) {
		return challengeEnrollmentResult(), nil
	}
	suite.advanceToDeviceComplete()
	_, err := suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})
	suite.Require().NoError(err)

	state, err := suite.engine.CompleteChallenge(suite.sessionID, nil)

	suite.NoError(err)
	suite.Equal(constants.StepThreeDSComplete, state.CurrentStep)
	suite.Require().NotNil(state.ThreeDSCompletion)
	// Transaction ID falls back to the enrollment result.
	suite.Equal("txn-1", state.ThreeDSCompletion.TransactionID)

	// A late frame message must not be consumed again.
	handled := suite.engine.HandleFrameMessage(collectionOrigin,
		map[string]any{"Status": "SUCCESS"})
	suite.False(handled)
}

func (suite *EngineTestSuite) TestCompleteChallengeWithoutPendingChallenge() {
	suite.advanceToDeviceComplete()

	_, err := suite.engine.CompleteChallenge(suite.sessionID, nil)

	var precondition *PreconditionError
	suite.ErrorAs(err, &precondition)
}

func (suite *EngineTestSuite) TestEnrollmentFailureRevertsToDeviceComplete() {
	suite.gatewayMock.MockCheckEnrollment = func(ctx context.Context,
		request *gateway.EnrollmentRequest) (*gateway.EnrollmentCheckResult, error) {
		return nil, &gateway.EnrollmentError{HTTPStatus: 502,
			Message: "enrollment check failed", TraceID: "trace-5"}
	}
	suite.advanceToDeviceComplete()

	state, err := suite.engine.CheckEnrollment(context.Background(), suite.sessionID,
		gateway.DeviceInformation{})

	suite.NoError(err)
	suite.Equal(constants.StepDeviceComplete, state.CurrentStep)
	suite.False(state.ProcessingPayment)
	suite.Require().NotNil(state.LastError)
	suite.Equal(constants.ErrorKindBusiness, state.LastError.Kind)
	suite.Equal("trace-5", state.LastError.TraceID)
	suite.Nil(state.Enrollment)
}

func (suite *EngineTestSuite) TestResetRestoresInitialState() {
	suite.advanceToDeviceComplete()

	state, err := suite.engine.Reset(suite.sessionID)

	suite.NoError(err)
	suite.Equal(constants.StepIdle, state.CurrentStep)
	suite.Empty(state.TransientToken)
	suite.False(state.DeviceCollectionComplete)
	suite.Equal(1, suite.driver.TeardownCalls)
	suite.Contains(suite.bridge.RemovedFrames, frames.DeviceCollectionFrameName)
	suite.Contains(suite.bridge.RemovedFrames, frames.StepUpFrameName)
}

func (suite *EngineTestSuite) TestUnknownSession() {
	_, err := suite.engine.Mount(context.Background(), "no-such-session")
	suite.ErrorIs(err, session.ErrSessionNotFound)

	_, err = suite.engine.Get("no-such-session")
	suite.ErrorIs(err, session.ErrSessionNotFound)
}
