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

package message

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/motumag/payflow/internal/flow/model"
)

const trustedOrigin = "https://centinelapistag.cardinalcommerce.com"

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry([]string{trustedOrigin})
}

func (suite *RegistryTestSuite) TestDispatchNotifiesListener() {
	var received *model.ThreeDSCompletionData
	suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		received = &completion
	})

	handled := suite.registry.Dispatch(trustedOrigin, map[string]any{
		"Status":        "SUCCESS",
		"transactionId": "txn-1",
	})

	suite.True(handled)
	suite.NotNil(received)
	suite.Equal("txn-1", received.TransactionID)
	suite.Equal(model.CompletionSourceMessage, received.Source)
	suite.False(received.ReceivedAt.IsZero())
}

func (suite *RegistryTestSuite) TestDispatchDropsUntrustedOrigin() {
	notified := false
	suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		notified = true
	})

	handled := suite.registry.Dispatch("https://evil.example.com", map[string]any{
		"Status": "SUCCESS",
	})

	suite.False(handled)
	suite.False(notified)
	suite.Equal(1, suite.registry.ListenerCount())
}

func (suite *RegistryTestSuite) TestDispatchIgnoresNonCompletion() {
	notified := false
	suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		notified = true
	})

	handled := suite.registry.Dispatch(trustedOrigin, map[string]any{"Status": "FAILURE"})

	suite.False(handled)
	suite.False(notified)
	suite.Equal(1, suite.registry.ListenerCount())
}

func (suite *RegistryTestSuite) TestListenersAreSingleUse() {
	notifications := 0
	suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		notifications++
	})

	suite.True(suite.registry.Dispatch(trustedOrigin, map[string]any{"Status": "SUCCESS"}))
	suite.False(suite.registry.Dispatch(trustedOrigin, map[string]any{"Status": "SUCCESS"}))

	suite.Equal(1, notifications)
	suite.Equal(0, suite.registry.ListenerCount())
}

func (suite *RegistryTestSuite) TestRemoveListenerIsIdempotent() {
	remove := suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {})

	remove()
	remove()

	suite.Equal(0, suite.registry.ListenerCount())
	suite.False(suite.registry.Dispatch(trustedOrigin, map[string]any{"Status": "SUCCESS"}))
}

func (suite *RegistryTestSuite) TestTeardownRemovesAllListeners() {
	suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		suite.Fail("listener invoked after teardown")
	})
	suite.registry.AddListener(func(completion model.ThreeDSCompletionData) {
		suite.Fail("listener invoked after teardown")
	})

	suite.registry.Teardown()

	suite.Equal(0, suite.registry.ListenerCount())
	suite.registry.Dispatch(trustedOrigin, map[string]any{"Status": "SUCCESS"})
}
