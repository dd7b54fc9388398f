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

package frames

import (
	"errors"
	"sync"

	"github.com/motumag/payflow/internal/system/log"
)

const challengeLoggerComponentName = "ChallengeController"

// ChallengeController presents the step-up challenge in a visible frame sized
// from the pareq window size code.
type ChallengeController struct {
	bridge  BridgeInterface
	mu      sync.Mutex
	ensured bool
}

// NewChallengeController creates a controller over the given bridge.
func NewChallengeController(bridge BridgeInterface) *ChallengeController {
	return &ChallengeController{bridge: bridge}
}

// Present posts the step-up access token and merchant data into the challenge
// frame. The challenge outcome arrives later as a frame message or through the
// manual completion fallback.
func (c *ChallengeController) Present(stepUpURL, accessToken, merchantData, pareq string) error {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, challengeLoggerComponentName))

	if stepUpURL == "" || accessToken == "" {
		return errors.New("step-up URL and access token are required")
	}

	spec := ChallengeFrameSpec(pareq)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ensured {
		if err := c.bridge.EnsureFrame(StepUpFrameName, spec); err != nil {
			logger.Error("Failed to create challenge frame", log.Error(err))
			return err
		}
		c.ensured = true
	}

	fields := map[string]string{formFieldJWT: accessToken}
	if merchantData != "" {
		fields[formFieldMerchantData] = merchantData
	}
	if err := c.bridge.PostForm(StepUpFrameName, stepUpURL, fields); err != nil {
		logger.Error("Failed to submit challenge form", log.Error(err))
		return err
	}

	logger.Debug("Challenge presented", log.String("stepUpUrl", stepUpURL),
		log.Int("width", spec.Width), log.Int("height", spec.Height),
		log.Bool("fullScreen", spec.FullScreen))
	return nil
}

// Teardown removes the challenge frame. The next Present recreates it.
func (c *ChallengeController) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bridge.RemoveFrame(StepUpFrameName)
	c.ensured = false
}
