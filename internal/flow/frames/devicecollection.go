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

const deviceCollectionLoggerComponentName = "DeviceCollectionController"

// DeviceCollectionController submits device data collection requests into a
// hidden frame. The frame is created lazily on first use and reused after.
type DeviceCollectionController struct {
	bridge  BridgeInterface
	mu      sync.Mutex
	ensured bool
}

// NewDeviceCollectionController creates a controller over the given bridge.
func NewDeviceCollectionController(bridge BridgeInterface) *DeviceCollectionController {
	return &DeviceCollectionController{bridge: bridge}
}

// Collect posts the device collection access token into the hidden frame.
// The submission is fire and forget; the provider signals completion through
// a frame message, not through this call.
func (c *DeviceCollectionController) Collect(collectionURL, accessToken string) error {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, deviceCollectionLoggerComponentName))

	if collectionURL == "" || accessToken == "" {
		return errors.New("device collection URL and access token are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ensured {
		if err := c.bridge.EnsureFrame(DeviceCollectionFrameName, FrameSpec{Hidden: true}); err != nil {
			logger.Error("Failed to create device collection frame", log.Error(err))
			return err
		}
		c.ensured = true
	}

	if err := c.bridge.PostForm(DeviceCollectionFrameName, collectionURL,
		map[string]string{formFieldJWT: accessToken}); err != nil {
		logger.Error("Failed to submit device collection form", log.Error(err))
		return err
	}

	logger.Debug("Device collection submitted", log.String("collectionUrl", collectionURL))
	return nil
}

// Teardown removes the hidden frame. The next Collect recreates it.
func (c *DeviceCollectionController) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bridge.RemoveFrame(DeviceCollectionFrameName)
	c.ensured = false
}
