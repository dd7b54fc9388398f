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

// Package frames drives the two authentication frames of the payer
// authentication flow, the hidden device data collection frame and the
// visible step-up challenge frame. Both frames are fed by form POSTs
// carrying provider issued JWTs.
package frames

// Names of the two authentication frames.
const (
	DeviceCollectionFrameName = "device-collection-frame"
	StepUpFrameName           = "step-up-frame"
)

// Form field names posted into the authentication frames.
const (
	formFieldJWT          = "JWT"
	formFieldMerchantData = "MD"
)

// FrameSpec describes how a frame should be presented.
type FrameSpec struct {
	Hidden     bool
	Width      int
	Height     int
	FullScreen bool
}

// BridgeInterface is implemented by the embedding surface that hosts the
// authentication frames. EnsureFrame is idempotent for a given name.
type BridgeInterface interface {
	// EnsureFrame creates the named frame if it does not exist yet.
	EnsureFrame(name string, spec FrameSpec) error

	// PostForm submits a form with the given fields into the named frame,
	// targeted at the given URL.
	PostForm(name, targetURL string, fields map[string]string) error

	// RemoveFrame removes the named frame. Removing an absent frame is a no-op.
	RemoveFrame(name string)
}
