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
	"github.com/motumag/payflow/internal/system/jwt"
)

// challengeWindowSizeClaim is the pareq JWT claim naming the requested
// challenge window size code.
const challengeWindowSizeClaim = "challengeWindowSize"

// defaultChallengeWindowSize is applied when the pareq carries no usable code.
const defaultChallengeWindowSize = "02"

// challengeWindowSizes maps the EMV 3DS window size codes to pixel dimensions.
// Code 05 requests a full screen challenge.
var challengeWindowSizes = map[string]FrameSpec{
	"01": {Width: 250, Height: 400},
	"02": {Width: 390, Height: 400},
	"03": {Width: 500, Height: 600},
	"04": {Width: 600, Height: 400},
	"05": {FullScreen: true},
}

// ChallengeFrameSpec derives the challenge frame presentation from the pareq
// JWT. An unparseable pareq or an unknown code falls back to the default size.
func ChallengeFrameSpec(pareq string) FrameSpec {
	spec := challengeWindowSizes[defaultChallengeWindowSize]

	claims, err := jwt.ParseClaims(pareq)
	if err != nil {
		return spec
	}
	code := jwt.GetStringClaim(claims, challengeWindowSizeClaim)
	if sized, ok := challengeWindowSizes[code]; ok {
		return sized
	}
	return spec
}
