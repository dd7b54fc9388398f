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
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// recordingBridge records frame operations for assertions.
type recordingBridge struct {
	ensureErr    error
	postErr      error
	ensuredNames []string
	ensuredSpecs []FrameSpec
	posts        []postRecord
	removedNames []string
}

type postRecord struct {
	name      string
	targetURL string
	fields    map[string]string
}

func (b *recordingBridge) EnsureFrame(name string, spec FrameSpec) error {
	if b.ensureErr != nil {
		return b.ensureErr
	}
	b.ensuredNames = append(b.ensuredNames, name)
	b.ensuredSpecs = append(b.ensuredSpecs, spec)
	return nil
}

func (b *recordingBridge) PostForm(name, targetURL string, fields map[string]string) error {
	if b.postErr != nil {
		return b.postErr
	}
	b.posts = append(b.posts, postRecord{name: name, targetURL: targetURL, fields: fields})
	return nil
}

func (b *recordingBridge) RemoveFrame(name string) {
	b.removedNames = append(b.removedNames, name)
}

func pareqWithWindowSize(code string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256"}`))
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"challengeWindowSize":"` + code + `"}`))
	return header + "." + payload + ".signature"
}

type FramesTestSuite struct {
	suite.Suite
	bridge *recordingBridge
}

func TestFramesTestSuite(t *testing.T) {
	suite.Run(t, new(FramesTestSuite))
}

func (suite *FramesTestSuite) SetupTest() {
	suite.bridge = &recordingBridge{}
}

func (suite *FramesTestSuite) TestDeviceCollectionCreatesHiddenFrameOnce() {
	controller := NewDeviceCollectionController(suite.bridge)

	suite.NoError(controller.Collect("https://collect.example.com", "access-token"))
	suite.NoError(controller.Collect("https://collect.example.com", "access-token"))

	suite.Len(suite.bridge.ensuredNames, 1)
	suite.Equal(DeviceCollectionFrameName, suite.bridge.ensuredNames[0])
	suite.True(suite.bridge.ensuredSpecs[0].Hidden)
	suite.Len(suite.bridge.posts, 2)
	suite.Equal("access-token", suite.bridge.posts[0].fields["JWT"])
	suite.Equal("https://collect.example.com", suite.bridge.posts[0].targetURL)
}

func (suite *FramesTestSuite) TestDeviceCollectionRequiresInputs() {
	controller := NewDeviceCollectionController(suite.bridge)

	suite.Error(controller.Collect("", "access-token"))
	suite.Error(controller.Collect("https://collect.example.com", ""))
	suite.Empty(suite.bridge.posts)
}

func (suite *FramesTestSuite) TestDeviceCollectionTeardownRecreatesFrame() {
	controller := NewDeviceCollectionController(suite.bridge)

	suite.NoError(controller.Collect("https://collect.example.com", "access-token"))
	controller.Teardown()
	suite.NoError(controller.Collect("https://collect.example.com", "access-token"))

	suite.Equal([]string{DeviceCollectionFrameName}, suite.bridge.removedNames)
	suite.Len(suite.bridge.ensuredNames, 2)
}

func (suite *FramesTestSuite) TestDeviceCollectionPropagatesBridgeErrors() {
	suite.bridge.ensureErr = errors.New("frame creation rejected")
	controller := NewDeviceCollectionController(suite.bridge)

	suite.Error(controller.Collect("https://collect.example.com", "access-token"))
}

func (suite *FramesTestSuite) TestChallengePostsTokenAndMerchantData() {
	controller := NewChallengeController(suite.bridge)

	suite.NoError(controller.Present("https://stepup.example.com", "step-up-jwt",
		"merchant-data", pareqWithWindowSize("02")))

	suite.Len(suite.bridge.posts, 1)
	post := suite.bridge.posts[0]
	suite.Equal(StepUpFrameName, post.name)
	suite.Equal("step-up-jwt", post.fields["JWT"])
	suite.Equal("merchant-data", post.fields["MD"])
}

func (suite *FramesTestSuite) TestChallengeOmitsEmptyMerchantData() {
	controller := NewChallengeController(suite.bridge)

	suite.NoError(controller.Present("https://stepup.example.com", "step-up-jwt",
		"", pareqWithWindowSize("02")))

	_, hasMD := suite.bridge.posts[0].fields["MD"]
	suite.False(hasMD)
}

func (suite *FramesTestSuite) TestChallengeFrameSizedFromPareq() {
	controller := NewChallengeController(suite.bridge)

	suite.NoError(controller.Present("https://stepup.example.com", "step-up-jwt",
		"md", pareqWithWindowSize("03")))

	suite.Equal(500, suite.bridge.ensuredSpecs[0].Width)
	suite.Equal(600, suite.bridge.ensuredSpecs[0].Height)
	suite.False(suite.bridge.ensuredSpecs[0].FullScreen)
}

func (suite *FramesTestSuite) TestChallengeRequiresInputs() {
	controller := NewChallengeController(suite.bridge)

	suite.Error(controller.Present("", "step-up-jwt", "md", ""))
	suite.Error(controller.Present("https://stepup.example.com", "", "md", ""))
	suite.Empty(suite.bridge.posts)
}

func (suite *FramesTestSuite) TestChallengeWindowSizeDefaults() {
	spec := ChallengeFrameSpec(pareqWithWindowSize("99"))
	suite.Equal(390, spec.Width)
	suite.Equal(400, spec.Height)

	spec = ChallengeFrameSpec("not-a-jwt")
	suite.Equal(390, spec.Width)
	suite.Equal(400, spec.Height)

	spec = ChallengeFrameSpec(pareqWithWindowSize("05"))
	suite.True(spec.FullScreen)
}
