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

package microform

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/motumag/payflow/internal/gateway"
)

// fakeDriver is a minimal in-package driver for tokenizer tests.
type fakeDriver struct {
	initErr     error
	ready       bool
	createToken func(options TokenOptions, callback func(result any, err error))
	tornDown    bool
}

func (d *fakeDriver) Initialize(ctx context.Context, captureContext *gateway.CaptureContext) error {
	return d.initErr
}

func (d *fakeDriver) Ready() bool {
	return d.ready
}

func (d *fakeDriver) CreateToken(options TokenOptions, callback func(result any, err error)) {
	d.createToken(options, callback)
}

func (d *fakeDriver) Teardown() {
	d.tornDown = true
}

type TokenizerTestSuite struct {
	suite.Suite
}

func TestTokenizerTestSuite(t *testing.T) {
	suite.Run(t, new(TokenizerTestSuite))
}

func (suite *TokenizerTestSuite) TestInitializeMissingCaptureContext() {
	tok := NewTokenizer(&fakeDriver{})

	err := tok.Initialize(context.Background(), nil)

	var loadErr *WidgetLoadError
	suite.ErrorAs(err, &loadErr)
}

func (suite *TokenizerTestSuite) TestInitializeDriverFailure() {
	driver := &fakeDriver{initErr: errors.New("integrity mismatch")}
	tok := NewTokenizer(driver)

	err := tok.Initialize(context.Background(), &gateway.CaptureContext{JWT: "jwt"})

	var loadErr *WidgetLoadError
	suite.ErrorAs(err, &loadErr)
	suite.ErrorContains(err, "integrity mismatch")
}

func (suite *TokenizerTestSuite) TestCreateTokenNotReady() {
	tok := NewTokenizer(&fakeDriver{ready: false})

	_, err := tok.CreateToken(context.Background(), TokenOptions{})

	var tokenErr *TokenizationError
	suite.ErrorAs(err, &tokenErr)
}

func (suite *TokenizerTestSuite) TestCreateTokenBareString() {
	driver := &fakeDriver{
		ready: true,
		createToken: func(options TokenOptions, callback func(result any, err error)) {
			callback("header.payload.signature", nil)
		},
	}
	tok := NewTokenizer(driver)

	token, err := tok.CreateToken(context.Background(), TokenOptions{
		ExpirationMonth: "01", ExpirationYear: "2025",
	})

	suite.NoError(err)
	suite.Equal("header.payload.signature", token)
}

func (suite *TokenizerTestSuite) TestCreateTokenWidgetFailure() {
	driver := &fakeDriver{
		ready: true,
		createToken: func(options TokenOptions, callback func(result any, err error)) {
			callback(nil, errors.New("card number invalid"))
		},
	}
	tok := NewTokenizer(driver)

	_, err := tok.CreateToken(context.Background(), TokenOptions{})

	var tokenErr *TokenizationError
	suite.ErrorAs(err, &tokenErr)
	suite.ErrorContains(err, "card number invalid")
}

func (suite *TokenizerTestSuite) TestCreateTokenOnlyFirstCallbackSettles() {
	driver := &fakeDriver{
		ready: true,
		createToken: func(options TokenOptions, callback func(result any, err error)) {
			callback("first.token.value", nil)
			callback("second.token.value", nil)
			callback(nil, errors.New("late failure"))
		},
	}
	tok := NewTokenizer(driver)

	token, err := tok.CreateToken(context.Background(), TokenOptions{})

	suite.NoError(err)
	suite.Equal("first.token.value", token)
}

func (suite *TokenizerTestSuite) TestCreateTokenContextCanceled() {
	driver := &fakeDriver{
		ready:       true,
		createToken: func(options TokenOptions, callback func(result any, err error)) {},
	}
	tok := NewTokenizer(driver)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tok.CreateToken(ctx, TokenOptions{})

	var tokenErr *TokenizationError
	suite.ErrorAs(err, &tokenErr)
	suite.ErrorContains(err, "canceled")
}

func (suite *TokenizerTestSuite) TestNormalizeTokenShapes() {
	token, err := NormalizeToken("bare.token.string")
	suite.NoError(err)
	suite.Equal("bare.token.string", token)

	token, err = NormalizeToken(map[string]any{"token": "from.token.field", "id": "ignored"})
	suite.NoError(err)
	suite.Equal("from.token.field", token)

	token, err = NormalizeToken(map[string]any{"id": "from.id.field"})
	suite.NoError(err)
	suite.Equal("from.id.field", token)
}

func (suite *TokenizerTestSuite) TestNormalizeTokenRejectsUnknownShapes() {
	var tokenErr *TokenizationError

	_, err := NormalizeToken("")
	suite.ErrorAs(err, &tokenErr)

	_, err = NormalizeToken(map[string]any{"foo": "bar"})
	suite.ErrorAs(err, &tokenErr)

	_, err = NormalizeToken(42)
	suite.ErrorAs(err, &tokenErr)

	_, err = NormalizeToken(nil)
	suite.ErrorAs(err, &tokenErr)
}
