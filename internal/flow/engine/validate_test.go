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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ValidateTestSuite struct {
	suite.Suite
}

func TestValidateTestSuite(t *testing.T) {
	suite.Run(t, new(ValidateTestSuite))
}

func (suite *ValidateTestSuite) TestCardholderNameAccepted() {
	for _, name := range []string{
		"Jane Doe",
		"Jean-Luc Picard",
		"O'Brien",
		"Ana",
	} {
		suite.NoError(ValidateCardholderName(name), "expected %q to be accepted", name)
	}
}

func (suite *ValidateTestSuite) TestCardholderNameRejected() {
	for _, name := range []string{
		"",
		"X",
		"Jane123",
		"Jane_Doe",
		strings.Repeat("a", 51),
	} {
		suite.Error(ValidateCardholderName(name), "expected %q to be rejected", name)
	}
}

func (suite *ValidateTestSuite) TestExpirationAccepted() {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	suite.NoError(ValidateExpiration("03", "26", now))
	suite.NoError(ValidateExpiration("12", "2030", now))
	suite.NoError(ValidateExpiration("1", "27", now))
}

func (suite *ValidateTestSuite) TestExpirationRejected() {
	now := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	suite.Error(ValidateExpiration("00", "30", now))
	suite.Error(ValidateExpiration("13", "30", now))
	suite.Error(ValidateExpiration("xx", "30", now))
	suite.Error(ValidateExpiration("02", "26", now))
	suite.Error(ValidateExpiration("12", "25", now))
	suite.Error(ValidateExpiration("12", "026", now))
}

func (suite *ValidateTestSuite) TestAmount() {
	suite.NoError(ValidateAmount("30.00"))
	suite.NoError(ValidateAmount("5"))
	suite.NoError(ValidateAmount("0.99"))

	suite.Error(ValidateAmount(""))
	suite.Error(ValidateAmount("-5"))
	suite.Error(ValidateAmount("5.123"))
	suite.Error(ValidateAmount("abc"))
}
