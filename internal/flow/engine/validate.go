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
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	cardholderNameMinLength = 2
	cardholderNameMaxLength = 50
)

// cardholderNamePattern accepts letters, spaces, hyphens and apostrophes.
var cardholderNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} '\-]*$`)

// amountPattern accepts a positive decimal amount with up to two fraction digits.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidateCardholderName checks the cardholder name against the accepted
// character set and length bounds.
func ValidateCardholderName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < cardholderNameMinLength {
		return errors.New("cardholder name must be at least 2 characters")
	}
	if len(trimmed) > cardholderNameMaxLength {
		return errors.New("cardholder name must be at most 50 characters")
	}
	if !cardholderNamePattern.MatchString(trimmed) {
		return errors.New("cardholder name may only contain letters, spaces, hyphens and apostrophes")
	}
	return nil
}

// ValidateExpiration checks that the expiration month is within 01 to 12 and
// that the card has not expired relative to now. The year is accepted as two
// or four digits.
func ValidateExpiration(month, year string, now time.Time) error {
	monthValue, err := strconv.Atoi(month)
	if err != nil || monthValue < 1 || monthValue > 12 {
		return errors.New("expiration month must be between 01 and 12")
	}

	yearValue, err := strconv.Atoi(year)
	if err != nil || yearValue < 0 {
		return errors.New("expiration year is not a valid number")
	}
	switch len(year) {
	case 2:
		yearValue += 2000
	case 4:
	default:
		return errors.New("expiration year must have two or four digits")
	}

	if yearValue < now.Year() || (yearValue == now.Year() && monthValue < int(now.Month())) {
		return errors.New("card expiration date is in the past")
	}
	return nil
}

// ValidateAmount checks that the amount is a positive decimal value.
func ValidateAmount(amount string) error {
	if !amountPattern.MatchString(amount) {
		return errors.New("amount must be a positive decimal number")
	}
	return nil
}
