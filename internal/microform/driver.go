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

// Package microform integrates the hosted card tokenization widget. Card data
// stays inside the widget's secure fields; this package only ever handles the
// capture context going in and the transient token coming out.
package microform

import (
	"context"

	"github.com/motumag/payflow/internal/gateway"
)

// TokenOptions carries the non-sensitive fields passed to tokenization.
// The card number and security code never pass through here.
type TokenOptions struct {
	CardholderName  string
	ExpirationMonth string
	ExpirationYear  string
}

// DriverInterface is implemented by hosted widget integrations. The widget's
// client library is callback driven; CreateToken reports its outcome through
// the given callback, possibly from another goroutine.
type DriverInterface interface {
	// Initialize loads the widget client library referenced by the capture
	// context, enforcing its integrity metadata, and mounts the secure fields.
	Initialize(ctx context.Context, captureContext *gateway.CaptureContext) error

	// Ready reports whether the secure fields are mounted and usable.
	Ready() bool

	// CreateToken asks the widget to tokenize the card data it holds.
	// Exactly one of result and err is meaningful per invocation.
	CreateToken(options TokenOptions, callback func(result any, err error))

	// Teardown unmounts the secure fields and releases the client library.
	Teardown()
}
