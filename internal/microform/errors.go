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

// WidgetLoadError indicates that the hosted widget client library could not be
// loaded or initialized with the capture context.
type WidgetLoadError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *WidgetLoadError) Error() string {
	if e.Err != nil {
		return "widget load failed: " + e.Message + ": " + e.Err.Error()
	}
	return "widget load failed: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *WidgetLoadError) Unwrap() error {
	return e.Err
}

// TokenizationError indicates that the widget failed to produce a usable
// transient token, either by reporting a failure or by returning a token in
// an unrecognized shape.
type TokenizationError struct {
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TokenizationError) Error() string {
	return "tokenization failed: " + e.Message
}
