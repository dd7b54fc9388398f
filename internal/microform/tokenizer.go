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
	"time"

	"github.com/motumag/payflow/internal/gateway"
	"github.com/motumag/payflow/internal/system/log"
)

const tokenizerLoggerComponentName = "MicroformTokenizer"

// defaultTokenizationTimeout bounds how long a tokenization callback is awaited.
const defaultTokenizationTimeout = 30 * time.Second

// TokenizerInterface converts the widget's callback style tokenization into a
// single awaited result.
type TokenizerInterface interface {
	Initialize(ctx context.Context, captureContext *gateway.CaptureContext) error
	Ready() bool
	CreateToken(ctx context.Context, options TokenOptions) (string, error)
	Teardown()
}

// tokenizer is the default implementation of TokenizerInterface.
type tokenizer struct {
	driver  DriverInterface
	timeout time.Duration
}

// NewTokenizer creates a tokenizer over the given widget driver.
func NewTokenizer(driver DriverInterface) TokenizerInterface {
	return &tokenizer{
		driver:  driver,
		timeout: defaultTokenizationTimeout,
	}
}

// Initialize loads and mounts the widget using the capture context.
func (t *tokenizer) Initialize(ctx context.Context, captureContext *gateway.CaptureContext) error {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, tokenizerLoggerComponentName))

	if captureContext == nil || captureContext.JWT == "" {
		return &WidgetLoadError{Message: "capture context is missing"}
	}
	if err := t.driver.Initialize(ctx, captureContext); err != nil {
		logger.Error("Widget initialization failed", log.Error(err))
		return &WidgetLoadError{Message: "client library initialization failed", Err: err}
	}

	logger.Debug("Widget initialized",
		log.String("clientLibrary", captureContext.ClientLibraryURL))
	return nil
}

// Ready reports whether the widget can tokenize.
func (t *tokenizer) Ready() bool {
	return t.driver.Ready()
}

// CreateToken runs one tokenization attempt and returns the normalized
// transient token. Only the first callback invocation settles the result;
// later invocations are ignored.
func (t *tokenizer) CreateToken(ctx context.Context, options TokenOptions) (string, error) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, tokenizerLoggerComponentName))

	if !t.driver.Ready() {
		return "", &TokenizationError{Message: "widget is not ready"}
	}

	type outcome struct {
		result any
		err    error
	}
	settled := make(chan outcome, 1)
	t.driver.CreateToken(options, func(result any, err error) {
		select {
		case settled <- outcome{result: result, err: err}:
		default:
		}
	})

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case out := <-settled:
		if out.err != nil {
			logger.Error("Widget reported tokenization failure", log.Error(out.err))
			return "", &TokenizationError{Message: out.err.Error()}
		}
		token, err := NormalizeToken(out.result)
		if err != nil {
			return "", err
		}
		logger.Debug("Transient token created", log.String("token", log.MaskString(token)))
		return token, nil
	case <-timer.C:
		return "", &TokenizationError{Message: "tokenization timed out"}
	case <-ctx.Done():
		return "", &TokenizationError{Message: "tokenization canceled: " + ctx.Err().Error()}
	}
}

// Teardown releases the widget.
func (t *tokenizer) Teardown() {
	t.driver.Teardown()
}

// NormalizeToken reduces the widget's token result to the bare transient token
// string. Accepted shapes are a bare string and an object carrying the token
// under "token" or, failing that, "id". Anything else is rejected.
func NormalizeToken(result any) (string, error) {
	switch value := result.(type) {
	case string:
		if value == "" {
			return "", &TokenizationError{Message: "token result is an empty string"}
		}
		return value, nil
	case map[string]any:
		if token, ok := value["token"].(string); ok && token != "" {
			return token, nil
		}
		if id, ok := value["id"].(string); ok && id != "" {
			return id, nil
		}
		return "", &TokenizationError{
			Message: "token object carries neither token nor id",
			Details: value,
		}
	default:
		return "", &TokenizationError{Message: "unrecognized token result shape"}
	}
}
