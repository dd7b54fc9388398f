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

package config

import "sync"

// PayflowRuntime holds the runtime configuration for the payflow server.
type PayflowRuntime struct {
	PayflowHome string `yaml:"payflow_home"`
	Config      Config `yaml:"config"`
}

var (
	runtimeConfig *PayflowRuntime
	once          sync.Once
)

// InitializePayflowRuntime initializes the PayflowRuntime configuration.
func InitializePayflowRuntime(payflowHome string, config *Config) error {
	once.Do(func() {
		runtimeConfig = &PayflowRuntime{
			PayflowHome: payflowHome,
			Config:      *config,
		}
	})

	return nil
}

// GetPayflowRuntime returns the PayflowRuntime configuration.
func GetPayflowRuntime() *PayflowRuntime {
	if runtimeConfig == nil {
		panic("PayflowRuntime is not initialized")
	}
	return runtimeConfig
}

// ResetPayflowRuntime resets the PayflowRuntime.
// This should only be used in tests to reset the singleton state.
func ResetPayflowRuntime() {
	runtimeConfig = nil
	once = sync.Once{}
}
