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

// Package config provides structures and functions for loading and managing server configurations.
package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	HTTPOnly bool   `yaml:"http_only"`
}

// GatewayConfig holds the backend payment gateway configuration details.
type GatewayConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MicroformConfig holds the hosted tokenization widget configuration details.
type MicroformConfig struct {
	TargetOrigins       []string `yaml:"target_origins"`
	AllowedCardNetworks []string `yaml:"allowed_card_networks"`
	ClientVersion       string   `yaml:"client_version"`
}

// PayerAuthConfig holds the 3DS payer authentication configuration details.
type PayerAuthConfig struct {
	DeviceCollectionURL string   `yaml:"device_collection_url"`
	ReturnURL           string   `yaml:"return_url"`
	TrustedFrameOrigins []string `yaml:"trusted_frame_origins"`
	MerchantData        string   `yaml:"merchant_data"`
}

// CORSConfig holds the CORS configuration details.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SecurityConfig holds the TLS certificate configuration details.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// CacheConfig holds the in-memory cache configuration details.
type CacheConfig struct {
	Disabled   bool `yaml:"disabled"`
	Size       int  `yaml:"size"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

// Config holds the complete deployment configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Microform MicroformConfig `yaml:"microform"`
	PayerAuth PayerAuthConfig `yaml:"payer_auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Cache     CacheConfig     `yaml:"cache"`
	Security  SecurityConfig  `yaml:"security"`
}

// LoadConfig loads the deployment configuration from the given YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig checks the loaded configuration for required fields.
func validateConfig(cfg *Config) error {
	if cfg.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway base_url is required")
	}
	if cfg.PayerAuth.DeviceCollectionURL == "" {
		return fmt.Errorf("payer_auth device_collection_url is required")
	}
	if len(cfg.PayerAuth.TrustedFrameOrigins) == 0 {
		return fmt.Errorf("payer_auth trusted_frame_origins is required")
	}
	return nil
}
