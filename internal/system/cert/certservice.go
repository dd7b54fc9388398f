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

// Package cert provides the TLS certificate handling for the server.
package cert

import (
	"crypto/tls"
	"fmt"
	"path"

	"github.com/motumag/payflow/internal/system/config"
)

// SystemCertificateServiceInterface defines the interface for loading the
// server TLS configuration.
type SystemCertificateServiceInterface interface {
	GetTLSConfig(cfg *config.Config, payflowHome string) (*tls.Config, error)
}

// systemCertificateService is the default implementation of the SystemCertificateServiceInterface.
type systemCertificateService struct{}

// NewSystemCertificateService creates a new system certificate service.
func NewSystemCertificateService() SystemCertificateServiceInterface {
	return &systemCertificateService{}
}

// GetTLSConfig loads the server certificate and key referenced by the
// configuration, resolved relative to the payflow home directory.
func (s *systemCertificateService) GetTLSConfig(cfg *config.Config,
	payflowHome string) (*tls.Config, error) {
	if cfg.Security.CertFile == "" || cfg.Security.KeyFile == "" {
		return nil, fmt.Errorf("server certificate or key file is not configured")
	}

	certPath := path.Join(payflowHome, cfg.Security.CertFile)
	keyPath := path.Join(payflowHome, cfg.Security.KeyFile)

	certificate, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
