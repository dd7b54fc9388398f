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

// Package main is the entry point for starting the payflow server.
package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/motumag/payflow/internal/system/cert"
	"github.com/motumag/payflow/internal/system/config"
	"github.com/motumag/payflow/internal/system/log"
	"github.com/motumag/payflow/internal/system/managers"
)

func main() {
	logger := log.GetLogger()

	payflowHome := getPayflowHome(logger)

	cfg := initPayflowConfigurations(logger, payflowHome)
	if cfg == nil {
		logger.Fatal("Failed to initialize configurations")
	}

	mux := initMultiplexer(logger)
	if mux == nil {
		logger.Fatal("Failed to initialize multiplexer")
	}

	if cfg.Server.HTTPOnly {
		logger.Info("TLS is not enabled, starting server without TLS")
		startHTTPServer(logger, cfg, mux)
	} else {
		startTLSServer(logger, cfg, mux, payflowHome)
	}
}

// getPayflowHome retrieves and returns the payflow home directory.
func getPayflowHome(logger *log.Logger) string {
	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("payflowHome", "", "Path to payflow home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		logger.Info("Using payflowHome from command line argument",
			log.String("payflowHome", *projectHomeFlag))
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			logger.Fatal("Failed to get current working directory", log.Error(dirErr))
		}
		projectHome = dir
	}

	return projectHome
}

// initPayflowConfigurations initializes the payflow configurations.
func initPayflowConfigurations(logger *log.Logger, payflowHome string) *config.Config {
	// Load the configurations.
	configFilePath := path.Join(payflowHome, "repository/conf/deployment.yaml")
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.Error(err))
	}

	// Initialize runtime configurations.
	if err := config.InitializePayflowRuntime(payflowHome, cfg); err != nil {
		logger.Fatal("Failed to initialize payflow runtime", log.Error(err))
	}

	return cfg
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer(logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(); err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	return mux
}

// startTLSServer starts the HTTPS server with TLS configuration.
func startTLSServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux, payflowHome string) {
	server, serverAddr := createHTTPServer(logger, cfg, mux)

	// Get TLS configuration from the certificate and key files.
	sysCertSvc := cert.NewSystemCertificateService()
	tlsConfig, err := sysCertSvc.GetTLSConfig(cfg, payflowHome)
	if err != nil {
		logger.Fatal("Failed to load TLS configuration", log.Error(err))
	}

	ln, err := tls.Listen("tcp", serverAddr, tlsConfig)
	if err != nil {
		logger.Fatal("Failed to start TLS listener", log.Error(err))
	}

	logger.Info("Payflow server started (HTTPS)...", log.String("address", serverAddr))

	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", log.Error(err))
	}
}

// startHTTPServer starts the HTTP server without TLS.
func startHTTPServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux) {
	server, serverAddr := createHTTPServer(logger, cfg, mux)

	logger.Info("Payflow server started (HTTP)...", log.String("address", serverAddr))

	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Failed to serve HTTP requests", log.Error(err))
	}
}

// createHTTPServer creates and configures an HTTP server with common settings.
func createHTTPServer(logger *log.Logger, cfg *config.Config, mux *http.ServeMux) (*http.Server, string) {
	// Wrap the multiplexer with AccessLogHandler.
	wrappedMux := log.AccessLogHandler(logger, mux)

	// Build the server address using hostname and port from the configurations.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           wrappedMux,
		ReadHeaderTimeout: 10 * time.Second, // Mitigate Slowloris attacks
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return server, serverAddr
}
