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

package gateway

import (
	"context"
	"strings"

	"github.com/motumag/payflow/internal/system/cache"
	"github.com/motumag/payflow/internal/system/log"
)

const captureContextCacheName = "captureContextCache"

// cachedClient decorates a ClientInterface with a short-lived capture context
// cache. Capture contexts are not session bound, so one fetch can serve every
// session created while the context is still valid. All other operations pass
// through untouched.
type cachedClient struct {
	ClientInterface
	captureContexts cache.CacheInterface[*CaptureContext]
}

// NewCachedClient wraps the given client with capture context caching.
func NewCachedClient(client ClientInterface) ClientInterface {
	return &cachedClient{
		ClientInterface: client,
		captureContexts: cache.NewCache[*CaptureContext](captureContextCacheName),
	}
}

// GetCaptureContext returns a cached capture context for the given origins and
// card networks, fetching through the underlying client on a miss.
func (c *cachedClient) GetCaptureContext(ctx context.Context, targetOrigins,
	allowedCardNetworks []string) (*CaptureContext, error) {
	key := captureContextCacheKey(targetOrigins, allowedCardNetworks)

	if captureContext, ok := c.captureContexts.Get(key); ok {
		return captureContext, nil
	}

	captureContext, err := c.ClientInterface.GetCaptureContext(ctx, targetOrigins, allowedCardNetworks)
	if err != nil {
		return nil, err
	}

	c.captureContexts.Set(key, captureContext)

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "GatewayClient"))
	logger.Debug("Cached capture context", log.String("cacheKey", key))

	return captureContext, nil
}

func captureContextCacheKey(targetOrigins, allowedCardNetworks []string) string {
	return strings.Join(targetOrigins, ",") + "|" + strings.Join(allowedCardNetworks, ",")
}
