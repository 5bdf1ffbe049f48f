/*
 * Copyright 2024 ScopeDB, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package clickhouse

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Client talks to a ClickHouse server over its HTTP interface.
//
// A Client holds no mutable state. Each method performs a single request.
type Client struct {
	config *Config
	http   HTTPClient
	logger *zap.Logger
}

// NewClient creates a new client with the given configuration.
func NewClient(config *Config) *Client {
	cfg := config.withDefaults()
	return &Client{
		config: cfg,
		http:   cfg.HTTPClient,
		logger: cfg.Logger,
	}
}

// Config returns the resolved configuration of the client.
func (c *Client) Config() Config {
	return *c.config
}

// Close closes the client.
//
// You don't typically need to call this as the garbage collector will release
// the resources when the client is no longer referenced. However, it can be
// useful to call this if you want to release the resources immediately.
func (c *Client) Close() {
	c.http.Close()
}

// endpoint renders the request URL. Database, credentials and format are
// appended verbatim, without escaping.
func (c *Client) endpoint(format string) (*url.URL, error) {
	var b strings.Builder
	b.WriteString(c.config.BaseURL())
	b.WriteString("/?database=")
	b.WriteString(c.config.Database)
	if format != "" {
		b.WriteString("&format=")
		b.WriteString(format)
	}
	if c.config.User != "" {
		b.WriteString("&user=")
		b.WriteString(c.config.User)
	}
	if c.config.Password != "" {
		b.WriteString("&password=")
		b.WriteString(c.config.Password)
	}
	return url.Parse(b.String())
}
