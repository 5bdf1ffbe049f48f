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
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultPort is the default port of the ClickHouse HTTP interface.
	DefaultPort = 8123
	// DefaultDatabase is the database used when none is configured.
	DefaultDatabase = "default"
	// DefaultTimeout bounds every request sent by the client.
	DefaultTimeout = 30 * time.Second
)

// Config defines the configuration for the connection.
type Config struct {
	// Host is the host name or address of the ClickHouse server.
	Host string `json:"host"`
	// Port is the port of the HTTP interface. Defaults to DefaultPort.
	Port int `json:"port"`
	// Database is the database every request runs against. Defaults to DefaultDatabase.
	Database string `json:"database"`
	// User is sent as the user query parameter when not empty.
	User string `json:"user"`
	// Password is sent as the password query parameter when not empty.
	Password string `json:"password"`

	// Logger receives request and failure logs. Defaults to a no-op logger.
	Logger *zap.Logger `json:"-"`
	// HTTPClient overrides the transport used to reach the server.
	HTTPClient HTTPClient `json:"-"`
}

// BaseURL returns the origin of the ClickHouse HTTP interface, e.g. "http://localhost:8123".
func (c *Config) BaseURL() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("http://%s:%d", c.Host, port)
}

// withDefaults returns a copy of the config with unset fields filled in.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Port == 0 {
		out.Port = DefaultPort
	}
	if out.Database == "" {
		out.Database = DefaultDatabase
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	if out.HTTPClient == nil {
		out.HTTPClient = NewHTTPClient()
	}
	return &out
}
