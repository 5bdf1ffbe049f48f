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

package itcases

import (
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/lucasepe/codename"
	clickhouse "github.com/scopedb/clickhouse-http-go"
	"github.com/stretchr/testify/require"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func NewClient(t testing.TB) *clickhouse.Client {
	host := os.Getenv("CLICKHOUSE_HOST")

	if host == "" {
		t.Skip("CLICKHOUSE_HOST not set")
		return nil // unreachable
	}

	config := &clickhouse.Config{
		Host:     host,
		Database: os.Getenv("CLICKHOUSE_DATABASE"),
		User:     os.Getenv("CLICKHOUSE_USER"),
		Password: os.Getenv("CLICKHOUSE_PASSWORD"),
	}
	if port := os.Getenv("CLICKHOUSE_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		require.NoError(t, err)
		config.Port = p
	}
	return clickhouse.NewClient(config)
}

func RandomName(t testing.TB) string {
	rng, err := codename.DefaultRNG()
	require.NoError(t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}
