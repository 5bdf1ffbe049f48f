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

package clickhouse_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	clickhouse "github.com/scopedb/clickhouse-http-go"
	"github.com/stretchr/testify/require"
)

// capturedRequest is what the fake server saw of one request.
type capturedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// fakeServer records every request and answers with respond.
type fakeServer struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (s *fakeServer) Requests() []capturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]capturedRequest(nil), s.requests...)
}

func (s *fakeServer) Last(t *testing.T) capturedRequest {
	reqs := s.Requests()
	require.NotEmpty(t, reqs, "no request received")
	return reqs[len(reqs)-1]
}

// newTestServer starts a fake ClickHouse server and returns a client configured against it.
func newTestServer(t *testing.T, respond http.HandlerFunc) (*clickhouse.Client, *fakeServer) {
	return newTestServerWithConfig(t, &clickhouse.Config{}, respond)
}

func newTestServerWithConfig(t *testing.T, config *clickhouse.Config, respond http.HandlerFunc) (*clickhouse.Client, *fakeServer) {
	fs := &fakeServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fs.mu.Lock()
		fs.requests = append(fs.requests, capturedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(body),
		})
		fs.mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := *config
	cfg.Host, cfg.Port = hostPort(t, srv.URL)
	c := clickhouse.NewClient(&cfg)
	t.Cleanup(c.Close)
	return c, fs
}

// newUnreachableClient returns a client whose server has already shut down.
func newUnreachableClient(t *testing.T) *clickhouse.Client {
	srv := httptest.NewServer(http.NotFoundHandler())
	host, port := hostPort(t, srv.URL)
	srv.Close()

	c := clickhouse.NewClient(&clickhouse.Config{Host: host, Port: port})
	t.Cleanup(c.Close)
	return c
}

func hostPort(t *testing.T, rawURL string) (string, int) {
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return u.Hostname(), port
}

func respondJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		_, _ = io.WriteString(w, body)
	}
}

func respondError(status int, code, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if code != "" {
			w.Header().Set("X-ClickHouse-Exception-Code", code)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, message+"\n")
	}
}

func respondEmpty(w http.ResponseWriter, r *http.Request) {}
