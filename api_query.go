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
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Format is the name of a ClickHouse input or output format.
type Format string

const (
	// FormatJSON renders the result as one JSON object with meta, data, rows and statistics.
	FormatJSON Format = "JSON"
	// FormatTabSeparated is the TabSeparated format used by Insert.
	FormatTabSeparated Format = "TabSeparated"
	// FormatArrowStream is the Arrow IPC streaming format.
	FormatArrowStream Format = "ArrowStream"
)

const headerQuery = "X-ClickHouse-Query"

// Query executes sql and returns the rows of the result.
func (c *Client) Query(ctx context.Context, sql string) ([]*Row, error) {
	return c.QueryFormat(ctx, sql, FormatJSON)
}

// QueryDF executes sql and returns the rows of the result. It is an alias of Query.
func (c *Client) QueryDF(ctx context.Context, sql string) ([]*Row, error) {
	return c.QueryFormat(ctx, sql, FormatJSON)
}

// QueryFormat executes sql with the given output format and returns the rows
// of the data array of the response. The response must be a JSON document.
func (c *Client) QueryFormat(ctx context.Context, sql string, format Format) ([]*Row, error) {
	rs, err := c.queryResultSet(ctx, sql, format)
	if err != nil {
		return nil, err
	}
	return rs.Data, nil
}

// QueryResultSet executes sql and returns the full JSON result, including column metadata.
func (c *Client) QueryResultSet(ctx context.Context, sql string) (*ResultSet, error) {
	return c.queryResultSet(ctx, sql, FormatJSON)
}

func (c *Client) queryResultSet(ctx context.Context, sql string, format Format) (*ResultSet, error) {
	data, err := c.submitQuery(ctx, "query", []byte(sql), format, nil)
	if err != nil {
		return nil, err
	}
	rs, err := parseResultSet(data)
	if err != nil {
		return nil, newQueryError("query", nil, err)
	}
	return rs, nil
}

// Ping checks that the server answers on its /ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	u, err := c.endpoint("")
	if err != nil {
		return newQueryError("ping", nil, err)
	}
	u.Path = "/ping"
	u.RawQuery = ""

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return newQueryError("ping", nil, errors.Wrap(err, "sending request"))
	}
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCodeOK(resp); err != nil {
		return newQueryError("ping", resp, err)
	}
	return nil
}

// submitQuery posts body to the server and returns the response body. When
// header is nil the body is the statement itself; otherwise header carries the
// statement and body is its data.
func (c *Client) submitQuery(ctx context.Context, op string, body []byte, format Format, header http.Header) ([]byte, error) {
	u, err := c.endpoint(string(format))
	if err != nil {
		return nil, newQueryError(op, nil, err)
	}

	requestID := uuid.New()
	start := time.Now()
	logger := c.logger.With(zap.String("op", op), zap.Stringer("request_id", requestID))
	logger.Debug("sending request", zap.Int("body_bytes", len(body)))

	resp, err := c.http.Post(ctx, u, header, body)
	if err != nil {
		logger.Debug("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, newQueryError(op, nil, errors.Wrap(err, "sending request"))
	}
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCodeOK(resp); err != nil {
		logger.Debug("request rejected", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, newQueryError(op, resp, err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newQueryError(op, resp, errors.Wrap(err, "reading response"))
	}
	logger.Debug("request finished",
		zap.Int("status", resp.StatusCode),
		zap.Int("response_bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}
