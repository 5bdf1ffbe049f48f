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
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const headerExceptionCode = "X-ClickHouse-Exception-Code"

// QueryError is returned when a request to the ClickHouse server fails.
//
// Transport failures, non-2xx responses and undecodable bodies all collapse into
// this one kind. Op is "query" or "insert".
type QueryError struct {
	Op string
	// StatusCode is the HTTP status of the response, or zero when no response was received.
	StatusCode int
	// Code is the value of the X-ClickHouse-Exception-Code header, if any.
	Code string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("clickhouse %s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// FileError is returned when ExecuteFile or ExportCSV fails. Op is "execute" or "export".
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	if e.Op == "export" {
		return fmt.Sprintf("failed to export CSV to %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to execute file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ServerError is the error body of a non-2xx response.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func checkStatusCodeOK(resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading error response with status %d", resp.StatusCode)
	}
	return &ServerError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(data)),
	}
}

// newQueryError builds a QueryError, picking up the status and exception code from resp when present.
func newQueryError(op string, resp *http.Response, err error) *QueryError {
	qe := &QueryError{Op: op, Err: err}
	if resp != nil {
		qe.StatusCode = resp.StatusCode
		qe.Code = resp.Header.Get(headerExceptionCode)
	}
	return qe
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
