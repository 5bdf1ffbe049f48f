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
	"encoding/csv"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ExecuteFile reads the file at path and executes its whole content as one statement.
func (c *Client) ExecuteFile(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, &FileError{Op: "execute", Path: path, Err: errors.Wrap(err, "reading file")}
	}
	if _, err := c.Query(ctx, string(data)); err != nil {
		return false, &FileError{Op: "execute", Path: path, Err: err}
	}
	return true, nil
}

// ExportCSV executes sql and writes the result to outputPath as CSV.
//
// The header is the columns of the first row, in order, and every row is
// written against it: missing columns are left empty and a row with a column
// the header lacks fails the export. Records end with CRLF. An empty result produces an empty file.
func (c *Client) ExportCSV(ctx context.Context, sql, outputPath string) (bool, error) {
	rows, err := c.Query(ctx, sql)
	if err != nil {
		return false, &FileError{Op: "export", Path: outputPath, Err: err}
	}
	if err := writeCSV(outputPath, rows); err != nil {
		return false, &FileError{Op: "export", Path: outputPath, Err: err}
	}
	return true, nil
}

func writeCSV(path string, rows []*Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing file")
		}
	}()

	if len(rows) == 0 {
		return nil
	}

	w := csv.NewWriter(f)
	w.UseCRLF = true
	columns := rows[0].Keys()
	if err := w.Write(columns); err != nil {
		return errors.Wrap(err, "writing header")
	}
	inHeader := make(map[string]bool, len(columns))
	for _, col := range columns {
		inHeader[col] = true
	}
	record := make([]string, len(columns))
	for n, row := range rows {
		var extra []string
		for _, key := range row.Keys() {
			if !inHeader[key] {
				extra = append(extra, key)
			}
		}
		if len(extra) > 0 {
			w.Flush()
			return errors.Errorf("row %d has columns not in the header: %s", n, strings.Join(extra, ", "))
		}
		for i, col := range columns {
			record[i] = stringify(row.Get(col))
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flushing")
}
