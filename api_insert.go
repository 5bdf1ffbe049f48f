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
	"fmt"
	"net/http"
	"strings"
)

// Insert writes rows into table in the TabSeparated format.
//
// The columns are the keys of the first row, in order. Other rows are not
// checked against them: a missing column is written as an empty cell and
// columns the first row lacks are dropped. Cells are not escaped.
//
// Inserting no rows succeeds without contacting the server.
func (c *Client) Insert(ctx context.Context, table string, rows []*Row) (bool, error) {
	if len(rows) == 0 {
		return true, nil
	}

	columns := rows[0].Keys()
	statement := insertStatement(table, columns, FormatTabSeparated)

	header := http.Header{}
	header.Set(headerQuery, statement)
	if _, err := c.submitQuery(ctx, "insert", []byte(encodeTabSeparated(columns, rows)), "", header); err != nil {
		return false, err
	}
	return true, nil
}

// insertStatement renders the INSERT statement sent in the X-ClickHouse-Query
// header. A nil column list omits the parenthesised list.
func insertStatement(table string, columns []string, format Format) string {
	if columns == nil {
		return fmt.Sprintf("INSERT INTO %s FORMAT %s", table, format)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) FORMAT %s", table, strings.Join(columns, ", "), format)
}

func encodeTabSeparated(columns []string, rows []*Row) string {
	lines := make([]string, 0, len(rows))
	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = stringify(row.Get(col))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}
