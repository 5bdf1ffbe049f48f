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
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// Value stores the contents of a single cell from a ClickHouse query result.
//
// Decoded values are one of string, int64, float64, bool, nil, []Value or *Row.
type Value any

// Row maps column names to values and remembers the order in which columns
// were added. Rows decoded from a response keep the column order of the server.
type Row struct {
	keys   []string
	values map[string]Value
}

// NewRow creates an empty row.
func NewRow() *Row {
	return &Row{values: make(map[string]Value)}
}

// Set sets the value of a column. New columns are appended after the existing
// ones; setting an existing column keeps its position.
func (r *Row) Set(key string, v Value) *Row {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
	return r
}

// Get returns the value of a column, or nil if the column is absent.
func (r *Row) Get(key string) Value {
	return r.values[key]
}

// Lookup returns the value of a column and whether the row has it.
func (r *Row) Lookup(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the column names in order.
func (r *Row) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of columns.
func (r *Row) Len() int {
	return len(r.keys)
}

// MarshalJSON encodes the row as a JSON object with the columns in order.
func (r *Row) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, errors.Wrapf(err, "encoding column %s", k)
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// String returns the JSON encoding of the row.
func (r *Row) String() string {
	b, err := r.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%v", r.values)
	}
	return string(b)
}

// UnmarshalJSON decodes a JSON object into the row, keeping the document order of its keys.
func (r *Row) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON row")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("expected JSON object, got %s", res.Type)
	}
	*r = *rowOf(res)
	return nil
}

func rowOf(obj gjson.Result) *Row {
	row := NewRow()
	obj.ForEach(func(key, value gjson.Result) bool {
		row.Set(key.String(), valueOf(value))
		return true
	})
	return row
}

func valueOf(v gjson.Result) Value {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.String:
		return v.String()
	case gjson.Number:
		if i, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
			return i
		}
		return v.Float()
	case gjson.JSON:
		if v.IsObject() {
			return rowOf(v)
		}
		values := make([]Value, 0)
		v.ForEach(func(_, elem gjson.Result) bool {
			values = append(values, valueOf(elem))
			return true
		})
		return values
	default:
		return nil
	}
}

// stringify renders a value as a TabSeparated or CSV cell. Missing and nil values render empty.
func stringify(v Value) string {
	s, err := cast.ToStringE(v)
	if err == nil {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

// Column describes one column of a result set.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Statistics carries the execution statistics reported with a result set.
type Statistics struct {
	Elapsed   float64 `json:"elapsed"`
	RowsRead  int64   `json:"rows_read"`
	BytesRead int64   `json:"bytes_read"`
}

// ResultSet stores the result of a query in the JSON format.
type ResultSet struct {
	// Meta lists the result columns in order. It may be empty.
	Meta []Column
	// Data holds the rows in the order returned by the server.
	Data []*Row
	// Rows is the number of rows reported by the server.
	Rows int64
	// Statistics is the execution summary reported by the server.
	Statistics Statistics
}

// parseResultSet decodes a response of the JSON output format.
// A blank response, as returned for DDL and inserts, or one without a data
// array yields an empty result set.
func parseResultSet(data []byte) (*ResultSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &ResultSet{Data: make([]*Row, 0)}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.Errorf("invalid JSON response: %q", truncate(data, 256))
	}
	doc := gjson.ParseBytes(data)

	rs := &ResultSet{Data: make([]*Row, 0)}
	doc.Get("meta").ForEach(func(_, col gjson.Result) bool {
		rs.Meta = append(rs.Meta, Column{
			Name: col.Get("name").String(),
			Type: col.Get("type").String(),
		})
		return true
	})

	var err error
	doc.Get("data").ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			err = errors.Errorf("expected row object, got %s", row.Raw)
			return false
		}
		rs.Data = append(rs.Data, rowOf(row))
		return true
	})
	if err != nil {
		return nil, err
	}

	rs.Rows = doc.Get("rows").Int()
	stats := doc.Get("statistics")
	rs.Statistics = Statistics{
		Elapsed:   stats.Get("elapsed").Float(),
		RowsRead:  stats.Get("rows_read").Int(),
		BytesRead: stats.Get("bytes_read").Int(),
	}
	return rs, nil
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
