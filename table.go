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

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const bytesPerMiB = 1024 * 1024

// TableStats summarises the size of a table.
type TableStats struct {
	Rows               int64   `json:"rows"`
	CompressedSizeMB   float64 `json:"compressed_size_mb"`
	UncompressedSizeMB float64 `json:"uncompressed_size_mb"`
}

type tableOptions struct {
	engine  string
	orderBy string
}

// TableOption customizes CreateTable.
type TableOption func(*tableOptions)

// WithEngine sets the table engine. Defaults to "MergeTree()".
func WithEngine(engine string) TableOption {
	return func(o *tableOptions) { o.engine = engine }
}

// WithOrderBy sets the ORDER BY expression of the table. Defaults to "tuple()".
func WithOrderBy(expr string) TableOption {
	return func(o *tableOptions) { o.orderBy = expr }
}

// CreateTable creates the table if it does not exist. schema is the column
// list, e.g. "id UInt64, name String".
//
// It reports false on any failure and never returns the cause, which is logged.
func (c *Client) CreateTable(ctx context.Context, name, schema string, opts ...TableOption) bool {
	o := &tableOptions{
		engine:  "MergeTree()",
		orderBy: "tuple()",
	}
	for _, opt := range opts {
		opt(o)
	}

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s
		)
		ENGINE = %s
		ORDER BY %s
	`, name, schema, o.engine, o.orderBy)
	if _, err := c.Query(ctx, sql); err != nil {
		c.logger.Warn("create table failed", zap.String("table", name), zap.Error(err))
		return false
	}
	return true
}

// DropTable drops the table if it exists.
func (c *Client) DropTable(ctx context.Context, name string) error {
	_, err := c.Query(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, name))
	return err
}

// DescribeTable returns the rows of DESCRIBE TABLE as sent by the server.
func (c *Client) DescribeTable(ctx context.Context, name string) ([]*Row, error) {
	return c.Query(ctx, fmt.Sprintf(`DESCRIBE TABLE %s`, name))
}

// ListTables returns the names of the tables in database. An empty database
// means the database of the client.
func (c *Client) ListTables(ctx context.Context, database string) ([]string, error) {
	if database == "" {
		database = c.config.Database
	}

	rows, err := c.Query(ctx, fmt.Sprintf(`SELECT name FROM system.tables WHERE database = '%s'`, database))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		name, ok := row.Lookup("name")
		if !ok {
			return nil, newQueryError("query", nil, errors.New("row without name column"))
		}
		names = append(names, stringify(name))
	}
	return names, nil
}

// TableStats returns the row count and on-disk sizes of a table.
//
// It never fails: an unknown table or any error yields zeroed stats.
func (c *Client) TableStats(ctx context.Context, name string) TableStats {
	rows, err := c.Query(ctx, fmt.Sprintf(`
		SELECT
			rows,
			bytes_on_disk as compressed_size,
			bytes_uncompressed as uncompressed_size
		FROM system.tables
		WHERE name = '%s'
	`, name))
	if err != nil {
		c.logger.Warn("table stats failed", zap.String("table", name), zap.Error(err))
		return TableStats{}
	}
	if len(rows) == 0 {
		return TableStats{}
	}

	stats, err := tableStatsOf(rows[0])
	if err != nil {
		c.logger.Warn("table stats failed", zap.String("table", name), zap.Error(err))
		return TableStats{}
	}
	return stats
}

// tableStatsOf converts a system.tables row. ClickHouse quotes 64-bit integers
// in JSON, so numeric strings are accepted; absent and null columns count as zero.
func tableStatsOf(row *Row) (TableStats, error) {
	n, err := toInt(row.Get("rows"))
	if err != nil {
		return TableStats{}, errors.Wrap(err, "rows")
	}
	compressed, err := toFloat(row.Get("compressed_size"))
	if err != nil {
		return TableStats{}, errors.Wrap(err, "compressed_size")
	}
	uncompressed, err := toFloat(row.Get("uncompressed_size"))
	if err != nil {
		return TableStats{}, errors.Wrap(err, "uncompressed_size")
	}
	return TableStats{
		Rows:               n,
		CompressedSizeMB:   compressed / bytesPerMiB,
		UncompressedSizeMB: uncompressed / bytesPerMiB,
	}, nil
}

func toInt(v Value) (int64, error) {
	if v == nil {
		return 0, nil
	}
	return cast.ToInt64E(v)
}

func toFloat(v Value) (float64, error) {
	if v == nil {
		return 0, nil
	}
	return cast.ToFloat64E(v)
}
