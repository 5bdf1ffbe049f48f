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
	"context"
	"fmt"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/gkampitakis/go-snaps/snaps"
	clickhouse "github.com/scopedb/clickhouse-http-go"
	"github.com/stretchr/testify/require"
)

func TestInsertAndQuery(t *testing.T) {
	c := NewClient(t)
	defer c.Close()

	ctx := context.Background()
	name := RandomName(t)
	require.True(t, c.CreateTable(ctx, name, "id Int64, name String", clickhouse.WithOrderBy("id")))
	defer func() {
		require.NoError(t, c.DropTable(ctx, name))
	}()

	ok, err := c.Insert(ctx, name, []*clickhouse.Row{
		clickhouse.NewRow().Set("id", 1).Set("name", "tison"),
		clickhouse.NewRow().Set("id", 2).Set("name", "clickhouse"),
	})
	require.NoError(t, err)
	require.True(t, ok)

	sql := clickhouse.NewQueryBuilder().Select("id", "name").From(name).OrderBy("id").Build()
	rows, err := c.Query(ctx, sql)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, fmt.Sprintf("%v", rows))
}

func TestArrowRoundTrip(t *testing.T) {
	c := NewClient(t)
	defer c.Close()

	ctx := context.Background()
	name := RandomName(t)
	require.True(t, c.CreateTable(ctx, name, "a Int64, s String", clickhouse.WithOrderBy("a")))
	defer func() {
		require.NoError(t, c.DropTable(ctx, name))
	}()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "a", Type: arrow.PrimitiveTypes.Int64},
		{Name: "s", Type: arrow.BinaryTypes.String},
	}, nil)
	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"x", "y"}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	ok, err := c.InsertArrow(ctx, name, []arrow.Record{rec})
	require.NoError(t, err)
	require.True(t, ok)

	records, err := c.QueryArrow(ctx, fmt.Sprintf("SELECT a, s FROM %s ORDER BY a", name))
	require.NoError(t, err)
	defer func() {
		for _, r := range records {
			r.Release()
		}
	}()
	snaps.MatchSnapshot(t, fmt.Sprintf("%v", records))
}
