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
	"testing"

	clickhouse "github.com/scopedb/clickhouse-http-go"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilder(t *testing.T) {
	for _, tc := range []struct {
		name string
		q    *clickhouse.QueryBuilder
		want string
	}{
		{
			name: "empty",
			q:    clickhouse.NewQueryBuilder(),
			want: "SELECT *",
		},
		{
			name: "select star from",
			q:    clickhouse.NewQueryBuilder().From("t"),
			want: "SELECT * FROM t",
		},
		{
			name: "select where limit",
			q:    clickhouse.NewQueryBuilder().Select("a", "b").From("t").Where("a>1").Limit(10),
			want: "SELECT a, b FROM t WHERE a>1 LIMIT 10",
		},
		{
			name: "all clauses",
			q: clickhouse.NewQueryBuilder().
				Limit(5).
				OrderByDesc("n").
				GroupBy("user_id", "day").
				Where("day > '2024-01-01'", "user_id != 0").
				From("events").
				Select("user_id", "day", "count() AS n"),
			want: "SELECT user_id, day, count() AS n FROM events WHERE day > '2024-01-01' AND user_id != 0 " +
				"GROUP BY user_id, day ORDER BY n DESC LIMIT 5",
		},
		{
			name: "appending calls",
			q:    clickhouse.NewQueryBuilder().Select("a").Select("a", "b").Where("a = 1").Where("b = 2").GroupBy("a").GroupBy("b"),
			want: "SELECT a, a, b WHERE a = 1 AND b = 2 GROUP BY a, b",
		},
		{
			name: "last from wins",
			q:    clickhouse.NewQueryBuilder().From("t1").From("t2"),
			want: "SELECT * FROM t2",
		},
		{
			name: "zero limit omitted",
			q:    clickhouse.NewQueryBuilder().From("t").Limit(10).Limit(0),
			want: "SELECT * FROM t",
		},
		{
			name: "negative limit rendered",
			q:    clickhouse.NewQueryBuilder().Limit(-1),
			want: "SELECT * LIMIT -1",
		},
		{
			name: "ascending order",
			q:    clickhouse.NewQueryBuilder().From("t").OrderBy("a", "b"),
			want: "SELECT * FROM t ORDER BY a, b",
		},
		{
			name: "descending order",
			q:    clickhouse.NewQueryBuilder().From("t").OrderByDesc("a"),
			want: "SELECT * FROM t ORDER BY a DESC",
		},
		{
			name: "last direction wins ascending",
			q:    clickhouse.NewQueryBuilder().From("t").OrderByDesc("a").OrderBy("b"),
			want: "SELECT * FROM t ORDER BY a, b",
		},
		{
			name: "last direction wins descending",
			q:    clickhouse.NewQueryBuilder().From("t").OrderBy("a").OrderByDesc("b"),
			want: "SELECT * FROM t ORDER BY a, b DESC",
		},
		{
			name: "fragments are not escaped",
			q:    clickhouse.NewQueryBuilder().From("t").Where("name = 'O''Brien'; DROP TABLE t"),
			want: "SELECT * FROM t WHERE name = 'O''Brien'; DROP TABLE t",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.q.Build())
			require.Equal(t, tc.want, tc.q.String())
		})
	}
}

func TestQueryBuilderChainsOneInstance(t *testing.T) {
	q := clickhouse.NewQueryBuilder()
	require.Same(t, q, q.Select("a").From("t").Where("a > 0").GroupBy("a").OrderBy("a").OrderByDesc("a").Limit(1))
}
