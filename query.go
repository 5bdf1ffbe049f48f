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
	"strconv"
	"strings"
)

// QueryBuilder assembles a SELECT statement from fragments.
//
// Fragments are used verbatim: conditions and identifiers are neither
// escaped nor validated. Methods mutate the builder and return it for chaining.
//
//	sql := clickhouse.NewQueryBuilder().
//		Select("user_id", "count() AS hits").
//		From("events").
//		Where("ts > now() - INTERVAL 1 DAY").
//		GroupBy("user_id").
//		OrderByDesc("hits").
//		Limit(10).
//		Build()
type QueryBuilder struct {
	selectCols []string
	from       string
	where      []string
	groupBy    []string
	orderBy    []string
	desc       bool
	limit      int
}

// NewQueryBuilder creates an empty builder.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// Select adds columns to the SELECT list. With no columns selected the query selects *.
func (q *QueryBuilder) Select(cols ...string) *QueryBuilder {
	q.selectCols = append(q.selectCols, cols...)
	return q
}

// From sets the table to select from, replacing any previous one.
func (q *QueryBuilder) From(table string) *QueryBuilder {
	q.from = table
	return q
}

// Where adds conditions, which are joined with AND.
func (q *QueryBuilder) Where(conds ...string) *QueryBuilder {
	q.where = append(q.where, conds...)
	return q
}

// GroupBy adds columns to the GROUP BY list.
func (q *QueryBuilder) GroupBy(cols ...string) *QueryBuilder {
	q.groupBy = append(q.groupBy, cols...)
	return q
}

// OrderBy adds columns to the ORDER BY list and sorts the whole list ascending.
func (q *QueryBuilder) OrderBy(cols ...string) *QueryBuilder {
	q.orderBy = append(q.orderBy, cols...)
	q.desc = false
	return q
}

// OrderByDesc adds columns to the ORDER BY list and sorts the whole list descending.
//
// The direction applies to the entire clause; the last OrderBy or OrderByDesc call decides it.
func (q *QueryBuilder) OrderByDesc(cols ...string) *QueryBuilder {
	q.orderBy = append(q.orderBy, cols...)
	q.desc = true
	return q
}

// Limit sets the maximum number of rows. Zero means no limit.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

// Build renders the statement. Clauses appear in the order SELECT, FROM,
// WHERE, GROUP BY, ORDER BY, LIMIT and empty ones are left out.
func (q *QueryBuilder) Build() string {
	parts := make([]string, 0, 6)

	if len(q.selectCols) > 0 {
		parts = append(parts, "SELECT "+strings.Join(q.selectCols, ", "))
	} else {
		parts = append(parts, "SELECT *")
	}

	if q.from != "" {
		parts = append(parts, "FROM "+q.from)
	}

	if len(q.where) > 0 {
		parts = append(parts, "WHERE "+strings.Join(q.where, " AND "))
	}

	if len(q.groupBy) > 0 {
		parts = append(parts, "GROUP BY "+strings.Join(q.groupBy, ", "))
	}

	if len(q.orderBy) > 0 {
		order := strings.Join(q.orderBy, ", ")
		if q.desc {
			order += " DESC"
		}
		parts = append(parts, "ORDER BY "+order)
	}

	if q.limit != 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(q.limit))
	}

	return strings.Join(parts, " ")
}

// String renders the statement, see Build.
func (q *QueryBuilder) String() string {
	return q.Build()
}
