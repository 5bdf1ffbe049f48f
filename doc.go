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

/*
Package clickhouse provides a lightweight client for the HTTP interface of a ClickHouse server.

# Client

Use NewClient to create a client. Every method sends one request and waits for the response:

	c := clickhouse.NewClient(&clickhouse.Config{
		Host:     "localhost",
		Port:     8123,
		Database: "default",
	})
	defer c.Close()

# Query Data

Query returns the rows of the result. Rows keep the column order of the server:

	rows, err := c.Query(ctx, `SELECT number, toString(number) AS s FROM system.numbers LIMIT 3`)
	if err != nil {
		return err
	}
	for _, row := range rows {
		fmt.Println(row.Get("number"), row.Get("s"))
	}

QueryBuilder assembles a SELECT statement from raw fragments:

	sql := clickhouse.NewQueryBuilder().
		Select("name", "count() AS n").
		From("events").
		Where("ts > yesterday()").
		GroupBy("name").
		OrderByDesc("n").
		Limit(10).
		Build()

# Write Data

Insert sends rows in the TabSeparated format. The first row decides the columns:

	ok, err := c.Insert(ctx, "events", []*clickhouse.Row{
		clickhouse.NewRow().Set("name", "signup").Set("ts", "2024-01-01 00:00:00"),
	})

InsertArrow and QueryArrow exchange Arrow record batches in the ArrowStream format.

# Errors

Request failures are reported as *QueryError and file failures of ExecuteFile
and ExportCSV as *FileError. CreateTable and TableStats never return errors:
they report false and zeroed stats respectively.

Identifiers, credentials and SQL fragments are interpolated as is. Callers
must not pass untrusted input.
*/
package clickhouse
