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

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	clickhouse "github.com/scopedb/clickhouse-http-go"
	"github.com/spf13/cobra"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func newQueryCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "query SQL",
		Short: "Execute a query and print the rows.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputJSON && output != outputTable {
				return fmt.Errorf("unknown output format %q", output)
			}

			c := opts.newClient(stderr)
			defer c.Close()

			rows, err := c.Query(context.Background(), args[0])
			if err != nil {
				printError(stdout, err)
				return nil
			}
			if output == outputTable {
				writeTable(stdout, rows)
				return nil
			}
			return printJSON(stdout, rows)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "Output format: json or table")
	return cmd
}

func newTablesCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient(stderr)
			defer c.Close()

			tables, err := c.ListTables(context.Background(), "")
			if err != nil {
				printError(stdout, err)
				return nil
			}
			for _, name := range tables {
				fmt.Fprintln(stdout, name)
			}
			return nil
		},
	}
}

func newStatsCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "stats TABLE",
		Short: "Print the row count and size of a table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient(stderr)
			defer c.Close()

			return printJSON(stdout, c.TableStats(context.Background(), args[0]))
		},
	}
}

func newDescribeCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Print the columns of a table.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient(stderr)
			defer c.Close()

			rows, err := c.DescribeTable(context.Background(), args[0])
			if err != nil {
				printError(stdout, err)
				return nil
			}
			return printJSON(stdout, rows)
		},
	}
}

func newExecCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "exec FILE",
		Short: "Execute the statement in a SQL file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient(stderr)
			defer c.Close()

			if _, err := c.ExecuteFile(context.Background(), args[0]); err != nil {
				printError(stdout, err)
				return nil
			}
			fmt.Fprintf(stdout, "Executed %s\n", args[0])
			return nil
		},
	}
}

func newExportCommand(opts *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export SQL",
		Short: "Write the result of a query to a CSV file.",
		Long: `
Executes the query and writes the result to a CSV file. The header row holds
the columns of the first result row. An empty result produces an empty file.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.newClient(stderr)
			defer c.Close()

			if _, err := c.ExportCSV(context.Background(), args[0], path); err != nil {
				printError(stdout, err)
				return nil
			}
			fmt.Fprintf(stdout, "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "out", "o", "", "File to write the CSV to (required)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// writeTable renders rows as a text table whose header is the columns of the first row.
func writeTable(w io.Writer, rows []*clickhouse.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault

	var columns []string
	if len(rows) > 0 {
		columns = rows[0].Keys()
	}
	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			v := row.Get(col)
			if v == nil {
				v = "NULL"
			}
			r[i] = v
		}
		t.AppendRow(r)
	}
	t.Render()
}
