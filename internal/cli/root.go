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

// Package cli implements the chclient command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	clickhouse "github.com/scopedb/clickhouse-http-go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "CLICKHOUSE"

// globalOptions holds the connection flags shared by every subcommand.
type globalOptions struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Verbose  bool
}

func (o *globalOptions) newClient(stderr io.Writer) *clickhouse.Client {
	logger := zap.NewNop()
	if o.Verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		} else {
			fmt.Fprintf(stderr, "building logger: %v\n", err)
		}
	}
	return clickhouse.NewClient(&clickhouse.Config{
		Host:     o.Host,
		Port:     o.Port,
		Database: o.Database,
		User:     o.User,
		Password: o.Password,
		Logger:   logger,
	})
}

// NewRootCommand builds the chclient command tree.
//
// Failures of the server or the client are reported on stdout as "Error: ..."
// and do not fail the command. Only usage errors make Execute return an error.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}
	rc := &cobra.Command{
		Use:   "chclient",
		Short: "Query and inspect a ClickHouse server over HTTP.",
		Long: `chclient sends SQL to the HTTP interface of a ClickHouse server and prints
the results.

Connection flags can also be set through CLICKHOUSE_* environment variables
(e.g. CLICKHOUSE_HOST) or a TOML file passed with --config.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setAllConfig(viper.New(), cmd.Flags())
		},
	}

	flags := rc.PersistentFlags()
	flags.StringVar(&opts.Host, "host", "localhost", "ClickHouse host")
	flags.IntVar(&opts.Port, "port", clickhouse.DefaultPort, "ClickHouse HTTP port")
	flags.StringVar(&opts.Database, "database", clickhouse.DefaultDatabase, "Database")
	flags.StringVar(&opts.User, "user", "default", "Username")
	flags.StringVar(&opts.Password, "password", "", "Password")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Log requests to stderr")
	flags.StringP("config", "c", "", "Configuration file to read from.")

	rc.AddCommand(newQueryCommand(opts, stdout, stderr))
	rc.AddCommand(newTablesCommand(opts, stdout, stderr))
	rc.AddCommand(newStatsCommand(opts, stdout, stderr))
	rc.AddCommand(newDescribeCommand(opts, stdout, stderr))
	rc.AddCommand(newExecCommand(opts, stdout, stderr))
	rc.AddCommand(newExportCommand(opts, stdout, stderr))

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// setAllConfig applies configuration from, in priority order, command line
// flags, CLICKHOUSE_* environment variables and the TOML file named by the
// config flag. Environment variables are the upper-cased flag names with
// dashes replaced by underscores.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if !validTags[key] {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		flagErr = f.Value.Set(v.GetString(f.Name))
	})
	return flagErr
}

// printJSON writes v as JSON indented by two spaces.
func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// printError reports a client failure the way every subcommand does.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
