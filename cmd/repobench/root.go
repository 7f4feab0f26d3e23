/*
 * Copyright 2025 tomoncle.
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

package main

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tomoncle/repobench/database"
	"github.com/tomoncle/repobench/utils"
)

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type globalOptions struct {
	configPath string
	driver     string
	dsn        string
	logLevel   string
	logFormat  string
	logFile    string
	queryLog   bool
}

func newRootCommand(out io.Writer, build buildInfo) *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "repobench",
		Short:         "Benchmark cached and uncached generic repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.logFormat != "" {
				utils.ConfigureConsoleLogFormat(opts.logFormat)
			}
			if opts.logFile != "" {
				utils.ConfigureFileLog(opts.logFile, 0, 0, 0)
			}
			if opts.logLevel != "" {
				utils.ConfigureLogLevel(opts.logLevel)
			}
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", database.DefaultSettingsFile, "settings file (json, yaml or toml)")
	flags.StringVar(&opts.driver, "driver", "", "database type: sqlite, postgres, pgx or mysql")
	flags.StringVar(&opts.dsn, "dsn", "", "connection string, overrides the settings file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "console log format: text or json")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this file, rotated by size")
	flags.BoolVar(&opts.queryLog, "query-log", false, "print every executed query")

	cmd.AddCommand(newRunCommand(out, opts))
	cmd.AddCommand(newListCommand(out))
	cmd.AddCommand(newSeedCommand(out, opts))
	cmd.AddCommand(newAddressesCommand(out, opts))
	cmd.AddCommand(newVersionCommand(out, build))
	return cmd
}

// connectionConfig resolves the settings file, then the command line flags.
func (o *globalOptions) connectionConfig() (*database.ConnectionConfig, error) {
	settings, err := database.LoadSettings(o.configPath)
	if err != nil {
		return nil, err
	}
	if settings.LogLevel != "" && o.logLevel == "" {
		utils.ConfigureLogLevel(settings.LogLevel)
	}
	cfg, err := settings.ConnectionConfig()
	if err != nil {
		return nil, err
	}
	if o.driver != "" {
		cfg.Type = strings.ToLower(o.driver)
	}
	if o.dsn != "" {
		cfg.DSN = o.dsn
	}
	return cfg, nil
}

// factoryOptions routes query diagnostics to the log when a log file is
// configured, to the console otherwise.
func (o *globalOptions) factoryOptions(out io.Writer) []database.FactoryOption {
	if !o.queryLog {
		return nil
	}
	if o.logFile != "" {
		return []database.FactoryOption{database.WithDiagnosticSink(database.LoggerSink(database.GetLogger()))}
	}
	return []database.FactoryOption{database.WithDiagnosticSink(database.ConsoleSink(out))}
}

func (o *globalOptions) openFactory(ctx context.Context, out io.Writer) (*database.ContextFactory, error) {
	cfg, err := o.connectionConfig()
	if err != nil {
		return nil, err
	}
	return database.NewContextFactory(ctx, cfg, o.factoryOptions(out)...)
}
