// Copyright 2025 The Measurable Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// measurable runs distribution scenarios: it builds exact probability
// measures from declarative YAML, samples them, and reports the integrated
// and streamed statistics side by side.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version number, e.g. 1.0.1. Set at build time.
	Version = "dev"
	// Build is the build date. Set at build time.
	Build string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "measurable",
	Short: "Exact and sampled statistics for composable probability measures",
	Long: `measurable treats distributions as integration functionals: statistics are
integrals of test functions, and distributions compose by composing their
integrators. The run subcommand realises a scenario both ways, exactly by
integration and approximately by sampling, and reports the two side by side.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Usage()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the measurable version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("measurable " + Version)
		if Build != "" {
			fmt.Println("build time:", Build)
		}
	},
}

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Print detailed execution info")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
