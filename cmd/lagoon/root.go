// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package main is the lagoon command-line entry point: cobra command
// tree wiring config.Load into sim.Driver, the way inference-sim wires
// its engine into a cobra root command.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "lagoon",
	Short: "Lagrangian SPH/MFV hydrodynamics and self-gravity simulator",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := exitCodeOf(err); ok {
			os.Exit(exitErr)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	cobra.OnInitialize(func() {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level %q: %v", logLevel, err)
		}
		logrus.SetLevel(level)
	})

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(validateConfigCmd)
}
