// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpmech/lagoon/config"
)

var validateConfigPath string

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Parse and validate a configuration file without running",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := config.Load(validateConfigPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "invalid configuration: %v\n", err)
			if code, ok := exitCodeOf(err); ok {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				exitWith(code)
				return
			}
			exitWith(1)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: sim=%q ndim=%d sph=%q nhydro=%d\n", p.Sim, p.Ndim, p.SPH, p.Nhydro)
	},
}

func init() {
	validateConfigCmd.Flags().StringVar(&validateConfigPath, "config", "", "path to the simulation configuration file (required)")
	validateConfigCmd.MarkFlagRequired("config")
}
