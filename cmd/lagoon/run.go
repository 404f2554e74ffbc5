// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpmech/lagoon/config"
	"github.com/cpmech/lagoon/sim"
)

var (
	runConfigPath string
	runOutDir     string
	runMaxSteps   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := config.Load(runConfigPath)
		if err != nil {
			logrus.Fatalf("config: %v", err)
		}

		box, store, err := loadInitialConditions(p)
		if err != nil {
			logrus.Fatalf("initial conditions: %v", err)
		}

		d, err := sim.New(p, box, store)
		if err != nil {
			logrus.Fatalf("driver setup: %v", err)
		}

		logrus.WithFields(logrus.Fields{
			"sim": p.Sim, "ndim": p.Ndim, "nhydro": len(store.Particles), "sph": p.SPH,
		}).Info("starting run")

		if err := d.Run(runMaxSteps, runOutDir); err != nil {
			logrus.Fatalf("run: %v", err)
		}
		logrus.Info("run complete")
	},
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to the simulation configuration file (required)")
	runCmd.Flags().StringVar(&runOutDir, "out", ".", "directory to write snapshot files into")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "stop after this many sub-steps (0 = run until tend)")
	runCmd.MarkFlagRequired("config")
}
