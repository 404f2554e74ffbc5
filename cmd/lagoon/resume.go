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
	resumeConfigPath string
	resumeFromPath   string
	resumeOutDir     string
	resumeMaxSteps   int
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a run from a column-format snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := config.Load(resumeConfigPath)
		if err != nil {
			logrus.Fatalf("config: %v", err)
		}

		box, store, startTime, err := loadColumnSnapshot(p, resumeFromPath)
		if err != nil {
			logrus.Fatalf("resume snapshot: %v", err)
		}

		d, err := sim.New(p, box, store)
		if err != nil {
			logrus.Fatalf("driver setup: %v", err)
		}
		d.Resume(startTime, 0)

		logrus.WithFields(logrus.Fields{
			"from": resumeFromPath, "t0": startTime, "nhydro": len(store.Particles),
		}).Info("resuming run")

		if err := d.Run(resumeMaxSteps, resumeOutDir); err != nil {
			logrus.Fatalf("run: %v", err)
		}
		logrus.Info("run complete")
	},
}

func init() {
	resumeCmd.Flags().StringVar(&resumeConfigPath, "config", "", "path to the simulation configuration file (required)")
	resumeCmd.Flags().StringVar(&resumeFromPath, "from", "", "path to the snapshot to resume from (required)")
	resumeCmd.Flags().StringVar(&resumeOutDir, "out", ".", "directory to write snapshot files into")
	resumeCmd.Flags().IntVar(&resumeMaxSteps, "max-steps", 0, "stop after this many sub-steps (0 = run until tend)")
	resumeCmd.MarkFlagRequired("config")
	resumeCmd.MarkFlagRequired("from")
}
