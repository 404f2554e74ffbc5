// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/cpmech/lagoon/simerr"
)

func TestRootCmd_Subcommands_AreRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"], "run subcommand must be registered")
	assert.True(t, names["resume"], "resume subcommand must be registered")
	assert.True(t, names["validate-config"], "validate-config subcommand must be registered")
}

func TestRunCmd_ConfigFlag_IsRequired(t *testing.T) {
	flag := runCmd.Flags().Lookup("config")
	assert.NotNil(t, flag, "config flag must be registered")
	assert.Equal(t, "", flag.DefValue, "config has no sensible default, must be supplied")
	assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], "config flag must be marked required")
}

func TestResumeCmd_FromFlag_IsRequired(t *testing.T) {
	flag := resumeCmd.Flags().Lookup("from")
	assert.NotNil(t, flag, "from flag must be registered")
	assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], "from flag must be marked required")
}

func TestExitCodeOf_MapsConfigErrorToOne(t *testing.T) {
	err := simerr.New(simerr.ConfigError, 0, "bad key")
	code, ok := exitCodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
}
