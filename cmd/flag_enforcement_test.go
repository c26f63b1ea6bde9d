/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"testing"

	"github.com/spf13/viper"
)

func TestEmailRequiresFrom(t *testing.T) {
	t.Cleanup(func() { viper.Set("from", "") })

	for _, c := range []struct {
		name string
		run  func() error
	}{
		{"email", func() error { return emailCmd.PreRunE(emailCmd, []string{"a@example.com", "top-artists"}) }},
		{"send-reports", func() error { return sendReportsCmd.PreRunE(sendReportsCmd, nil) }},
	} {
		viper.Set("from", "")
		err := c.run()
		if err == nil {
			t.Errorf("%s: expected error when from is missing, got nil", c.name)
		} else if err.Error() != "required flag(s) \"from\" not set" {
			t.Errorf("%s: expected 'required flag(s) \"from\" not set', got %v", c.name, err)
		}

		viper.Set("from", "reports@example.com")
		if err := c.run(); err != nil {
			t.Errorf("%s: expected nil when from is set, got %v", c.name, err)
		}
	}
}

func TestRootRejectsInvalidLogLevel(t *testing.T) {
	t.Cleanup(func() {
		viper.Set("log_level", "warn")
		rootCmd.PersistentPreRunE(rootCmd, nil)
	})

	viper.Set("log_level", "loud")
	if err := rootCmd.PersistentPreRunE(rootCmd, nil); err == nil {
		t.Error("Expected error for log_level \"loud\", got nil")
	}

	viper.Set("log_level", "debug")
	if err := rootCmd.PersistentPreRunE(rootCmd, nil); err != nil {
		t.Errorf("Expected nil for log_level \"debug\", got %v", err)
	}
}
