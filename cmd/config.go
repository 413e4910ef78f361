package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		shown.Gemini.Key = redact(shown.Gemini.Key)
		shown.Anthropic.Key = redact(shown.Anthropic.Key)
		shown.Salesforce.Password = redact(shown.Salesforce.Password)
		shown.Salesforce.ClientSecret = redact(shown.Salesforce.ClientSecret)
		shown.Store.DatabaseURL = redact(shown.Store.DatabaseURL)

		out, err := yaml.Marshal(shown)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		fmt.Print(string(out))
		return nil
	},
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "<redacted>"
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
