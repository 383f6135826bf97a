package cmd

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/mysh/core/shell"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

type parseResult struct {
	Tokens []shell.Token `json:"tokens"`
	Line   *shell.Line   `json:"line"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [--] LINE...",
	Short: "Show how a line is tokenized and parsed without running it.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadShellConfig(cmd)
		if err != nil {
			return err
		}

		input := configuration.Limits.TruncateLine(strings.Join(args, " "))
		tokens, err := shell.Tokenize(input)
		if err != nil {
			return err
		}

		line, err := shell.NewParser(configuration.Limits.Parser()).Parse(tokens)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(parseResult{Tokens: tokens, Line: line})
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
