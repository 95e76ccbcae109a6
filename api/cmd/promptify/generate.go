package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"promptify/api/internal/generate"
)

func generateCmd() *cobra.Command {
	var req generate.Request
	cmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Run one generation and print the JSON result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			req.UserText = strings.Join(args, " ")
			res, err := a.gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Action, "action", "a", "prompt", "prompt, explain, summarize, example, add-context or compare")
	f.StringVar(&req.Context, "context", "", "background context for direct actions")
	f.StringVar(&req.Text1, "text1", "", "first text for compare")
	f.StringVar(&req.Text2, "text2", "", "second text for compare")
	f.StringVarP(&req.Provider, "llm", "l", "", "llm provider (default from LLM_PROVIDER)")
	return cmd
}
