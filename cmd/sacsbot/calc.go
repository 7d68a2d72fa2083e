package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/sacsbot/internal/calc"
	"github.com/example/sacsbot/internal/messages"
	"github.com/example/sacsbot/internal/types"
	"github.com/spf13/cobra"
)

func calcCmd() *cobra.Command {
	var (
		envFile string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "calc LINES BAGS",
		Short: "Compute the bag total once and exit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			c := calc.New(cfg.Limits())
			lines, err := parseArg(c, calc.FieldLines, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			bags, err := parseArg(c, calc.FieldBags, strings.TrimSpace(args[1]))
			if err != nil {
				return err
			}
			res, err := c.Calculate(lines, bags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(types.NewCalculateResponse(res))
			}
			_, err = fmt.Fprintln(out, messages.New(c.Limits()).Result(res))
			return err
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "path to .env file (default .env)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the breakdown as JSON")
	return cmd
}
