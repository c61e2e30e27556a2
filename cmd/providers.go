package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careops/bookd/config"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Provider related commands",
}

var providersLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured providers",
	RunE:  runProvidersLs,
}

func init() {
	providersCmd.AddCommand(providersLsCmd)
	rootCmd.AddCommand(providersCmd)
}

func runProvidersLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	providers, _, err := cfg.Roster()
	if err != nil {
		return err
	}
	for _, p := range providers {
		if p.Sink {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tsink\n", p.Name)
			continue
		}
		cats := make([]string, len(p.Categories))
		for i, c := range p.Categories {
			cats[i] = string(c)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\tcapacity=%d\tcategories=%s\n", p.Name, p.Capacity, strings.Join(cats, ","))
	}
	return nil
}
