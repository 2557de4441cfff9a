package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every conversation, index entry and profile",
	Long: `Delete every key held by the configured store. Intended for test
environments; requires --force.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "confirm the reset")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		return errors.New("refusing to reset without --force")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.store.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset store: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "store cleared")
	return nil
}
