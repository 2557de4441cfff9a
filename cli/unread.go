package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var unreadUser int64

var unreadCmd = &cobra.Command{
	Use:     "unread",
	Short:   "Print the unread message count of a user",
	Example: `  alumni-chat unread --user 42`,
	Args:    cobra.NoArgs,
	RunE:    runUnread,
}

func init() {
	unreadCmd.Flags().Int64VarP(&unreadUser, "user", "u", 0, "user id")
	_ = unreadCmd.MarkFlagRequired("user")
}

func runUnread(cmd *cobra.Command, args []string) error {
	if unreadUser <= 0 {
		return errors.New("--user must be a positive id")
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.Close()

	count, err := svc.indexer.GetUnreadCount(cmd.Context(), unreadUser)
	if err != nil {
		return fmt.Errorf("count unread: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), count)
	return nil
}
