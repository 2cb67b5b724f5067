package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/auth"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage member accounts",
}

var memberAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a member without going through the web form",
	Example: `  taskboard member add --username ana --password s3cret`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		cfg, _, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		credentials, err := auth.NewCredentials(store, cfg.BcryptCost)
		if err != nil {
			return err
		}
		member, err := credentials.Register(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created member %q (id %d)\n", member.Username, member.ID)
		return nil
	},
}

var memberPasswordCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change a member's password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		current, _ := cmd.Flags().GetString("current")
		next, _ := cmd.Flags().GetString("new")

		cfg, _, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		credentials, err := auth.NewCredentials(store, cfg.BcryptCost)
		if err != nil {
			return err
		}
		member, err := credentials.Lookup(cmd.Context(), username)
		if err != nil {
			return err
		}
		if err := credentials.ChangePassword(cmd.Context(), member.ID, current, next); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Password changed for %q\n", member.Username)
		return nil
	},
}

func init() {
	memberAddCmd.Flags().String("username", "", "login name")
	memberAddCmd.Flags().String("password", "", "initial password")
	_ = memberAddCmd.MarkFlagRequired("username")
	_ = memberAddCmd.MarkFlagRequired("password")

	memberPasswordCmd.Flags().String("username", "", "login name")
	memberPasswordCmd.Flags().String("current", "", "current password")
	memberPasswordCmd.Flags().String("new", "", "new password")
	_ = memberPasswordCmd.MarkFlagRequired("username")
	_ = memberPasswordCmd.MarkFlagRequired("current")
	_ = memberPasswordCmd.MarkFlagRequired("new")

	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberPasswordCmd)
}
