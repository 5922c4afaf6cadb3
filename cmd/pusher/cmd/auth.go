package cmd

import (
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth <socket-id> <channel>",
	Short: "Sign a private, presence or encrypted channel subscription",
	Args:  cobra.ExactArgs(2),
	RunE:  runAuth,
}

var authUserCmd = &cobra.Command{
	Use:   "auth-user <socket-id> <user-json>",
	Short: "Sign a user sign-in; user-json must contain an id",
	Args:  cobra.ExactArgs(2),
	RunE:  runAuthUser,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().String("presence-data", "", `presence member JSON, e.g. {"user_id":"1","user_info":{}}`)

	rootCmd.AddCommand(authUserCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	raw, _ := cmd.Flags().GetString("presence-data")
	if _, err := parseJSONFlag("presence-data", raw); err != nil {
		return err
	}

	// channel_data is signed byte for byte as given.
	var data any
	if raw != "" {
		data = raw
	}
	token, err := client.Authenticate(args[1], args[0], data)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), token)
}

func runAuthUser(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	user, err := parseJSONFlag("user-json", args[1])
	if err != nil {
		return err
	}
	token, err := client.AuthenticateUser(args[0], user)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), token)
}
