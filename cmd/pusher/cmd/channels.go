package cmd

import (
	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List occupied channels",
	Args:  cobra.NoArgs,
	RunE:  runChannels,
}

var channelCmd = &cobra.Command{
	Use:   "channel <name>",
	Short: "Show the state of one channel",
	Args:  cobra.ExactArgs(1),
	RunE:  runChannel,
}

var usersCmd = &cobra.Command{
	Use:   "users <presence-channel>",
	Short: "List users subscribed to a presence channel",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsers,
}

var terminateCmd = &cobra.Command{
	Use:   "terminate <user-id>",
	Short: "Close every connection of a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runTerminate,
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.Flags().String("prefix", "", "only channels whose name starts with this prefix")
	channelsCmd.Flags().StringSlice("info", nil, "attributes to include (user_count)")

	rootCmd.AddCommand(channelCmd)
	channelCmd.Flags().StringSlice("info", nil, "attributes to include (user_count, subscription_count)")

	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(terminateCmd)
}

func runChannels(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	prefix, _ := cmd.Flags().GetString("prefix")
	info, _ := cmd.Flags().GetStringSlice("info")

	list, err := client.ChannelsInfo(cmd.Context(), prefix, info)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), list)
}

func runChannel(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	info, _ := cmd.Flags().GetStringSlice("info")
	state, err := client.ChannelInfo(cmd.Context(), args[0], info)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), state)
}

func runUsers(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	users, err := client.UsersInfo(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), users)
}

func runTerminate(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := client.TerminateUserConnections(cmd.Context(), args[0]); err != nil {
		return err
	}
	logger.Info("terminated user connections")
	return nil
}
