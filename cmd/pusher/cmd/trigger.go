package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	pusher "github.com/solatis/pusher-rest"
)

var triggerCmd = &cobra.Command{
	Use:   "trigger <event> <channel>...",
	Short: "Publish an event to one or more channels",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runTrigger,
}

var batchCmd = &cobra.Command{
	Use:   "batch [file]",
	Short: "Publish a batch of events read from a JSON array (stdin when no file)",
	Long: `Each element is {"channel": ..., "name": ..., "data": ..., "socket_id": ...}.
A string data value is sent verbatim; anything else is JSON-encoded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

var sendToUserCmd = &cobra.Command{
	Use:   "send-to-user <user-id> <event>",
	Short: "Publish an event to every connection of a user",
	Args:  cobra.ExactArgs(2),
	RunE:  runSendToUser,
}

func init() {
	rootCmd.AddCommand(triggerCmd)
	triggerCmd.Flags().String("data", "", "event payload, sent verbatim")
	triggerCmd.Flags().String("socket-id", "", "exclude this connection from delivery")

	rootCmd.AddCommand(batchCmd)

	rootCmd.AddCommand(sendToUserCmd)
	sendToUserCmd.Flags().String("data", "", "event payload, sent verbatim")
}

func runTrigger(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, _ := cmd.Flags().GetString("data")
	socketID, _ := cmd.Flags().GetString("socket-id")

	result, err := client.Trigger(cmd.Context(), pusher.Event{
		Name:     args[0],
		Channels: args[1:],
		Data:     data,
		SocketID: socketID,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

type batchRow struct {
	Channel  string          `json:"channel"`
	Name     string          `json:"name"`
	Data     json.RawMessage `json:"data"`
	SocketID string          `json:"socket_id"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var rows []batchRow
	if err := json.NewDecoder(in).Decode(&rows); err != nil {
		return fmt.Errorf("failed to parse batch: %w", err)
	}

	events := make([]pusher.BatchEvent, 0, len(rows))
	for _, row := range rows {
		ev := pusher.BatchEvent{Channel: row.Channel, Name: row.Name, SocketID: row.SocketID}
		var text string
		if err := json.Unmarshal(row.Data, &text); err == nil {
			ev.Data = text
		} else {
			ev.Data = []byte(row.Data)
		}
		events = append(events, ev)
	}

	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	result, err := client.TriggerBatch(cmd.Context(), events)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runSendToUser(cmd *cobra.Command, args []string) error {
	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, _ := cmd.Flags().GetString("data")
	return client.SendToUser(cmd.Context(), args[0], args[1], data)
}
