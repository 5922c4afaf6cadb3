package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/pusher-rest/internal/core/db"
	"github.com/solatis/pusher-rest/internal/core/server"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Verify and receive Pusher webhooks",
}

var webhookVerifyCmd = &cobra.Command{
	Use:   "verify [file]",
	Short: "Check a webhook body (stdin when no file) against its key and signature",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWebhookVerify,
}

var webhookServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an HTTP receiver that validates and stores webhooks",
	Args:  cobra.NoArgs,
	RunE:  runWebhookServe,
}

var webhookEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List stored webhook events, newest first",
	Args:  cobra.NoArgs,
	RunE:  runWebhookEvents,
}

var webhookPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored webhook events older than --older-than",
	Args:  cobra.NoArgs,
	RunE:  runWebhookPrune,
}

func init() {
	rootCmd.AddCommand(webhookCmd)

	webhookCmd.AddCommand(webhookVerifyCmd)
	webhookVerifyCmd.Flags().String("key", "", "value of the X-Pusher-Key header")
	webhookVerifyCmd.Flags().String("signature", "", "value of the X-Pusher-Signature header")
	webhookVerifyCmd.MarkFlagRequired("key")
	webhookVerifyCmd.MarkFlagRequired("signature")

	webhookCmd.AddCommand(webhookServeCmd)
	webhookServeCmd.Flags().String("host", "0.0.0.0", "listen host")
	webhookServeCmd.Flags().Int("port", 8080, "listen port")
	webhookServeCmd.Flags().String("path", "/pusher/webhooks", "webhook route")

	webhookCmd.AddCommand(webhookEventsCmd)
	webhookEventsCmd.Flags().String("channel", "", "only events for this channel")
	webhookEventsCmd.Flags().Int("limit", db.DefaultListLimit, "maximum events to list")

	webhookCmd.AddCommand(webhookPruneCmd)
	webhookPruneCmd.Flags().Duration("older-than", 7*24*time.Hour, "retention window")
}

func runWebhookVerify(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open webhook body: %w", err)
		}
		defer f.Close()
		in = f
	}
	body, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read webhook body: %w", err)
	}

	client, _, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	key, _ := cmd.Flags().GetString("key")
	signature, _ := cmd.Flags().GetString("signature")

	hook, ok := client.ValidateWebhook(key, signature, body)
	if !ok {
		return fmt.Errorf("webhook is not valid")
	}
	return printJSON(cmd.OutOrStdout(), hook)
}

func openStore(ctx context.Context, logger *zap.Logger) (*db.WebhookStore, func(), error) {
	if dbURL == "" {
		return nil, func() {}, nil
	}
	database, err := db.Open(ctx, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.MigrateUp(ctx, database); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	store, err := db.NewWebhookStore(database)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to load queries: %w", err)
	}
	logger.Info("recording webhooks", zap.String("driver", database.DriverName()))
	return store, func() { database.Close() }, nil
}

func runWebhookServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, cfg, logger, err := loadClient()
	if err != nil {
		return err
	}
	defer logger.Sync()

	serverCfg := cfg.Webhook
	if cmd.Flags().Changed("host") {
		serverCfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		serverCfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("path") {
		serverCfg.Path, _ = cmd.Flags().GetString("path")
	}

	store, closeStore, err := openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var recorder server.WebhookRecorder
	if store != nil {
		recorder = store
	}

	srv, err := server.NewWebhookServer(serverCfg, client, recorder, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	}
}

func requireStore(cmd *cobra.Command) (*db.WebhookStore, func(), *zap.Logger, error) {
	if dbURL == "" {
		return nil, nil, nil, fmt.Errorf("--db-url required")
	}
	logger, err := newLogger(logLevel, logFormat)
	if err != nil {
		return nil, nil, nil, err
	}
	store, closeStore, err := openStore(cmd.Context(), logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return store, closeStore, logger, nil
}

func runWebhookEvents(cmd *cobra.Command, args []string) error {
	store, closeStore, logger, err := requireStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()
	defer logger.Sync()

	channel, _ := cmd.Flags().GetString("channel")
	limit, _ := cmd.Flags().GetInt("limit")

	events, err := store.List(cmd.Context(), channel, limit)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), events)
}

func runWebhookPrune(cmd *cobra.Command, args []string) error {
	store, closeStore, logger, err := requireStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore()
	defer logger.Sync()

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	deleted, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	logger.Info("pruned webhook events", zap.Int64("deleted", deleted))
	return nil
}
