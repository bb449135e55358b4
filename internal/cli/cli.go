package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	internal_http "github.com/brandops/automation/internal/http"
	"github.com/brandops/automation/internal/log"
	"github.com/brandops/automation/internal/notify"
	internal_storage "github.com/brandops/automation/internal/storage"
	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/service"
)

func SetupCLI(rootCmd *cobra.Command) {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all automation rules",
		Run: func(cmd *cobra.Command, args []string) {
			svc, closeFn := initService(cmd)
			defer closeFn()
			listRules(svc)
		},
	}

	createCmd := &cobra.Command{
		Use:   "create [rule.json]",
		Short: "Create an automation rule from a JSON file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, closeFn := initService(cmd)
			defer closeFn()
			createRule(svc, args[0])
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [rule-id]",
		Short: "Run one rule immediately, bypassing its trigger",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			svc, closeFn := initService(cmd)
			defer closeFn()
			if err := svc.RunRule(context.Background(), args[0]); err != nil {
				log.GetLogger().Errorf("Failed to run rule: %v", err)
				fmt.Fprintf(os.Stderr, "Error: failed to run rule: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stdout, "Executed rule %s\n", args[0])
		},
	}

	publishCmd := &cobra.Command{
		Use:   "publish [event-name]",
		Short: "Publish a domain event to the engine",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			payloadJSON, _ := cmd.Flags().GetString("payload")
			brandID, _ := cmd.Flags().GetString("brand")
			svc, closeFn := initService(cmd)
			defer closeFn()
			publishEvent(svc, args[0], payloadJSON, brandID)
		},
	}
	publishCmd.Flags().String("payload", "", "Event payload as JSON")
	publishCmd.Flags().String("brand", "", "Brand scope for the event")

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one scheduler tick (intended for an external cron)",
		Run: func(cmd *cobra.Command, args []string) {
			svc, closeFn := initService(cmd)
			defer closeFn()
			if err := svc.RunScheduled(context.Background(), time.Now()); err != nil {
				log.GetLogger().Errorf("Scheduler tick failed: %v", err)
				fmt.Fprintf(os.Stderr, "Error: scheduler tick failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintln(os.Stdout, "Scheduler tick completed")
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the automation HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			port, _ := cmd.Flags().GetString("port")
			svc, closeFn := initService(cmd)
			defer closeFn()
			server := internal_http.NewServer(svc)
			if err := server.Start(port); err != nil {
				log.GetLogger().Errorf("Server failed: %v", err)
				os.Exit(1)
			}
		},
	}
	serveCmd.Flags().String("port", "8080", "Port to listen on")

	rootCmd.AddCommand(listCmd, createCmd, runCmd, publishCmd, tickCmd, serveCmd)
}

func listRules(svc *service.AutomationService) {
	rules, err := svc.ListRules()
	if err != nil {
		log.GetLogger().Errorf("Failed to list rules: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to list rules: %v\n", err)
		os.Exit(1)
	}
	if len(rules) == 0 {
		fmt.Fprintf(os.Stdout, "No rules found.\n")
		return
	}
	fmt.Fprintf(os.Stdout, "Rules:\n")
	for _, r := range rules {
		status := "never run"
		if r.LastRunStatus != nil {
			status = string(*r.LastRunStatus)
		}
		fmt.Fprintf(os.Stdout, "- ID: %s, Name: %s, Trigger: %s, Enabled: %t, Last run: %s\n",
			r.ID, r.Name, r.TriggerType, r.Enabled, status)
	}
}

func createRule(svc *service.AutomationService, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to read %s: %v\n", path, err)
		os.Exit(1)
	}
	var rule models.Rule
	if err := json.Unmarshal(data, &rule); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid rule JSON: %v\n", err)
		os.Exit(1)
	}
	created, err := svc.CreateRule(rule)
	if err != nil {
		log.GetLogger().Errorf("Failed to create rule: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to create rule: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Created rule '%s' with ID %s\n", created.Name, created.ID)
}

func publishEvent(svc *service.AutomationService, name, payloadJSON, brandID string) {
	event := models.Event{Name: name}
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &event.Payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid payload JSON: %v\n", err)
			os.Exit(1)
		}
	}
	if brandID != "" {
		event.Context.BrandID = &brandID
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		log.GetLogger().Errorf("Failed to publish event: %v", err)
		fmt.Fprintf(os.Stderr, "Error: failed to publish event: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Published event '%s'\n", name)
}

func initService(cmd *cobra.Command) (*service.AutomationService, func()) {
	dbConnStr, err := cmd.Flags().GetString("db")
	if err != nil {
		log.GetLogger().Errorf("Error retrieving db flag: %v", err)
		os.Exit(1)
	}
	store, err := internal_storage.InitStore(dbConnStr)
	if err != nil {
		log.GetLogger().Errorf("Failed to initialize store: %v", err)
		os.Exit(1)
	}

	var notifier service.Notifier = notify.LogNotifier{}
	if endpoint := os.Getenv("NOTIFY_URL"); endpoint != "" {
		notifier = notify.NewHTTPNotifier(endpoint)
	}

	logger := log.GetLogger()
	runner := service.NewActionRunner(notifier, logger)
	cache := service.NewInMemoryRuleCache(service.DefaultCacheConfig())
	svc := service.NewAutomationService(store, cache, runner, logger)
	return svc, func() {
		if err := store.Close(); err != nil {
			logger.Errorf("Failed to close store: %v", err)
		}
	}
}
