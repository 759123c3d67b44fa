package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/intake/internal/config"
	"github.com/alfredjeanlab/intake/internal/events"
	"github.com/alfredjeanlab/intake/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [topic]",
	Short: "Stream record lifecycle events from NATS",
	Long: `Stream record lifecycle events from NATS as they happen.

The topic defaults to "intake.>" (everything); NATS wildcards are accepted,
e.g. "intake.record.*" or "intake.collection.cleared".`,
	Args: cobra.MaximumNArgs(1),
	// Watching needs the event broker, not local stores.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		var err error
		cfg, err = config.Load()
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.NATSURL == "" {
			return fmt.Errorf("watch needs a broker; set INTAKE_NATS_URL")
		}
		topic := "intake.>"
		if len(args) == 1 {
			topic = args[0]
		}

		sub, err := events.NewNATSSubscriber(cfg.NATSURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", topic, err)
		}
		defer cancel()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(os.Stderr, "Watching %s (ctrl-c to stop)\n", topic)
		for {
			select {
			case <-ctx.Done():
				return nil
			case raw, ok := <-ch:
				if !ok {
					return nil
				}
				if jsonOutput {
					fmt.Println(string(raw))
					continue
				}
				line, err := formatEventLine(raw)
				if err != nil {
					log.Printf("skipping malformed event: %v", err)
					continue
				}
				fmt.Println(line)
			}
		}
	},
}

// formatEventLine renders one received envelope as a single table-ish line:
// local time, topic, collection, and the record's reference number when the
// payload carries one.
func formatEventLine(raw []byte) (string, error) {
	var env events.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", err
	}

	line := fmt.Sprintf("%s  %-26s", env.Timestamp.Local().Format("15:04:05"), env.Topic)

	data, _ := env.Data.(map[string]any)
	if collection, ok := data["collection"].(string); ok {
		line += "  " + collection
	}
	if record, ok := data["record"].(map[string]any); ok {
		if id, ok := record["id"].(string); ok {
			line += "  " + ui.RenderRef(id)
		}
	}
	return line, nil
}
