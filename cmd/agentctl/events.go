package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"haruhi-agent-be/pkg/events"
	pktNats "haruhi-agent-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func eventsCMD() *cobra.Command {
	var natsURL string
	var durable string
	var types []string

	var tail = &cobra.Command{
		Use:   "events",
		Short: "Tail executed plans and bookings from NATS",
		RunE: func(cmd *cobra.Command, args []string) error {
			if natsURL == "" {
				return fmt.Errorf("NATS_URL is not set, pass --nats-url")
			}
			sub, err := pktNats.NewSubscriber(natsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			for _, t := range types {
				eventType := strings.ToUpper(strings.TrimSpace(t))
				name := durable + "-" + strings.ToLower(strings.ReplaceAll(eventType, "_", "-"))
				err := sub.Subscribe(ctx, eventType, name, func(_ context.Context, e events.Event) error {
					payload, err := json.Marshal(e.Payload())
					if err != nil {
						return err
					}
					color.New(color.FgCyan).Fprintf(out, "[%s] %s ", e.Timestamp().Format(time.RFC3339), e.EventType())
					fmt.Fprintln(out, string(payload))
					return nil
				})
				if err != nil {
					return err
				}
			}

			color.New(color.FgYellow).Fprintf(out, "Listening on %s (Ctrl+C to stop)\n", natsURL)
			<-ctx.Done()
			return nil
		},
	}
	tail.Flags().StringVar(&natsURL, "nats-url", getenv("NATS_URL", ""), "NATS server URL")
	tail.Flags().StringVar(&durable, "durable", "agentctl", "durable consumer name prefix")
	tail.Flags().StringSliceVar(&types, "type", []string{events.TypePlanExecuted, events.TypeItineraryBooked, events.TypeCalendarEvent}, "event types to follow")

	return tail
}
