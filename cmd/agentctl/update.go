package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/pkg/circlo"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var errNothingToUpdate = errors.New("no fields to update, provide --name, --niche or --avatar-url")

type updateOptions struct {
	ID        string
	Name      string
	Niche     string
	AvatarURL string
}

// fields keeps only the flags that were given so the PATCH leaves the rest untouched.
func (o updateOptions) fields() (map[string]string, error) {
	fields := make(map[string]string)
	if o.Name != "" {
		fields["name"] = o.Name
	}
	if o.Niche != "" {
		fields["niche"] = o.Niche
	}
	if o.AvatarURL != "" {
		fields["avatar_url"] = o.AvatarURL
	}
	if len(fields) == 0 {
		return nil, errNothingToUpdate
	}
	return fields, nil
}

func updateCMD() *cobra.Command {
	var opts updateOptions

	var update = &cobra.Command{
		Use:   "update",
		Short: "Update an existing agent profile on Circlo",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := opts.fields()
			if err != nil {
				return err
			}
			token, err := circloToken()
			if err != nil {
				return err
			}
			client := circlo.NewClient(getenv("CIRCLO_BASE_URL", circlo.DefaultBaseURL), token, 15*time.Second, logger.NewNopLogger())
			defer client.Close()

			resp := client.UpdateAgent(cmd.Context(), opts.ID, fields)
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
	update.Flags().StringVar(&opts.ID, "id", "", "agent id to update")
	update.Flags().StringVar(&opts.Name, "name", "", "new display name")
	update.Flags().StringVar(&opts.Niche, "niche", "", "new niche")
	update.Flags().StringVar(&opts.AvatarURL, "avatar-url", "", "new avatar URL")
	_ = update.MarkFlagRequired("id")

	return update
}

func printResponse(w io.Writer, resp circlo.Response) error {
	status := color.New(color.FgGreen)
	body := resp.Data
	if !resp.OK() {
		status = color.New(color.FgRed)
		body = resp.Error
	}
	status.Fprintf(w, "Status: %d\n", resp.StatusCode)

	out, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		fmt.Fprintln(w, body)
	} else {
		fmt.Fprintln(w, string(out))
	}

	if !resp.OK() {
		return fmt.Errorf("circlo returned %d", resp.StatusCode)
	}
	return nil
}
