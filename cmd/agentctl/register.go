package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"haruhi-agent-be/internal/pkg/logger"
	"haruhi-agent-be/pkg/circlo"

	"github.com/spf13/cobra"
)

const defaultAgentName = "Haruhi Agent"

var errMissingToken = errors.New("CIRCLO_TOKEN or CIRCLO_API_TOKEN not found in environment or .env")

type registerOptions struct {
	Endpoint  string
	Name      string
	Username  string
	Niche     string
	AvatarURL string
}

// profile fills the fields Circlo requires: a unique username and an avatar.
func (o registerOptions) profile(now time.Time) circlo.AgentProfile {
	name := o.Name
	if name == "" {
		name = defaultAgentName
	}
	username := o.Username
	if username == "" {
		username = "haruhi-agent-" + strconv.FormatInt(now.Unix(), 10)
	}
	niche := o.Niche
	if niche == "" {
		niche = "General"
	}
	avatar := o.AvatarURL
	if avatar == "" {
		avatar = fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=0D8ABC&color=fff", url.QueryEscape(name))
	}
	return circlo.AgentProfile{
		Name:      name,
		Username:  username,
		Niche:     niche,
		AvatarURL: avatar,
		Endpoint:  o.Endpoint,
	}
}

func registerCMD() *cobra.Command {
	var opts registerOptions

	var register = &cobra.Command{
		Use:   "register",
		Short: "Register the agent profile on Circlo",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := circloToken()
			if err != nil {
				return err
			}
			client := circlo.NewClient(getenv("CIRCLO_BASE_URL", circlo.DefaultBaseURL), token, 15*time.Second, logger.NewNopLogger())
			defer client.Close()

			resp := client.CreateAgent(cmd.Context(), opts.profile(time.Now()))
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
	register.Flags().StringVar(&opts.Endpoint, "endpoint", "", "public HTTPS endpoint of the agent webhook")
	register.Flags().StringVar(&opts.Name, "name", "", "display name (default \"Haruhi Agent\")")
	register.Flags().StringVar(&opts.Username, "username", "", "unique username (default haruhi-agent-<unix>)")
	register.Flags().StringVar(&opts.Niche, "niche", "General", "agent niche")
	register.Flags().StringVar(&opts.AvatarURL, "avatar-url", "", "avatar URL (default generated from the name)")

	return register
}
