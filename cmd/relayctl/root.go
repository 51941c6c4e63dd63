package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	server      string
	clientID    string
	profilePath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "relayctl",
		Short:         "Operate a multi-agent collaboration server",
		Long:          "relayctl sends prompts to a collaboration server, streams the agent frames of a session and inspects or clears session state. The server URL and client id are kept in a TOML profile.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&flags.server, "server", "", "server base URL (default from profile, then "+defaultServer+")")
	rootCmd.PersistentFlags().StringVar(&flags.clientID, "client-id", "", "client id of the session (default from profile, generated on first use)")
	rootCmd.PersistentFlags().StringVar(&flags.profilePath, "profile", "", "profile file (default ~/.config/relayctl/profile.toml)")

	rootCmd.AddCommand(
		newProcessCmd(flags),
		newStatusCmd(flags),
		newHistoryCmd(flags),
		newWatchCmd(flags),
		newClearCmd(flags),
	)

	return rootCmd
}

// resolve loads the profile and applies flag overrides. A generated client id
// is persisted so later invocations join the same session; flag overrides are not.
func (f *rootFlags) resolve() (*client, error) {
	path := f.profilePath
	if path == "" {
		p, err := defaultProfilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	prof, err := loadProfile(path)
	if err != nil {
		return nil, err
	}

	if prof.ClientID == "" && f.clientID == "" {
		prof.ClientID = newClientID()
		if err := saveProfile(path, prof); err != nil {
			return nil, err
		}
	}

	if f.server != "" {
		prof.Server = f.server
	}
	if f.clientID != "" {
		prof.ClientID = f.clientID
	}

	return newClient(prof.Server, prof.ClientID), nil
}
