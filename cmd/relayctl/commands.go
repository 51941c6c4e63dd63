package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"multi-agent-collaboration/internal/agent"
	"multi-agent-collaboration/internal/connection"
)

func newProcessCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "process <prompt>",
		Short: "Run the agent pipeline for a prompt and wait for it to finish",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.resolve()
			if err != nil {
				return err
			}

			res, err := c.Process(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if res.Status != "success" {
				return fmt.Errorf("process failed: %s", res.Message)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (session %s, state %s)\n", res.Message, res.SessionID, res.State)
			return err
		},
	}
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the server has a language model provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.resolve()
			if err != nil {
				return err
			}

			st, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), st)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server: %s (%s)\n", c.server, st.Status)
			fmt.Fprintf(out, "client id: %s\n", c.clientID)
			fmt.Fprintf(out, "responder configured: %t\n", st.ResponderConfigured)
			fmt.Fprintf(out, "api key configured: %t\n", st.APIKeyConfigured)
			fmt.Fprintf(out, "archive enabled: %t\n", st.ArchiveEnabled)
			_, err = fmt.Fprintf(out, "channels: %d session(s), %d broadcast, %d private\n",
				st.Channels.Sessions, st.Channels.BroadcastChannels, st.Channels.PrivateChannels)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw status as JSON")
	return cmd
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the turn history of the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.resolve()
			if err != nil {
				return err
			}

			h, err := c.History(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), h)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session %s: %d turns, %d traces, %d internal messages\n",
				h.SessionID, len(h.Turns), len(h.Traces), len(h.InternalMessages))
			for _, t := range h.Turns {
				fmt.Fprintf(out, "[%s] %s: %s\n", time.UnixMilli(t.Timestamp).Format("15:04:05"), t.Role, t.Content)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full history as JSON")
	return cmd
}

func newWatchCmd(flags *rootFlags) *cobra.Command {
	var (
		agentID string
		count   int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream the frames of the session channel to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if agentID != "" {
				if _, err := agent.ParseID(agentID); err != nil {
					return err
				}
			}
			c, err := flags.resolve()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			seen := 0
			var writeErr error
			err = c.Watch(cmd.Context(), agentID, func(msg connection.Message) bool {
				if asJSON {
					writeErr = json.NewEncoder(out).Encode(msg)
				} else {
					_, writeErr = fmt.Fprintln(out, formatFrame(msg))
				}
				seen++
				return writeErr == nil && (count <= 0 || seen < count)
			})
			return errors.Join(err, writeErr)
		},
	}
	cmd.Flags().StringVar(&agentID, "agent", "", "watch one agent channel (task_manager, research, creative)")
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many frames (0 streams until interrupted)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print frames as JSON lines")
	return cmd
}

func newClearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <agent>",
		Short: "Clear the private history of one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := agent.ParseID(args[0])
			if err != nil {
				return err
			}
			c, err := flags.resolve()
			if err != nil {
				return err
			}

			if err := c.Clear(cmd.Context(), string(id)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s history cleared\n", id.Name())
			return err
		},
	}
}

// formatFrame renders one frame on a single line.
func formatFrame(msg connection.Message) string {
	switch msg.Type {
	case connection.TypeAgentTrace:
		return fmt.Sprintf("[trace] %s: %s", msg.Agent, msg.Content)
	case connection.TypeInternalComm:
		return fmt.Sprintf("[internal] %s -> %s: %s", msg.From, msg.To, msg.Content)
	case connection.TypeUserMessage:
		return fmt.Sprintf("[%s] %s", msg.Role, msg.Content)
	case connection.TypeDirectAgentMessage:
		return fmt.Sprintf("[direct] %s: %s", msg.AgentID, msg.Content)
	case connection.TypeHistoryCleared:
		return fmt.Sprintf("[cleared] %s", msg.AgentID)
	case connection.TypeError:
		return fmt.Sprintf("[error] %s", msg.Message)
	default:
		return fmt.Sprintf("[%s] %s", msg.Type, msg.Content)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
