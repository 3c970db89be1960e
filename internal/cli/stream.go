package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStreamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Player stream commands",
	}

	cmd.AddCommand(newStreamGetCmd(a))
	cmd.AddCommand(newStreamSetCmd(a))
	cmd.AddCommand(newStreamAssignCmd(a))
	cmd.AddCommand(newStreamStatusCmd(a))
	cmd.AddCommand(newStreamStopCmd(a))

	return cmd
}

func streamPath(arg string) (string, error) {
	id, err := parsePlayerID(arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/api/v1/players/%d/stream", id), nil
}

func newStreamGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <player-id>",
		Short: "Show a player's stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := streamPath(args[0])
			if err != nil {
				return err
			}

			var result StreamSlot
			if err := a.client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}

func newStreamSetCmd(a *app) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "set <player-id>",
		Short: "Set a player's stream endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := streamPath(args[0])
			if err != nil {
				return err
			}

			var result StreamSlot
			if err := a.client.Put(cmd.Context(), path, map[string]string{"stream_url": url}, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Stream endpoint (required)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newStreamAssignCmd(a *app) *cobra.Command {
	var user, url string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Set a stream endpoint by username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": user, "stream_url": url}

			var result StreamSlot
			if err := a.client.Post(cmd.Context(), "/api/v1/players/stream", req, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&url, "url", "", "Stream endpoint (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newStreamStatusCmd(a *app) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status <player-id> <status>",
		Short: "Report a camera transport status",
		Long: `Report a camera transport status for a player's stream.

Statuses: new, connecting, connected, disconnected, failed, closed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := streamPath(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{"status": args[1]}
			if reason != "" {
				req["error"] = reason
			}

			var result StreamSlot
			if err := a.client.Post(cmd.Context(), path+"/status", req, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "error", "", "Failure reason")

	return cmd
}

func newStreamStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <player-id>",
		Short: "Stop a player's stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := streamPath(args[0])
			if err != nil {
				return err
			}

			var result StreamSlot
			if err := a.client.Delete(cmd.Context(), path, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}
