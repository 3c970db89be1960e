package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlayerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd(a))
	cmd.AddCommand(newPlayerGetCmd(a))
	cmd.AddCommand(newPlayerListCmd(a))
	cmd.AddCommand(newPlayerHitsCmd(a))

	return cmd
}

func newPlayerRegisterCmd(a *app) *cobra.Command {
	var user, team, streamURL string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a player, or move an existing one to another team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"username": user,
				"team":     team,
			}
			if streamURL != "" {
				req["stream_url"] = streamURL
			}

			var result Player
			if err := a.client.Post(cmd.Context(), "/api/v1/players", req, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&team, "team", "", "Team: yellow or green (required)")
	cmd.Flags().StringVar(&streamURL, "stream-url", "", "Camera stream endpoint")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}

func newPlayerGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			var result Player
			if err := a.client.Get(cmd.Context(), fmt.Sprintf("/api/v1/players/%d", id), &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}

func newPlayerListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList
			if err := a.client.Get(cmd.Context(), "/api/v1/players", &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}

func newPlayerHitsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hits <id>",
		Short: "Show hits given and received by a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			var result PlayerHits
			if err := a.client.Get(cmd.Context(), fmt.Sprintf("/api/v1/players/%d/hits", id), &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}

func parsePlayerID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid player id %q", s)
	}
	return id, nil
}
