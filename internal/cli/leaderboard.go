package cli

import (
	"github.com/spf13/cobra"
)

func newLeaderboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show team standings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard
			if err := a.client.Get(cmd.Context(), "/api/v1/leaderboard", &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}

func newStreamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "streams",
		Short: "Show the featured live streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StreamList
			if err := a.client.Get(cmd.Context(), "/api/v1/streams", &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}
