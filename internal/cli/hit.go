package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hit",
		Short: "Hit ledger commands",
	}

	cmd.AddCommand(newHitRecordCmd(a))
	cmd.AddCommand(newHitListCmd(a))

	return cmd
}

func newHitRecordCmd(a *app) *cobra.Command {
	var hitterID, targetID int64
	var hitter, target string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record that one player hit another",
		Long: `Record a hit. Each side is given by id (--hitter-id, --target-id) or by
username (--hitter, --target).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			switch {
			case hitterID > 0:
				req["hitter_id"] = hitterID
			case hitter != "":
				req["hitter_username"] = hitter
			default:
				return fmt.Errorf("--hitter-id or --hitter is required")
			}
			switch {
			case targetID > 0:
				req["target_id"] = targetID
			case target != "":
				req["target_username"] = target
			default:
				return fmt.Errorf("--target-id or --target is required")
			}

			var result Hit
			if err := a.client.Post(cmd.Context(), "/api/v1/hits", req, &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&hitterID, "hitter-id", 0, "Hitter player id")
	cmd.Flags().Int64Var(&targetID, "target-id", 0, "Target player id")
	cmd.Flags().StringVar(&hitter, "hitter", "", "Hitter username")
	cmd.Flags().StringVar(&target, "target", "", "Target username")
	cmd.MarkFlagsMutuallyExclusive("hitter-id", "hitter")
	cmd.MarkFlagsMutuallyExclusive("target-id", "target")

	return cmd
}

func newHitListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every recorded hit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HitList
			if err := a.client.Get(cmd.Context(), "/api/v1/hits", &result); err != nil {
				return err
			}
			a.out.Print(result)
			return nil
		},
	}
}
