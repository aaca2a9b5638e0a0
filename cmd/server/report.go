package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"babylog/internal/report"
	"babylog/internal/rpc"
)

func reportCmd() *cobra.Command {
	var (
		addr    string
		userID  int64
		date    string
		history int
		status  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Query a running server for a user's report",
		Long: `Ask a running babylog server over grpc for one user's data.

Examples:
  babylog report --user 12345
  babylog report --user 12345 --date 2025-03-02
  babylog report --user 12345 --history 7
  babylog report --user 12345 --status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("dial %s: %w", addr, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			c := rpc.NewClient(conn, userID)
			var out *structpb.Struct
			switch {
			case status:
				out, err = c.Status(ctx)
			case cmd.Flags().Changed("history"):
				out, err = c.History(ctx, history)
			default:
				out, err = c.DailyReport(ctx, date)
			}
			if err != nil {
				return err
			}

			b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "grpc server address")
	cmd.Flags().Int64Var(&userID, "user", 0, "user id to report on")
	cmd.Flags().StringVar(&date, "date", "", "report date YYYY-MM-DD (default: today in the user's timezone)")
	cmd.Flags().IntVar(&history, "history", report.HistoryDays, "show the last N days instead of one day")
	cmd.Flags().BoolVar(&status, "status", false, "show whether the baby is asleep")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
