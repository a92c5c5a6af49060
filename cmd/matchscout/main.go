package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"matchscout/internal/bootstrap"
	"matchscout/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, dataDir string

	root := &cobra.Command{
		Use:           "matchscout",
		Short:         "Offline-first match scouting client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", ".matchscout", "local data directory")

	root.AddCommand(newTUICmd(&configPath, &dataDir))
	root.AddCommand(newResumeCmd(&configPath, &dataDir))
	root.AddCommand(newPendingCmd(&configPath, &dataDir))
	root.AddCommand(newPushCmd(&configPath, &dataDir))
	root.AddCommand(newClaimsCmd(&configPath, &dataDir))
	root.AddCommand(newSchemaCmd(&configPath, &dataDir))
	return root
}

func loadApp(configPath, dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath, dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the interactive scouting UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(app)
		},
	}
}

func newResumeCmd(configPath, dataDir *string) *cobra.Command {
	resume := &cobra.Command{Use: "resume", Short: "Inspect interrupted sessions"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions that survived an interruption",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			entries, err := app.SessionCLI.Resumable(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("no interrupted sessions")
				return nil
			}
			for _, entry := range entries {
				cmd.Printf("%s match %d team %d · %s · phase %s · %s\n",
					entry.MatchType, entry.MatchNumber, entry.TeamNumber,
					entry.Alliance, entry.Phase, entry.LastModified.Format("15:04:05"))
			}
			return nil
		},
	}

	discardCmd := &cobra.Command{
		Use:   "discard <matchType> <match> <team>",
		Short: "Delete an interrupted session and release its claim",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			match, team, err := parseSlot(args[1], args[2])
			if err != nil {
				return err
			}
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			app.Refresh(cmd.Context())
			return app.SessionCLI.Discard(cmd.Context(), args[0], match, team)
		},
	}

	resume.AddCommand(listCmd)
	resume.AddCommand(discardCmd)
	return resume
}

func newPendingCmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List locally-completed records awaiting delivery",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			records, err := app.SessionCLI.Pending(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.Println("nothing pending")
				return nil
			}
			for _, record := range records {
				cmd.Printf("%s match %d team %d · %s · %s\n",
					record.MatchType, record.MatchNumber, record.TeamNumber,
					record.Alliance, record.LastModified.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newPushCmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Re-attempt delivery of pending records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			if !app.Refresh(cmd.Context()) {
				return fmt.Errorf("server unreachable, records kept locally")
			}
			out, err := app.SessionCLI.PushPending(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("delivered %d, remaining %d\n", out.Delivered, out.Remaining)
			return nil
		},
	}
}

func newClaimsCmd(configPath, dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "claims <matchType> <match> <alliance>",
		Short: "Show who holds each team in a match alliance",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("match number: %w", err)
			}
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			if !app.Refresh(cmd.Context()) {
				return fmt.Errorf("server unreachable")
			}
			out, err := app.SessionCLI.PeekClaims(cmd.Context(), args[0], match, args[2])
			if err != nil {
				return err
			}
			if len(out.Claims) == 0 {
				cmd.Println("no claims")
				return nil
			}
			for team, scouter := range out.Claims {
				cmd.Printf("team %d → %s\n", team, scouter)
			}
			return nil
		},
	}
}

func newSchemaCmd(configPath, dataDir *string) *cobra.Command {
	schema := &cobra.Command{Use: "schema", Short: "Manage season schema plugins"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List installed season schemas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			infos, err := app.SchemaCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, info := range infos {
				state := "enabled"
				if !info.Enabled {
					state = "disabled"
				}
				cmd.Printf("%s · season %s · v%s · %s\n", info.Name, info.Season, info.Version, state)
			}
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <season>",
		Short: "Verify a season schema plugin responds and its checksum matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.SchemaCLI.Check(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("ok")
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "payload <season>",
		Short: "Print the default payload document for a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*configPath, *dataDir)
			if err != nil {
				return err
			}
			defer app.Close()
			payload, err := app.SchemaCLI.DefaultPayload(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Println(string(payload))
			return nil
		},
	}

	schema.AddCommand(listCmd)
	schema.AddCommand(checkCmd)
	schema.AddCommand(showCmd)
	return schema
}

func parseSlot(matchArg, teamArg string) (int, int, error) {
	match, err := strconv.Atoi(matchArg)
	if err != nil {
		return 0, 0, fmt.Errorf("match number: %w", err)
	}
	team, err := strconv.Atoi(teamArg)
	if err != nil {
		return 0, 0, fmt.Errorf("team number: %w", err)
	}
	return match, team, nil
}
