package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
)

func newActivityCmd(cfgPath *string) *cobra.Command {
	var (
		limit    int
		kind     string
		failures bool
		asJSON   bool
		prune    int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent operations",
		Long: `Show the activity log: which operations ran, how long they took and
whether they failed. Request and result text is never stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := activityFilter(kind, failures, limit)
			if err != nil {
				return err
			}

			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := context.Background()
			w := cmd.OutOrStdout()

			if prune > 0 {
				n, err := e.store.PruneActivity(ctx, prune)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("Pruned %d entries", n)))
				return nil
			}

			entries, err := e.store.GetActivity(ctx, filter)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			if len(entries) == 0 {
				fmt.Fprintln(w, dimStyle.Render("No activity"))
				return nil
			}
			for _, a := range entries {
				fmt.Fprintln(w, formatActivity(a))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only this operation: reword, compose or analyze")
	cmd.Flags().BoolVar(&failures, "failures", false, "Only failed operations")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().IntVar(&prune, "prune", 0, "Keep only the newest N entries and exit")
	return cmd
}

func activityFilter(kind string, failures bool, limit int) (store.ActivityFilter, error) {
	f := store.ActivityFilter{Limit: limit}
	if kind != "" {
		k := model.OperationKind(strings.ToLower(kind))
		switch k {
		case model.OperationReword, model.OperationCompose, model.OperationAnalyze:
			f.Kind = &k
		default:
			return f, fmt.Errorf("unknown operation %q", kind)
		}
	}
	if failures {
		outcome := model.OutcomeFailure
		f.Outcome = &outcome
	}
	return f, nil
}

func formatActivity(a model.Activity) string {
	outcome := successStyle.Render("ok  ")
	if a.Outcome == model.OutcomeFailure {
		outcome = errorStyle.Render("fail")
	}
	line := fmt.Sprintf("%s  %s %-8s %6dms",
		dimStyle.Render(a.CreatedAt.Local().Format("2006-01-02 15:04")),
		outcome,
		a.Kind,
		a.DurationMS)
	if a.Error != "" {
		line += "  " + dimStyle.Render(a.Error)
	}
	return line
}

func newTokenCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the AI service token",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [token]",
		Short: "Store the AI service token in the keyring",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.vault == nil {
				return errors.New("the keyring is unavailable")
			}

			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				err := huh.NewInput().
					Title("Service token").
					EchoMode(huh.EchoModePassword).
					Value(&token).
					Run()
				if err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("token is empty")
			}

			if err := e.vault.Set(credential.ServiceTokenKey, token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Token saved"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the AI service token from the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.vault == nil {
				return errors.New("the keyring is unavailable")
			}
			if err := e.vault.Delete(credential.ServiceTokenKey); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Token removed"))
			return nil
		},
	})

	return cmd
}
