package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskpane/internal/credential"
	"github.com/nhle/taskpane/internal/host/profile"
	"github.com/nhle/taskpane/internal/logging"
	"github.com/nhle/taskpane/internal/model"
)

// resolveHost finds a profile by ID or name, or the active one when
// nameOrID is empty. The first saved profile stands in for a missing
// active choice.
func resolveHost(e *env, nameOrID string) (model.HostConfig, error) {
	ctx := context.Background()

	hosts, err := e.store.GetHosts(ctx)
	if err != nil {
		return model.HostConfig{}, fmt.Errorf("loading hosts: %w", err)
	}
	if len(hosts) == 0 {
		return model.HostConfig{}, errMissingHost
	}

	want := nameOrID
	if want == "" {
		want = e.cfg.Host.Active
	}
	if want == "" {
		return hosts[0], nil
	}

	for _, h := range hosts {
		if h.ID == want || strings.EqualFold(h.Name, want) {
			return h, nil
		}
	}
	if nameOrID == "" {
		e.logger.Warn("configured host no longer exists", "host", want)
		return hosts[0], nil
	}
	return model.HostConfig{}, fmt.Errorf("no host named %q", nameOrID)
}

func newHostCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "host",
		Aliases: []string{"hosts"},
		Short:   "Manage mail host profiles",
	}
	cmd.AddCommand(
		newHostListCmd(cfgPath),
		newHostAddCmd(cfgPath),
		newHostUseCmd(cfgPath),
		newHostRemoveCmd(cfgPath),
		newHostTestCmd(cfgPath),
	)
	return cmd
}

func newHostListCmd(cfgPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List mail host profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			hosts, err := e.store.GetHosts(context.Background())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(hosts, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			if len(hosts) == 0 {
				fmt.Fprintln(w, dimStyle.Render("No hosts. Add one with 'taskpane host add'."))
				return nil
			}
			for _, h := range hosts {
				marker := "  "
				if h.ID == e.cfg.Host.Active {
					marker = successStyle.Render("● ")
				}
				fmt.Fprintf(w, "%s%s %s %s\n",
					marker,
					boldStyle.Render(h.Name),
					dimStyle.Render("("+string(h.Type)+")"),
					profile.Summary(h))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newHostAddCmd(cfgPath *string) *cobra.Command {
	var (
		hostType string
		settings map[string]string
		password string
		use      bool
		skipTest bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a mail host profile",
		Long: `Add a mail host profile. The connection is checked before saving.

Examples:
  taskpane host add Work --type imap --set host=imap.example.com --set username=me@example.com
  taskpane host add Draft --type file --set path=~/draft.txt --use`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			h := model.HostConfig{
				Type:     model.HostType(hostType),
				Name:     args[0],
				Settings: settings,
			}
			if p, ok := h.Settings[profile.KeyPath]; ok {
				h.Settings[profile.KeyPath] = profile.ExpandPath(p)
			}
			if err := profile.Validate(h); err != nil {
				return err
			}

			if h.Type == model.HostTypeIMAP {
				if e.vault == nil {
					return errors.New("the keyring is unavailable; IMAP passwords cannot be stored")
				}
				if password == "" {
					if err := promptPassword(h, &password); err != nil {
						return err
					}
				}
			}

			if !skipTest {
				summary, err := checkHost(e, h, password)
				if err != nil {
					return fmt.Errorf("checking host: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("Connected: "+summary))
			}

			saved, err := e.store.UpsertHost(context.Background(), h)
			if err != nil {
				return err
			}
			if h.Type == model.HostTypeIMAP {
				if err := e.vault.Set(credential.IMAPPasswordKey(saved.ID), password); err != nil {
					return fmt.Errorf("storing password: %w", err)
				}
			}

			if use || e.cfg.Host.Active == "" {
				e.cfg.Host.Active = saved.ID
				if err := model.SaveConfig(e.cfgPath, e.cfg); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Added host "+saved.Name)+" "+dimStyle.Render(saved.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&hostType, "type", string(model.HostTypeIMAP), "Host type: imap or file")
	cmd.Flags().StringToStringVar(&settings, "set", map[string]string{}, "Host setting key=value (host, port, username, tls, mailbox, uid, path)")
	cmd.Flags().StringVar(&password, "password", "", "IMAP password (prompted when omitted)")
	cmd.Flags().BoolVar(&use, "use", false, "Make this the active host")
	cmd.Flags().BoolVar(&skipTest, "no-check", false, "Save without checking the connection")
	return cmd
}

func promptPassword(h model.HostConfig, password *string) error {
	return huh.NewInput().
		Title("Password for " + h.Setting(profile.KeyUsername, h.Name)).
		EchoMode(huh.EchoModePassword).
		Value(password).
		Run()
}

// checkHost opens h with password and exercises it once.
func checkHost(e *env, h model.HostConfig, password string) (string, error) {
	mb, err := profile.OpenWithPassword(h, password, logging.Component(e.logger, "host"))
	if err != nil {
		return "", err
	}
	defer profile.Close(mb)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	return profile.Check(ctx, mb)
}

func newHostUseCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name|id>",
		Short: "Make a mail host profile the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			h, err := resolveHost(e, args[0])
			if err != nil {
				return err
			}
			e.cfg.Host.Active = h.ID
			if err := model.SaveConfig(e.cfgPath, e.cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Using "+h.Name))
			return nil
		},
	}
}

func newHostRemoveCmd(cfgPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "remove <name|id>",
		Aliases: []string{"rm"},
		Short:   "Remove a mail host profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			h, err := resolveHost(e, args[0])
			if err != nil {
				return err
			}

			if !force {
				confirm := false
				err := huh.NewConfirm().
					Title(fmt.Sprintf("Remove host %q?", h.Name)).
					Value(&confirm).
					Run()
				if err != nil {
					return err
				}
				if !confirm {
					fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Cancelled"))
					return nil
				}
			}

			if err := e.store.DeleteHost(context.Background(), h.ID); err != nil {
				return err
			}
			if h.Type == model.HostTypeIMAP && e.vault != nil {
				if err := e.vault.Delete(credential.IMAPPasswordKey(h.ID)); err != nil {
					e.logger.Warn("deleting stored password", "host", h.Name, "error", err)
				}
			}
			if e.cfg.Host.Active == h.ID {
				e.cfg.Host.Active = ""
				if err := model.SaveConfig(e.cfgPath, e.cfg); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Removed host "+h.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func newHostTestCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "test [name|id]",
		Short: "Check that a mail host profile can be reached",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			mb, _, err := openMailbox(e, name, true)
			if err != nil {
				return err
			}
			defer profile.Close(mb)

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			summary, err := profile.Check(ctx, mb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("OK")+" "+summary)
			return nil
		},
	}
}
