package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/host/profile"
	"github.com/nhle/taskpane/internal/logging"
	"github.com/nhle/taskpane/internal/taskpane"
	analyzeview "github.com/nhle/taskpane/internal/ui/analyze"
)

// outputFlags are shared by the operation commands.
type outputFlags struct {
	copy    bool
	replace bool
	host    string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.copy, "copy", false, "Copy the result to the clipboard")
	cmd.Flags().BoolVar(&o.replace, "replace", false, "Replace the open email's body with the result")
	cmd.Flags().StringVar(&o.host, "host", "", "Mail host profile (name or id); defaults to the active one")
}

// deliver prints a result and optionally copies it or writes it back
// to the open message.
func (o *outputFlags) deliver(cmd *cobra.Command, st *taskpane.State, mb host.Mailbox) error {
	fmt.Fprintln(cmd.OutOrStdout(), st.Result)

	if o.copy {
		if err := st.Copy(clipboard.NewSystem(os.Stderr)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Copied to clipboard"))
	}

	if o.replace {
		ctx, cancel := signalContext()
		defer cancel()
		err := taskpane.ReplaceBody(ctx, mb, st.Result)
		st.CompleteReplace(err)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("Replaced the open email's body"))
	}
	return nil
}

// openMailbox opens the named or active host profile. A missing profile
// is only an error when required is set.
func openMailbox(e *env, nameOrID string, required bool) (host.Mailbox, string, error) {
	h, err := resolveHost(e, nameOrID)
	if errors.Is(err, errMissingHost) && !required {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	var secrets profile.Secrets
	if e.vault != nil {
		secrets = e.vault
	}
	mb, err := profile.Open(h, secrets, logging.Component(e.logger, "host"))
	if err != nil {
		return nil, "", err
	}
	return mb, h.ID, nil
}

func newRewordCmd(cfgPath *string) *cobra.Command {
	var (
		tone         string
		instructions string
		out          outputFlags
	)

	cmd := &cobra.Command{
		Use:   "reword [text|-]",
		Short: "Rewrite text in a tone or by instructions",
		Long: `Rewrite text with the AI service. Pass the text as an argument, "-" to
read stdin, or nothing to use the open email's body (piped stdin is read
when no argument is given).

Examples:
  taskpane reword --tone professional "hey, can u send the file"
  pbpaste | taskpane reword --instructions "make it shorter" -
  taskpane reword --tone friendly --replace`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tone != "" && !validTone(tone) {
				return fmt.Errorf("unknown tone %q (one of: %s)", tone, strings.Join(taskpane.Tones, ", "))
			}

			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) == 0 && stdinPiped() {
				args = []string{"-"}
			}

			needHost := len(args) == 0 || out.replace
			mb, hostID, err := openMailbox(e, out.host, needHost)
			if err != nil {
				return err
			}
			if mb != nil {
				defer profile.Close(mb)
			}

			ctx, cancel := signalContext()
			defer cancel()

			text, err := inputText(cmd, args, func() (string, error) {
				return taskpane.ReadOpenBody(ctx, mb)
			})
			if err != nil {
				return err
			}

			op := taskpane.NewReword(e.service(), e.recorder(hostID))
			op.SetText(text)
			if tone != "" {
				op.SelectTone(tone)
			}
			if instructions != "" {
				op.SetCustomInstructions(instructions)
			}

			if _, err := op.Run(ctx); err != nil {
				return err
			}
			return out.deliver(cmd, &op.State, mb)
		},
	}

	cmd.Flags().StringVarP(&tone, "tone", "t", "", "Tone: "+strings.Join(taskpane.Tones, ", "))
	cmd.Flags().StringVarP(&instructions, "instructions", "i", "", "Custom rewording instructions")
	cmd.MarkFlagsMutuallyExclusive("tone", "instructions")
	out.register(cmd)
	return cmd
}

func newComposeCmd(cfgPath *string) *cobra.Command {
	var (
		withAnalysis bool
		out          outputFlags
	)

	cmd := &cobra.Command{
		Use:   "compose <request>",
		Short: "Compose an email from a request",
		Long: `Compose an email with the AI service.

With --with-analysis the open email is analyzed first and the analysis
is sent along with the request.

Examples:
  taskpane compose "Write a follow-up about yesterday's meeting"
  taskpane compose --with-analysis "Reply and accept the proposal"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			mb, hostID, err := openMailbox(e, out.host, withAnalysis || out.replace)
			if err != nil {
				return err
			}
			if mb != nil {
				defer profile.Close(mb)
			}

			ctx, cancel := signalContext()
			defer cancel()

			op := taskpane.NewCompose(e.service(), mb, nil, e.recorder(hostID))
			if withAnalysis {
				if _, err := op.RunAnalyze(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("Analyzed the open email"))
			}

			op.SetRequest(strings.Join(args, " "))
			if withAnalysis {
				op.SetIncludeAnalysis(true)
			}

			if _, err := op.Run(ctx); err != nil {
				return err
			}
			return out.deliver(cmd, &op.State, mb)
		},
	}

	cmd.Flags().BoolVarP(&withAnalysis, "with-analysis", "a", false, "Analyze the open email first and include the analysis")
	out.register(cmd)
	return cmd
}

func newAnalyzeCmd(cfgPath *string) *cobra.Command {
	var (
		raw      bool
		asJSON   bool
		hostName string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the open email",
		Long: `Analyze the open email and print the sections of the analysis.

Examples:
  taskpane analyze
  taskpane analyze --raw
  taskpane analyze --json | jq .actionItems`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*cfgPath, false)
			if err != nil {
				return err
			}
			defer e.Close()

			mb, hostID, err := openMailbox(e, hostName, true)
			if err != nil {
				return err
			}
			defer profile.Close(mb)

			ctx, cancel := signalContext()
			defer cancel()

			op := taskpane.NewAnalyze(e.service(), mb, nil, e.recorder(hostID))
			result, err := op.Run(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case raw:
				rendered, err := glamour.Render(result.RawAnalysis, glamourStyle(e.cfg.Display.Theme))
				if err != nil {
					rendered = result.RawAnalysis
				}
				fmt.Fprintln(w, strings.TrimSpace(rendered))
			default:
				fmt.Fprintln(w, analyzeview.RenderSections(op.Sections(), 80))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the raw analysis as rendered markdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full analysis result as JSON")
	cmd.Flags().StringVar(&hostName, "host", "", "Mail host profile (name or id); defaults to the active one")
	cmd.MarkFlagsMutuallyExclusive("raw", "json")
	return cmd
}

// stdinPiped reports whether stdin is redirected rather than a terminal.
func stdinPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

// inputText returns the argument, stdin for "-", or the fallback.
func inputText(cmd *cobra.Command, args []string, fallback func() (string, error)) (string, error) {
	switch {
	case len(args) == 0:
		return fallback()
	case args[0] == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	default:
		return args[0], nil
	}
}

func validTone(tone string) bool {
	for _, t := range taskpane.Tones {
		if t == tone {
			return true
		}
	}
	return false
}

func glamourStyle(theme string) string {
	if theme == "" || theme == "default" {
		return "dark"
	}
	return theme
}
