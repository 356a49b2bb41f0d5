package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/app"
	"github.com/Engineer-Guild-Hackathon/team-20-app-sub000/internal/tui"

	"github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	version = "1.0.0"
	repoURL = "https://github.com/Engineer-Guild-Hackathon/team-20-app-sub000"
)

func getBinaryPath() string {
	exe, _ := os.Executable()
	return exe
}

func generateCompletion(shell string) error {
	switch shell {
	case "bash":
		fmt.Println("# bash completion for cogni")
		fmt.Println("_cogni_completions() {")
		fmt.Println("    local cur prev opts")
		fmt.Println("    COMPREPLY=()")
		fmt.Println("    cur=\"${COMP_WORDS[COMP_CWORD]}\"")
		fmt.Println("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"")
		fmt.Println("    opts=\"login logout whoami upload completion help version --server --theme --help\"")
		fmt.Println("    if [[ $COMP_CWORD -eq 1 ]]; then")
		fmt.Println("        COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )")
		fmt.Println("    fi")
		fmt.Println("    return 0")
		fmt.Println("}")
		fmt.Println("complete -F _cogni_completions cogni")
	case "zsh":
		fmt.Println("# zsh completion for cogni")
		fmt.Println("compdef _cogni cogni")
		fmt.Println("_cogni() {")
		fmt.Println("    _arguments -C \\")
		fmt.Println("        '(-h --help)'{-h,--help}'[show help]' \\")
		fmt.Println("        '(-v --version)'{-v,--version}'[print version]' \\")
		fmt.Println("        '--server[backend base URL]' \\")
		fmt.Println("        '--theme[color theme]:theme:(porcelain midnight)' \\")
		fmt.Println("        '*::command:->command'")
		fmt.Println("    case $state in")
		fmt.Println("        command)")
		fmt.Println("            if (( CURRENT == 1 )); then")
		fmt.Println("                _describe -t commands 'cogni commands' commands")
		fmt.Println("            fi")
		fmt.Println("            ;;")
		fmt.Println("    esac")
		fmt.Println("}")
	case "fish":
		fmt.Println("# fish completion for cogni")
		fmt.Println("complete -c cogni -f -a '(login logout whoami upload completion help version)'")
		fmt.Println("complete -c cogni -s h -l help -d 'Show help'")
		fmt.Println("complete -c cogni -s v -l version -d 'Print version'")
		fmt.Println("complete -c cogni -l server -d 'Backend base URL'")
		fmt.Println("complete -c cogni -l theme -d 'Color theme' -a 'porcelain midnight'")
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}
	return nil
}

func loadApplication(cmd *cobra.Command) (*app.Application, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.ServerURL = server
	}
	if theme, _ := cmd.Flags().GetString("theme"); theme != "" {
		cfg.Theme = theme
	}
	return app.NewApplication(cfg), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

func main() {
	root := &cobra.Command{
		Use:     "cogni",
		Short:   "CogniStudy - PDF summaries, chat and team study from the terminal",
		Long:    "CogniStudy is a terminal client for the CogniStudy backend: upload PDFs, read AI summaries, chat about them, and share results with your team.\n\nUse without arguments for the interactive TUI, or with subcommands for scripted use.\n\nFor more information, visit: " + repoURL,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Printf("CogniStudy CLI v%s\n", version)
				fmt.Printf("Repository: %s\n", repoURL)
				fmt.Printf("Installed at: %s\n", getBinaryPath())
				return nil
			}

			if comp, _ := cmd.Flags().GetString("completion"); comp != "" {
				return generateCompletion(comp)
			}

			application, err := loadApplication(cmd)
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(application), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().String("server", "", "Backend base URL (overrides config)")
	root.Flags().String("theme", "", "Color theme: porcelain|midnight")
	root.Flags().BoolP("version", "v", false, "Print version information")
	root.Flags().String("completion", "", "Generate shell completion (bash|zsh|fish)")

	loginCmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and store the access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			username := ""
			if len(args) > 0 {
				username = args[0]
			} else {
				fmt.Print("Username: ")
				fmt.Fscanln(os.Stdin, &username)
			}
			username = strings.TrimSpace(username)
			if username == "" {
				return fmt.Errorf("no username provided")
			}

			fmt.Print("Password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Println()
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}

			ctx, cancel2 := context.WithTimeout(ctx, 30*time.Second)
			defer cancel2()
			token, err := application.Client.Login(ctx, username, string(raw))
			if err != nil {
				return err
			}
			if err := application.Session.SetToken(token); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s\n", username)
			return nil
		},
	}
	root.AddCommand(loginCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication(cmd)
			if err != nil {
				return err
			}
			if !application.Session.LoggedIn() {
				fmt.Println("Not logged in")
				return nil
			}
			if err := application.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
	root.AddCommand(logoutCmd)

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Print the logged-in username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			name, err := application.Client.CurrentUser(ctx)
			if err != nil {
				return err
			}
			fmt.Println(name)
			return nil
		},
	}
	root.AddCommand(whoamiCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload <pdf> [pdf...]",
		Short: "Upload PDFs and print the generated summary",
		Long:  "Upload one or more PDFs, print the AI summary to stdout.\n\nExamples:\n  - cogni upload paper.pdf\n  - cogni upload ch1.pdf ch2.pdf --save\n  - cogni upload paper.pdf --save --team 3",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApplication(cmd)
			if err != nil {
				return err
			}
			for _, path := range args {
				if err := app.CheckPDF(path, application.Config.MaxUploadMiB); err != nil {
					return err
				}
			}

			ctx, cancel := signalContext()
			defer cancel()
			ctx, cancel2 := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel2()

			res, err := application.Client.UploadPDF(ctx, args)
			if err != nil {
				return err
			}
			fmt.Println(res.Summary)
			if len(res.Tags) > 0 {
				fmt.Fprintf(os.Stderr, "tags: %s\n", strings.Join(res.Tags, ", "))
			}

			if uploadSave {
				if !application.Session.LoggedIn() {
					return fmt.Errorf("log in before saving (cogni login)")
				}
				id, err := application.Client.SaveSummary(ctx, res.Filename, res.Summary, uploadTeam, res.Tags)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "saved as #%d\n", id)
			}
			return nil
		},
	}
	uploadCmd.Flags().BoolVar(&uploadSave, "save", false, "Save the summary to your history")
	uploadCmd.Flags().Int64Var(&uploadTeam, "team", 0, "Team ID to save into (0 = personal)")
	root.AddCommand(uploadCmd)

	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion",
		Long:  "Generate shell completion script for cogni.\n\nExamples:\n  - cogni completion bash >> ~/.bashrc\n  - cogni completion zsh > ~/.zsh/completion/_cogni\n  - cogni completion fish > ~/.config/fish/completions/cogni.fish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateCompletion(args[0])
		},
	}
	root.AddCommand(completionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	uploadSave bool
	uploadTeam int64
)
