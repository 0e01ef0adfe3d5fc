// Package main provides the gameterm console: the in-process terminal and
// shell drawn on a character-cell screen with tcell.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gameterm/internal/commands/builtin"
	"gameterm/internal/config"
	"gameterm/internal/input"
	"gameterm/internal/logger"
	"gameterm/internal/output"
	"gameterm/internal/render"
	"gameterm/internal/shell"
	"gameterm/internal/terminal"
	"gameterm/internal/version"
)

var (
	configFile string
	envFile    string
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gameterm",
	Short: "gameterm - an in-process terminal and shell for real-time loops",
	Long: `gameterm runs a pseudo-terminal with a command shell inside a frame loop.
The console binary draws it on a character-cell screen; games embed the same
terminal and draw its frames themselves.`,
	PersistentPreRunE: initConfig,
	RunE:              runConsole,
	SilenceUsage:      true,
}

// runCmd represents the run command (explicit version of default behavior)
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the console",
	RunE:  runConsole,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		printer := output.NewPrinter(output.WithWriter(cmd.OutOrStdout()), output.WithStyles(output.NewConsoleStyleProvider()))
		printer.Info(version.GetFormattedVersion())
	},
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := cfg.Dump()
		if err != nil {
			return err
		}
		output.NewPrinter(output.WithWriter(cmd.OutOrStdout()), output.PlainText()).Print(out)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "YAML config file")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file with GAMETERM_* settings")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Int("fps", 60, "Frames per second")
	flags.String("prompt", "> ", "Shell prompt")
	flags.String("command-prefix", "", "Prefix stripped from command names")
	flags.Bool("threaded", false, "Run the shell on a worker goroutine fed by the host loop")

	for _, name := range []string{"log-level", "log-file", "fps", "prompt", "command-prefix", "threaded"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig runs before every subcommand. It is a persistent pre-run rather
// than a cobra initializer because the shell builds its own cobra parsers
// and initializers would fire for each of them.
func initConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(viper.GetViper(), configFile, envFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, false); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}
	return nil
}

func runConsole(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	termCfg, err := cfg.Terminal()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	// tcell owns the terminal from here on; stderr logs would tear the screen.
	if cfg.LogFile == "" {
		logger.SetOutput(io.Discard)
	}

	src := input.NewTcellSource(screen)
	defer src.Close()

	device := terminal.New(render.NewCells(), termCfg, deviceOptions(cfg.Threaded, src,
		terminal.PresenterFunc(func(frame render.Surface) {
			draw(screen, frame)
		}))...,
	)
	sh := shell.New(device,
		shell.WithPrompt(cfg.Prompt),
		shell.WithCommandPrefix(cfg.CommandPrefix),
	)
	for _, c := range builtin.Defaults(sh, device) {
		if err := sh.Command(c); err != nil {
			return err
		}
	}
	sh.Bind()
	defer sh.Unbind()

	device.WriteString(version.GetFormattedVersion() + "\ntype help for commands, exit to quit.\n")
	logger.Info("Starting console", "device", device.ID(), "threaded", cfg.Threaded)

	if cfg.Threaded {
		err = hostLoop(ctx, screen, src, sh, cfg.FPS)
	} else {
		err = sh.Mainloop(ctx, cfg.FPS)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// deviceOptions wires the device to the screen. In threaded mode the host
// loop is the only goroutine that draws and reads the source, so the device
// gets neither.
func deviceOptions(threaded bool, src terminal.EventSource, p terminal.Presenter) []terminal.Option {
	if threaded {
		return nil
	}
	return []terminal.Option{
		terminal.WithEventSource(src),
		terminal.WithPresenter(p),
	}
}

// hostLoop plays the role of a game loop that owns the screen while the shell
// runs on its own goroutine: it forwards events and draws a frame per tick.
func hostLoop(ctx context.Context, screen tcell.Screen, src *input.TcellSource, sh *shell.Shell, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := sh.Start(ctx, fps)
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case ev := <-src.Events():
			if ev.Type == terminal.EventQuit {
				sh.Kill()
				<-errc
				return terminal.ErrQuit
			}
			sh.AddEvent(ev)
		case <-ticker.C:
			if frame := sh.Update(); frame != nil {
				draw(screen, frame)
			}
		case err := <-errc:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func draw(screen tcell.Screen, frame render.Surface) {
	grid, ok := frame.(*render.CellGrid)
	if !ok {
		return
	}
	screen.Clear()
	grid.Draw(screen, image.Point{})
	screen.Show()
}
