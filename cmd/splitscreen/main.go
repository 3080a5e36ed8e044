package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/splitscreen/internal/config"
	"github.com/1broseidon/splitscreen/internal/daemon"
	"github.com/1broseidon/splitscreen/internal/ipc"
	"github.com/1broseidon/splitscreen/internal/platform"
	"github.com/1broseidon/splitscreen/internal/screeninfo"
	"github.com/1broseidon/splitscreen/internal/tui"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "displays":
		os.Exit(runDisplays(os.Args[2:]))
	case "inspect":
		os.Exit(runInspect(os.Args[2:]))
	case "emulate":
		os.Exit(runEmulate(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "preview":
		os.Exit(runPreview(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version":
		fmt.Println(version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: splitscreen <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the splitscreen daemon (foreground)")
	fmt.Fprintln(w, "  status              Show how the tracked window is split across screens")
	fmt.Fprintln(w, "  displays            List displays and their usable areas")
	fmt.Fprintln(w, "  inspect             Inspect a window once, without the daemon")
	fmt.Fprintln(w, "  emulate N SPLIT     Emulate N screens (vertical|horizontal)")
	fmt.Fprintln(w, "  emulate off         Stop emulating")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "  preview             Open live preview TUI")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'splitscreen <command> --help' for command-specific options.")
}

func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: splitscreen "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags returns -1 when parsing succeeded, otherwise the exit code.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	return -1
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func configPathOrDefault(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := newFlagSet("status", "status [--json]", "Show the tracked window's content rects via IPC.")
	asJSON := fs.Bool("json", false, "Print screen info as JSON")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	info, err := client.GetScreenInfo()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return writeJSON(os.Stdout, info)
	}

	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	if pid, err := daemonPID(); err == nil {
		fmt.Printf("pid:            %d\n", pid)
	}
	printScreenInfo(os.Stdout, info)
	return 0
}

func runDisplays(args []string) int {
	fs := newFlagSet("displays", "displays [--json] [--direct]", "List displays. Falls back to a direct X11 query when the daemon is not running.")
	asJSON := fs.Bool("json", false, "Print displays as JSON")
	direct := fs.Bool("direct", false, "Query X11 directly instead of the daemon")
	path := fs.String("path", "", "Config file path (default: ~/.config/splitscreen/config.yaml)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	var data *ipc.DisplaysData
	var err error
	if !*direct {
		data, err = ipc.NewClient().GetDisplays()
	}
	if *direct || err != nil {
		data, err = queryDisplaysDirect(*path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		return writeJSON(os.Stdout, data)
	}
	printDisplays(os.Stdout, data)
	return 0
}

func queryDisplaysDirect(path string) (*ipc.DisplaysData, error) {
	res, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	backend, err := connectBackend(res.Config)
	if err != nil {
		return nil, err
	}
	defer backend.Disconnect()

	displays, err := backend.Displays()
	if err != nil {
		return nil, err
	}
	data := &ipc.DisplaysData{Displays: make([]ipc.DisplayInfo, 0, len(displays))}
	for _, d := range displays {
		data.Displays = append(data.Displays, ipc.DisplayInfo{ID: d.ID, Name: d.Name, Bounds: d.Bounds, Usable: d.Usable})
	}
	return data, nil
}

func connectBackend(cfg *config.Config) (*platform.LinuxBackend, error) {
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
	return platform.NewLinuxBackendFromDisplay(cfg.Display, cfg.UseWorkArea)
}

func runInspect(args []string) int {
	fs := newFlagSet("inspect", "inspect [--window ID] [--json]", "Compute the content rects of a window once, without the daemon.")
	window := fs.String("window", "", "Window id (decimal or 0x hex); default from config (active window)")
	asJSON := fs.Bool("json", false, "Print screen info as JSON")
	path := fs.String("path", "", "Config file path (default: ~/.config/splitscreen/config.yaml)")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *window != "" {
		cfg.Window = *window
	}

	backend, err := connectBackend(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	tracker, err := daemon.NewTracker(daemon.TrackerConfigFrom(cfg, nil), backend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	info := ipc.NewScreenInfoData(tracker.Refresh())

	if *asJSON {
		return writeJSON(os.Stdout, info)
	}
	printScreenInfo(os.Stdout, &info)
	return 0
}

// parseEmulateArgs interprets "off" or "<count> [split]". A negative count
// means off.
func parseEmulateArgs(args []string) (count int, split screeninfo.SplitKind, off bool, err error) {
	if len(args) == 0 {
		return 0, screeninfo.SplitUnknown, false, fmt.Errorf("emulate requires a screen count or 'off'")
	}
	if len(args) > 2 {
		return 0, screeninfo.SplitUnknown, false, fmt.Errorf("emulate takes at most two arguments")
	}
	if strings.EqualFold(args[0], "off") {
		if len(args) != 1 {
			return 0, screeninfo.SplitUnknown, false, fmt.Errorf("emulate off takes no further arguments")
		}
		return -1, screeninfo.SplitUnknown, true, nil
	}

	count, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, screeninfo.SplitUnknown, false, fmt.Errorf("invalid screen count %q", args[0])
	}
	if count < 0 {
		return -1, screeninfo.SplitUnknown, true, nil
	}

	split = screeninfo.SplitVertical
	if len(args) == 2 {
		split, err = screeninfo.ParseSplitKind(args[1])
		if err != nil {
			return 0, screeninfo.SplitUnknown, false, err
		}
	}
	return count, split, false, nil
}

func runEmulate(args []string) int {
	fs := newFlagSet("emulate", "emulate <count> [vertical|horizontal] | emulate off", "Divide the tracked window into equal regions as if it spanned several screens.")
	asJSON := fs.Bool("json", false, "Print resulting screen info as JSON")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	count, split, off, err := parseEmulateArgs(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	var info *ipc.ScreenInfoData
	if off {
		info, err = client.StopEmulating()
	} else {
		info, err = client.Emulate(count, split.String())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		return writeJSON(os.Stdout, info)
	}
	printScreenInfo(os.Stdout, info)
	return 0
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "reload", "Ask the daemon to re-read its configuration file.")
	if code := parseFlags(fs, args); code >= 0 {
		return code
	}

	info, err := ipc.NewClient().Reload()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reloaded")
	printScreenInfo(os.Stdout, info)
	return 0
}

func runPreview(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: splitscreen preview [--refresh DURATION] [--theme FLAVOR]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Live view of the tracked window's content rects (requires the daemon).")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  1-4       Emulate that many screens")
		fmt.Fprintln(os.Stderr, "  v/h       Emulate with a vertical/horizontal split")
		fmt.Fprintln(os.Stderr, "  o, 0      Return to real displays")
		fmt.Fprintln(os.Stderr, "  r         Refresh now")
		fmt.Fprintln(os.Stderr, "  ?         Toggle full help")
		fmt.Fprintln(os.Stderr, "  q, Esc    Quit")
		return 0
	}

	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	refresh := fs.Duration("refresh", tui.DefaultRefresh, "Polling interval")
	theme := fs.String("theme", tui.DefaultTheme, "Color theme: "+strings.Join(tui.Themes, ", "))
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(ipc.NewClient(), tui.Options{Refresh: *refresh, Theme: *theme}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  splitscreen config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  splitscreen config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  splitscreen config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/splitscreen/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(res.Files) == 0 {
			fmt.Println("config: ok (no config file, using defaults)")
			return 0
		}
		fmt.Printf("config: ok (%d file(s))\n", len(res.Files))
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/splitscreen/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printEffective := fs.Bool("effective", false, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			_ = printEffective // default
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			for _, f := range res.Files {
				fmt.Printf("# loaded: %s\n", f)
			}
			cfg = res.Config
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/splitscreen/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>; one of:")
			for _, p := range config.ExplainPaths() {
				fmt.Fprintln(os.Stderr, "  "+p)
			}
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", formatSource(src))
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}

func printScreenInfo(w io.Writer, info *ipc.ScreenInfoData) {
	window := fmt.Sprintf("0x%x", info.Window)
	if info.Window == 0 {
		window = "none"
	}
	if info.WindowClass != "" {
		window += " (" + info.WindowClass + ")"
	}
	fmt.Fprintf(w, "window:         %s\n", window)
	fmt.Fprintf(w, "split:          %s\n", info.Split)
	fmt.Fprintf(w, "client_rect:    %s\n", info.ClientRect)
	fmt.Fprintf(w, "displays:       %d\n", info.DisplayCount)
	if info.Emulating {
		fmt.Fprintf(w, "emulating:      %d %s\n", info.EmulatedScreens, info.EmulatedSplit)
	}
	fmt.Fprintf(w, "content_rects:  %d\n", len(info.ContentRects))
	for i, r := range info.ContentRects {
		var marks []string
		if i == info.WidestIndex {
			marks = append(marks, "widest")
		}
		if i == info.TallestIndex {
			marks = append(marks, "tallest")
		}
		if i == info.HorizontalIndex {
			marks = append(marks, "horizontal-content")
		}
		line := fmt.Sprintf("  [%d] %s %dx%d", i, r, screeninfo.RectWidth(r), screeninfo.RectHeight(r))
		if len(marks) > 0 {
			line += "  " + strings.Join(marks, ",")
		}
		fmt.Fprintln(w, line)
	}
}

func printDisplays(w io.Writer, data *ipc.DisplaysData) {
	if len(data.Displays) == 0 {
		fmt.Fprintln(w, "no displays")
		return
	}
	for _, d := range data.Displays {
		fmt.Fprintf(w, "%d %-10s %dx%d+%d+%d  usable %dx%d+%d+%d\n",
			d.ID, d.Name,
			d.Bounds.Width, d.Bounds.Height, d.Bounds.X, d.Bounds.Y,
			d.Usable.Width, d.Usable.Height, d.Usable.X, d.Usable.Y)
	}
}
