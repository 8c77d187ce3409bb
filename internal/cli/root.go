package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/pbxgraph/internal/app"
	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/specialistvlad/pbxgraph/internal/hcl"
	"github.com/specialistvlad/pbxgraph/internal/pbx"
	"github.com/specialistvlad/pbxgraph/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads, e.g.
// PBXGRAPH_LOG_LEVEL.
const EnvPrefix = "PBXGRAPH"

var version = "dev"

// runner holds the state shared by the subcommands of one invocation.
type runner struct {
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
	loader config.Loader

	roots  map[string]string
	app    *app.App
	format render.Format
}

// NewRootCommand builds the command tree. Results go to stdout and logs to
// stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	r := &runner{
		stdout: stdout,
		stderr: stderr,
		v:      viper.New(),
		loader: hcl.NewLoader(),
	}

	root := &cobra.Command{
		Use:   "pbxgraph",
		Short: "Inspect Xcode project files",
		Long: `pbxgraph loads an .xcodeproj package and answers questions about its object
graph: file paths, targets, build order and build settings.

PATH may be the .xcodeproj package, its project.pbxproj, or a directory
holding exactly one package. It defaults to the current directory.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	defaults := config.Default()
	pf := root.PersistentFlags()
	pf.StringSliceP("config", "c", nil, "HCL configuration files, applied in order")
	pf.String("log-level", defaults.Log.Level, "log level: debug, info, warn or error")
	pf.String("log-format", defaults.Log.Format, "log format: text or json")
	pf.StringP("output", "o", defaults.Output, "output format: text, json or yaml")
	pf.String("configuration", "", "build configuration (default: each list's default)")
	pf.Int("cache-size", defaults.CacheSize, "number of parsed projects kept in memory")
	pf.StringToStringVar(&r.roots, "root", nil, "source tree root, e.g. SDKROOT=/path/to/sdk (repeatable)")

	for key, flag := range map[string]string{
		"config":        "config",
		"log.level":     "log-level",
		"log.format":    "log-format",
		"output":        "output",
		"configuration": "configuration",
		"cache.size":    "cache-size",
	} {
		_ = r.v.BindPFlag(key, pf.Lookup(flag))
	}
	r.v.SetEnvPrefix(EnvPrefix)
	r.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	r.v.AutomaticEnv()

	root.AddCommand(
		r.summaryCommand(),
		r.pathsCommand(),
		r.targetsCommand(),
		r.orderCommand(),
		r.settingsCommand(),
		r.getCommand(),
		r.watchCommand(),
	)
	return root
}

// Execute runs the command tree with args. Every returned error is an
// *ExitError.
func Execute(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	return classify(root.ExecuteContext(ctx))
}

// setup merges configuration files, environment and flags, in increasing
// precedence, and builds the App.
func (r *runner) setup(cmd *cobra.Command, _ []string) error {
	files := r.v.GetStringSlice("config")
	slog.Debug("Loading configuration.", "files", files)
	cfg, err := r.loader.Load(cmd.Context(), files...)
	if err != nil {
		return err
	}

	if r.v.IsSet("log.level") {
		cfg.Log.Level = strings.ToLower(r.v.GetString("log.level"))
	}
	if r.v.IsSet("log.format") {
		cfg.Log.Format = strings.ToLower(r.v.GetString("log.format"))
	}
	if r.v.IsSet("output") {
		cfg.Output = strings.ToLower(r.v.GetString("output"))
	}
	if r.v.IsSet("configuration") {
		cfg.Configuration = r.v.GetString("configuration")
	}
	if r.v.IsSet("cache.size") {
		cfg.CacheSize = r.v.GetInt("cache.size")
	}
	for name, dir := range r.roots {
		folder, ok := pbx.ParseFolder(name)
		if !ok {
			return usageError(fmt.Errorf("--root: unknown source tree %q, want one of %v", name, pbx.Folders))
		}
		cfg.Roots[folder] = dir
	}

	if r.format, err = render.ParseFormat(cfg.Output); err != nil {
		return usageError(err)
	}
	r.app, err = app.New(r.stderr, cfg)
	return err
}

func (r *runner) print(v any) error {
	return render.Write(r.stdout, r.format, v)
}

// projectArg returns args[i], or "." when it is absent.
func projectArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return "."
}

// argsRange is cobra.RangeArgs reporting a usage error.
func argsRange(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(lo, hi)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
