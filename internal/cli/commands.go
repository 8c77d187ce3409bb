package cli

import (
	"fmt"

	"github.com/specialistvlad/pbxgraph/internal/app"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
	"github.com/spf13/cobra"
)

func (r *runner) summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [PATH]",
		Short: "Describe a project",
		Args:  argsRange(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := r.app.Summary(cmd.Context(), projectArg(args, 0))
			if err != nil {
				return err
			}
			return r.print(s)
		},
	}
}

func (r *runner) pathsCommand() *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "paths [PATH]",
		Short: "List the path of every file reference in the group tree",
		Args:  argsRange(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := r.app.Paths(cmd.Context(), projectArg(args, 0), resolve)
			if err != nil {
				return err
			}
			return r.print(paths)
		},
	}
	cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "also print paths joined with the configured roots")
	return cmd
}

func (r *runner) targetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets [PATH]",
		Short: "List targets with their build phases and dependencies",
		Args:  argsRange(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := r.app.Targets(cmd.Context(), projectArg(args, 0))
			if err != nil {
				return err
			}
			return r.print(targets)
		},
	}
}

func (r *runner) orderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order [PATH]",
		Short: "List targets so that every dependency comes before its dependents",
		Args:  argsRange(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := r.app.BuildOrder(cmd.Context(), projectArg(args, 0))
			if err != nil {
				return err
			}
			return r.print(order)
		},
	}
}

func (r *runner) settingsCommand() *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "settings TARGET [PATH]",
		Short: "Print the resolved build settings of a target",
		Args:  argsRange(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := r.app.Settings(cmd.Context(), projectArg(args, 1), args[0], "", names...)
			if err != nil {
				return err
			}
			return r.print(res)
		},
	}
	cmd.Flags().StringSliceVarP(&names, "setting", "s", nil, "only print these settings")
	return cmd
}

func (r *runner) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEYPATH [PATH]",
		Short: "Print the value at a key path, e.g. targets[0].buildPhases",
		Long: `Print the value at a key path. The path starts at the root project object, or
at any object whose ID is the first segment. Strings naming objects are
followed, so mainGroup.children[0].path reads a field of the first child.`,
		Args: argsRange(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := r.app.Get(cmd.Context(), projectArg(args, 1), args[0])
			if err != nil {
				return err
			}
			return r.print(v)
		},
	}
}

func (r *runner) watchCommand() *cobra.Command {
	var opts app.WatchOptions
	cmd := &cobra.Command{
		Use:   "watch [PATH]",
		Short: "Reload the project whenever it changes and report each load",
		Args:  argsRange(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.app.Watch(cmd.Context(), projectArg(args, 0), opts, func(p *xcodeproj.Project, err error) {
				if err != nil {
					fmt.Fprintf(r.stdout, "reload failed: %v\n", err)
					return
				}
				fmt.Fprintf(r.stdout, "%s: %d objects, %d files\n", p.Name, p.Objects().Len(), len(p.Paths()))
			})
		},
	}
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", app.DefaultDebounce, "quiet period before reloading")
	cmd.Flags().StringVar(&opts.StatusAddr, "status-addr", "", "serve /health on this address, e.g. 127.0.0.1:8080")
	return cmd
}
