package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/explorer/dialect/sql/schema"
	"github.com/syssam/explorer/node"
	"github.com/syssam/explorer/render/console"
	"github.com/syssam/explorer/render/diagram"
)

func rootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Explore the rows related to a database record",
		Long: `Explorer starts from one row of a relational database and follows its
relations, printing the related rows as an indented tree or drawing them as a
Graphviz diagram.

Relations come from the foreign keys of the database and from the tables
declared in the configuration file.`,
		SilenceUsage: true,
	}
	f.register(cmd)

	cmd.AddCommand(
		treeCmd(f),
		imageCmd(f),
		snapshotCmd(f),
		renderCmd(f),
		checkCmd(f),
		versionCmd(),
	)
	return cmd
}

// withApp runs fn with a connected app.
func withApp(cmd *cobra.Command, f *flags, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd, f)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()
	if err := a.connect(ctx); err != nil {
		return err
	}
	return fn(a.context(ctx), a)
}

func treeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <table> <id>",
		Short: "Print the related rows as an indented tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				x, err := a.explore(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return x.Console(ctx, cmd.OutOrStdout())
			})
		},
	}
}

func imageCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "image <table> <id> <target>...",
		Short: "Draw the related rows to one or more files",
		Long: `Draw the related rows to one or more files. The format of each target is
taken from its extension: .dot and .gv are written directly, anything else is
rendered with the Graphviz dot command.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				x, err := a.explore(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return paint(ctx, cmd.OutOrStdout(), a, x.Node(ctx), args[2:])
			})
		},
	}
}

// paint draws n to every target concurrently.
func paint(ctx context.Context, w io.Writer, a *app, n *node.Node, targets []string) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		target := a.target(t)
		eg.Go(func() error {
			g, err := diagram.Paint(ctx, n, target, a.diagramOptions(target)...)
			if err != nil {
				return err
			}
			a.logger.Info("diagram written", "target", target, "nodes", g.NodeCount(), "edges", g.EdgeCount())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	for _, t := range targets {
		fmt.Fprintln(w, a.target(t))
	}
	return nil
}

func snapshotCmd(f *flags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "snapshot <table> <id>",
		Short: "Save the explored tree for later rendering",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				x, err := a.explore(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				n := x.Node(ctx)
				if output == "" || output == "-" {
					return node.Encode(cmd.OutOrStdout(), n)
				}
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create snapshot: %w", err)
				}
				if err := node.Encode(file, n); err != nil {
					file.Close()
					return err
				}
				a.logger.Info("snapshot written", "path", output, "nodes", n.Count())
				return file.Close()
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Snapshot file (default: stdout)")
	return cmd
}

func renderCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "render <snapshot> [target]...",
		Short: "Print or draw a saved snapshot without a database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, f)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer file.Close()
			n, err := node.Decode(file)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				return console.Print(cmd.OutOrStdout(), n)
			}
			return paint(cmd.Context(), cmd.OutOrStdout(), a, n, args[1:])
		},
	}
}

func checkCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the declared tables and relations against the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, f, func(ctx context.Context, a *app) error {
				s, err := a.schema(ctx)
				if err != nil {
					return err
				}
				result, err := schema.Check(ctx, a.drv.DB(), a.drv.Dialect(), s, a.inspectOptions()...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.String())
				if result.HasErrors() {
					return fmt.Errorf("schema has %d errors", len(result.Errors))
				}
				return nil
			})
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
