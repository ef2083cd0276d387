package main

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"brainmapp/adapters/excel"
	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/errors"
	"brainmapp/internal/overlap"
	"brainmapp/internal/statmap"
	"brainmapp/internal/testkit"
	"brainmapp/ui"
)

func newServeCmd(a *app) *cobra.Command {
	var host string
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container
			if port == "" {
				port = c.Config.Server.Port
			}
			server, err := ui.NewServer(ui.Deps{
				Config:   c.Config,
				Sessions: c.Sessions,
				Loader:   c.Loader,
				Overlap:  c.Overlap,
				Meshes:   c.Meshes,
				Style:    c.RenderStyle(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}
			return server.Start(cmd.Context(), net.JoinHostPort(host, port))
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "Interface to listen on")
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (default: PORT or 8080)")
	return cmd
}

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [results-dir]",
		Short: "List the models and terms found in a results directory",
		Long: `Scan a verywise results directory and print every model with both
hemispheres present, its selectable terms, and the entries that were skipped.

Example: brainmapp scan /data/verywise_results`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.container.Scanner.Scan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printScan(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func printScan(w io.Writer, res *results.ScanResult) {
	keys := res.Catalog.Keys()
	fmt.Fprintf(w, "%d models in %s\n", len(keys), res.Root)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, strings.Join(res.Catalog[k].Order, ", "))
	}
	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(w, "%d entries skipped:\n", len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			fmt.Fprintf(w, "  [%s] %s\n", d.Kind, d.Message)
		}
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var resolution string
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "summary [results-dir] [model] [term]",
		Short: "Print cluster counts and beta statistics of one term",
		Long: `Load the stat map of a model term and print its cluster counts and
the mean and range of significant beta values.

Example: brainmapp summary /data/results activity.thickness MVPA --xlsx mvpa.xlsx`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container
			catalog, err := scanCatalog(cmd, a, args[0])
			if err != nil {
				return err
			}
			sel, err := parseSelection(args[1], args[2])
			if err != nil {
				return err
			}
			nodes, err := nodeCount(a, resolution)
			if err != nil {
				return err
			}

			res, err := c.Loader.Load(cmd.Context(), catalog, sel, nodes)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), res)

			if xlsxPath != "" {
				return writeFile(xlsxPath, func(w io.Writer) error { return excel.WriteSummaryReport(w, res) })
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "", "Template mesh: fsaverage, fsaverage6, fsaverage5 or native (default: DEFAULT_RESOLUTION)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the summary to this XLSX file")
	return cmd
}

func printSummary(w io.Writer, res *statmap.Result) {
	s := res.Summary
	fmt.Fprintf(w, "%s (stack %d)\n", res.Selection, res.Stack)
	fmt.Fprintf(w, "%d clusters identified (%d in the left and %d in the right hemisphere).\n",
		s.TotalClusters(), s.Clusters[surface.Left], s.Clusters[surface.Right])
	fmt.Fprintf(w, "Mean beta value [range] = %s [%s; %s]\n", s.Mean.Format(), s.Min.Format(), s.Max.Format())
}

func newOverlapCmd(a *app) *cobra.Command {
	var resolution string
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "overlap [results-dir] [model-a] [term-a] [model-b] [term-b]",
		Short: "Compare the significant clusters of two terms",
		Long: `Classify every vertex as unique to A, unique to B or shared, and print
the share of each category over both hemispheres.

Example: brainmapp overlap /data/results activity.thickness MVPA sleep.area Duration`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.container
			catalog, err := scanCatalog(cmd, a, args[0])
			if err != nil {
				return err
			}
			selA, err := parseSelection(args[1], args[2])
			if err != nil {
				return err
			}
			selB, err := parseSelection(args[3], args[4])
			if err != nil {
				return err
			}
			nodes, err := nodeCount(a, resolution)
			if err != nil {
				return err
			}

			res, err := c.Overlap.Compute(cmd.Context(), catalog, selA, selB, nodes)
			if errors.IsCode(err, errors.CodeOverlapError) {
				fmt.Fprintln(cmd.OutOrStdout(), overlap.NoOverlapMessage)
				return nil
			}
			if err != nil {
				return err
			}
			printOverlap(cmd.OutOrStdout(), res)

			if xlsxPath != "" {
				return writeFile(xlsxPath, func(w io.Writer) error { return excel.WriteOverlapReport(w, res) })
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resolution, "resolution", "", "Template mesh: fsaverage, fsaverage6, fsaverage5 or native (default: DEFAULT_RESOLUTION)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the overlap summary to this XLSX file")
	return cmd
}

func printOverlap(w io.Writer, res *overlap.Result) {
	fmt.Fprintf(w, "There was a %s overlap between the terms selected\n", overlap.Describe(res.Summary, results.Shared))
	fmt.Fprintf(w, "%s was unique to %s\n", overlap.Describe(res.Summary, results.OnlyA), res.A)
	fmt.Fprintf(w, "%s was unique to %s\n", overlap.Describe(res.Summary, results.OnlyB), res.B)
}

func newDemoCmd() *cobra.Command {
	var nodes int
	var seed int64

	cmd := &cobra.Command{
		Use:   "demo [output-dir]",
		Short: "Write a synthetic results directory to try the dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kit := testkit.NewResultsKit(args[0])
			if err := kit.GenerateDemo(testkit.DemoSpec{Nodes: nodes, Seed: seed}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Demo results written to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&nodes, "nodes", surface.Low.Nodes(), "Vertices per hemisphere")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	return cmd
}

func scanCatalog(cmd *cobra.Command, a *app, root string) (results.Catalog, error) {
	res, err := a.container.Scanner.Scan(cmd.Context(), root)
	if err != nil {
		return nil, err
	}
	return res.Catalog, nil
}

func parseSelection(model, term string) (results.Selection, error) {
	key, err := results.ParseModelKey(model)
	if err != nil {
		return results.Selection{}, errors.InvalidInput(err.Error())
	}
	return results.Selection{Model: key, Term: term}, nil
}

// nodeCount resolves a --resolution flag; "native" keeps the stored length.
func nodeCount(a *app, resolution string) (int, error) {
	if resolution == "native" {
		return 0, nil
	}
	if resolution == "" {
		resolution = a.container.Config.Surface.DefaultResolution
	}
	res, err := surface.ParseResolution(resolution)
	if err != nil {
		return 0, errors.InvalidInput(err.Error())
	}
	return res.Nodes(), nil
}
