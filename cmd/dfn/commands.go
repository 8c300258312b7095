package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/mapimage"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show region file information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadRegions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rects := 0
			tags := map[string]bool{}
			for _, r := range res.Regions {
				rects += len(r.Bounds)
				for k := range r.Tags {
					tags[k] = true
				}
			}
			fmt.Fprintf(out, "Blocks:      %d\n", res.Blocks)
			fmt.Fprintf(out, "Regions:     %d\n", len(res.Regions))
			fmt.Fprintf(out, "Dropped:     %d (other worlds)\n", len(res.Dropped))
			fmt.Fprintf(out, "Rectangles:  %d\n", rects)
			fmt.Fprintf(out, "Tag keys:    %d\n", len(tags))
			fmt.Fprintf(out, "Towns:       %d\n", len(region.FilterGroup(res.Regions, region.GroupTowns)))
			fmt.Fprintf(out, "Dungeons:    %d\n", len(region.FilterGroup(res.Regions, region.GroupDungeons)))

			if warnings := region.Analyse(res.Regions); len(warnings) > 0 {
				fmt.Fprintln(out)
				for _, w := range warnings {
					fmt.Fprintf(out, "Warning: %s\n", w.Message)
				}
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a region file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadRegions(args[0])
			if err != nil {
				return err
			}
			if err := region.Validate(res.Regions); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			warnings := region.Analyse(res.Regions)
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w.Message)
			}
			if strict && len(warnings) > 0 {
				return fmt.Errorf("validation failed: %d warning(s)", len(warnings))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid, %d regions, %d dropped\n",
				args[0], len(res.Regions), len(res.Dropped))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

func newFmtCmd() *cobra.Command {
	var output string
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a region file in canonical form",
		Long: "fmt parses a region file and writes it back with blocks numbered from 1 " +
			"and tags in key order. Blocks of other worlds are not kept.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadRegions(args[0])
			if err != nil {
				return err
			}
			if inPlace {
				output = args[0]
			}
			if output == "" {
				return dfnfile.Write(cmd.OutOrStdout(), res.Regions)
			}
			if err := dfnfile.WriteFile(output, res.Regions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite the input file")
	return cmd
}

func newConvertCmd() *cobra.Command {
	var output string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between DFN and JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			res, err := loadRegions(input)
			if err != nil {
				return err
			}

			if output == "" {
				// Default: swap extension
				ext := filepath.Ext(input)
				base := strings.TrimSuffix(input, ext)
				if strings.EqualFold(ext, ".json") {
					output = base + ".dfn"
				} else {
					output = base + ".json"
				}
			}
			if err := writeRegions(output, res.Regions, pretty); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dfn or .json)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}

func newRenderCmd() *cobra.Command {
	var (
		output  string
		mapPath string
		title   string
		group   string
		width   int
		maxDim  int
		noLabel bool
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a region overview to PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("an output file is required (-o overview.png|svg)")
			}
			g, err := region.ParseGroup(group)
			if err != nil {
				return err
			}
			res, err := loadRegions(args[0])
			if err != nil {
				return err
			}
			regions := region.FilterGroup(res.Regions, g)

			ext := strings.ToLower(filepath.Ext(output))
			if ext != ".png" && ext != ".svg" {
				return fmt.Errorf("unknown output format: %s", filepath.Ext(output))
			}
			var bg image.Image
			if ext == ".png" && mapPath != "" {
				if bg, err = mapimage.Load(mapPath, maxDim); err != nil {
					return err
				}
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			if ext == ".svg" {
				opts := dfnfile.DefaultSVGOptions()
				opts.Width, opts.Height = width, 0
				opts.Title = title
				opts.Labels = !noLabel
				opts.Background = mapPath
				err = dfnfile.RenderSVG(f, regions, opts)
			} else {
				opts := dfnfile.DefaultPNGOptions()
				opts.Width, opts.Height = width, 0
				opts.Title = title
				opts.Labels = !noLabel
				err = dfnfile.RenderPNG(f, regions, bg, opts)
			}
			if err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s (%d regions)\n", output, len(regions))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.png or .svg)")
	cmd.Flags().StringVar(&mapPath, "map", "", "map image drawn under the regions")
	cmd.Flags().StringVarP(&title, "title", "t", "", "overview title")
	cmd.Flags().StringVarP(&group, "group", "g", "all", "region group: all, towns, dungeons")
	cmd.Flags().IntVar(&width, "width", dfnfile.DefaultOverviewWidth, "image width in pixels")
	cmd.Flags().IntVar(&maxDim, "max-dim", mapimage.DefaultMaxDimension, "downscale the map image to this size first")
	cmd.Flags().BoolVar(&noLabel, "no-labels", false, "omit region names")
	return cmd
}

func newGroupsCmd() *cobra.Command {
	var group, search string
	cmd := &cobra.Command{
		Use:   "groups <file>",
		Short: "List regions, optionally by group or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := region.ParseGroup(group)
			if err != nil {
				return err
			}
			res, err := loadRegions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			entries := region.List(res.Regions, g, search)
			for _, e := range entries {
				fmt.Fprintf(out, "%-32s %d rect(s)\n", region.DisplayName(e.Index, e.Region), len(e.Region.Bounds))
			}
			fmt.Fprintf(out, "%s: %d of %d regions\n", g, len(entries), len(res.Regions))
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "all", "region group: all, towns, dungeons")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")
	return cmd
}

func newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags [file]",
		Short: "List known tags, or tag usage in a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, t := range region.KnownTags() {
					fmt.Fprintf(out, "%-12s %s\n", t.Key, t.Description)
				}
				return nil
			}

			res, err := loadRegions(args[0])
			if err != nil {
				return err
			}
			counts := map[string]int{}
			for _, r := range res.Regions {
				for k := range r.Tags {
					counts[k]++
				}
			}
			keys := make([]string, 0, len(counts))
			for k := range counts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				desc, ok := region.DescribeTag(k)
				if !ok {
					desc = "(custom)"
				}
				fmt.Fprintf(out, "%-12s %5d  %s\n", k, counts[k], desc)
			}
			return nil
		},
	}
}
