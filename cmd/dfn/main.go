// Command dfn is a CLI tool for working with DFN region files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/atlas-toolkit/pkg/dfnfile"
	"github.com/ha1tch/atlas-toolkit/pkg/region"
)

const examples = `  dfn info regions.dfn
  dfn validate regions.dfn --strict
  dfn fmt regions.dfn -w
  dfn convert regions.dfn -o regions.json --pretty
  dfn render regions.dfn -o overview.png --map felucca.png
  dfn groups regions.dfn --group towns
  dfn tags regions.dfn`

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree writing to out and errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "dfn",
		Short:         "DFN region file toolkit",
		Long:          "dfn inspects, validates, reformats, converts and renders DFN region files.",
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		newInfoCmd(),
		newValidateCmd(),
		newFmtCmd(),
		newConvertCmd(),
		newRenderCmd(),
		newGroupsCmd(),
		newTagsCmd(),
	)
	return root
}

// loadRegions reads a region file by extension.
func loadRegions(path string) (*dfnfile.Result, error) {
	return dfnfile.Open(path)
}

// writeRegions writes regions by the extension of path.
func writeRegions(path string, regions []*region.Region, pretty bool) error {
	return dfnfile.Save(path, regions, pretty)
}
