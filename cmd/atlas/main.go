// Command atlas is a graphical editor for DFN region files.
package main

import (
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/atlas-toolkit/pkg/settings"
)

func main() {
	var mapPath, settingsPath, logPath string
	cmd := &cobra.Command{
		Use:           "atlas [regions.dfn]",
		Short:         "Graphical editor for DFN region files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := settings.LoadDotEnv(); err != nil {
				return err
			}
			s, err := settings.Load(settingsPath)
			if err != nil {
				return err
			}
			if logPath == "" {
				logPath = s.LogFile
			}
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				log.SetOutput(io.MultiWriter(os.Stderr, f))
			}

			g := NewGame(s)
			if mapPath == "" {
				mapPath = s.MapPath
			}
			if mapPath != "" {
				if err := g.loadMap(mapPath); err != nil {
					if cmd.Flags().Changed("map") {
						return err
					}
					log.Printf("skipping saved map: %v", err)
				}
			}
			file := s.RegionPath
			if len(args) > 0 {
				file = args[0]
			}
			if file != "" {
				if err := g.loadFile(file); err != nil {
					if len(args) > 0 {
						return err
					}
					log.Printf("skipping saved region file: %v", err)
				}
			}
			g.fitView()

			ebiten.SetWindowSize(g.width, g.height)
			ebiten.SetWindowTitle(title)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowClosingHandled(true)
			return ebiten.RunGame(g)
		},
	}
	cmd.Flags().StringVar(&mapPath, "map", "", "map image shown under the regions")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file (default "+settings.DefaultPath()+")")
	cmd.Flags().StringVar(&logPath, "log", "", "also write diagnostics to this file")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
