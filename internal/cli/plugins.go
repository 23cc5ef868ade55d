package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/merlai/merlai-api/internal/config"
	"github.com/merlai/merlai-api/internal/plugins"
)

var (
	pluginDirs       []string
	pluginScanOut    string
	recommendStyle   string
	recommendInstrum string
)

var scanPluginsCmd = &cobra.Command{
	Use:   "scan-plugins",
	Short: "Scan plugin directories and list what was found",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newPluginManager()
		found := mgr.Scan()

		if len(found) == 0 {
			fmt.Println("No plugins found")
			return nil
		}
		for _, p := range found {
			fmt.Printf("%-30s %-10s %s\n", p.Name, p.PluginType, p.FilePath)
		}
		fmt.Printf("%d plugins\n", len(found))

		if pluginScanOut != "" {
			if err := mgr.ExportConfig(pluginScanOut); err != nil {
				return err
			}
			fmt.Printf("Catalog written to %s\n", pluginScanOut)
		}
		return nil
	},
}

var recommendPluginsCmd = &cobra.Command{
	Use:   "recommend-plugins",
	Short: "Recommend plugins for a style and instrument type",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := newPluginManager()
		mgr.Scan()

		recommended := mgr.Recommend(recommendStyle, recommendInstrum)
		if len(recommended) == 0 {
			fmt.Println("No matching plugins")
			return nil
		}
		for i, p := range recommended {
			fmt.Printf("%d. %-30s %s\n", i+1, p.Name, p.PluginType)
		}
		return nil
	},
}

func newPluginManager() *plugins.Manager {
	dirs := pluginDirs
	if len(dirs) == 0 {
		dirs = config.Load().PluginDirectories
	}
	if len(dirs) == 0 {
		dirs = plugins.DefaultDirectories()
	}
	return plugins.NewManager(dirs...)
}

func init() {
	for _, cmd := range []*cobra.Command{scanPluginsCmd, recommendPluginsCmd} {
		cmd.Flags().StringSliceVarP(&pluginDirs, "dir", "d", nil, "plugin directory to scan (repeatable)")
	}
	scanPluginsCmd.Flags().StringVarP(&pluginScanOut, "output", "o", "", "write the catalog to a JSON file")
	recommendPluginsCmd.Flags().StringVarP(&recommendStyle, "style", "s", "pop", "music style to match")
	recommendPluginsCmd.Flags().StringVarP(&recommendInstrum, "instrument", "i", "lead", "instrument type to match")
}
