package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/mapview/internal/debugserver"
	"github.com/kiesman99/mapview/internal/renderer"
	"github.com/kiesman99/mapview/internal/termview"
	"github.com/kiesman99/mapview/pkg/projection"
	"github.com/kiesman99/mapview/pkg/tilesource"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mapview",
	Short: "A terminal slippy-map viewer rendered with Unicode Braille",
	Long: `mapview fetches Mapbox Vector Tiles from an XYZ tile server, decodes
their geometry, and renders the visible map as Unicode Braille glyphs
directly in your terminal.

Examples:
  # View the world from Paris
  mapview --lat 48.8566 --lon 2.349 --tileserver https://tiles.example.com

  # Run without a network, against an empty dummy tile source
  mapview --tileserver dummy`,
	RunE: runMapview,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mapview.yaml)")

	rootCmd.Flags().String("tileserver", "dummy", "tile server base URL, or \"dummy\" for an offline empty source")
	rootCmd.Flags().Float64("lat", 48.8566, "initial center latitude")
	rootCmd.Flags().Float64("lon", 2.349, "initial center longitude")
	rootCmd.Flags().Int("cache-size", 256, "maximum number of tiles held in the LRU cache")
	rootCmd.Flags().String("debug-addr", "", "if set, serve /healthz and /debug/state on this address (e.g. localhost:6060)")
	rootCmd.Flags().Int("zoom", 0, "initial integer zoom level (0-14)")

	viper.BindPFlag("tileserver", rootCmd.Flags().Lookup("tileserver"))
	viper.BindPFlag("lat", rootCmd.Flags().Lookup("lat"))
	viper.BindPFlag("lon", rootCmd.Flags().Lookup("lon"))
	viper.BindPFlag("cache-size", rootCmd.Flags().Lookup("cache-size"))
	viper.BindPFlag("debug-addr", rootCmd.Flags().Lookup("debug-addr"))
	viper.BindPFlag("zoom", rootCmd.Flags().Lookup("zoom"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mapview")
	}

	viper.SetEnvPrefix("mapview")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runMapview(cmd *cobra.Command, args []string) error {
	source, err := buildSource(viper.GetString("tileserver"), viper.GetInt("cache-size"))
	if err != nil {
		return fmt.Errorf("building tile source: %w", err)
	}

	term, err := termview.NewTcellAdapter()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer term.Close()

	cols, rows := term.Size()
	pixelW, pixelH := fitFramebufferSize(cols*2, (rows-1)*4) // reserve the top row for the status line

	center := projection.Coords{Lat: viper.GetFloat64("lat"), Lon: viper.GetFloat64("lon")}
	rend := renderer.NewAtZoom(pixelW, pixelH, center, viper.GetInt("zoom"), source)

	if addr := viper.GetString("debug-addr"); addr != "" {
		startDebugServer(addr, rend)
	}

	return runLoop(cmd, term, rend)
}

// buildSource constructs the tile source stack: "dummy" is an offline
// empty source, anything else is treated as an HTTP tile server base URL,
// both wrapped in the LRU cache per the single-threaded caching contract.
func buildSource(tileserver string, cacheSize int) (tilesource.Source, error) {
	var upstream tilesource.Source
	if tileserver == "dummy" {
		upstream = tilesource.DummySource{}
	} else {
		upstream = tilesource.NewServerSource(tileserver)
	}
	return tilesource.NewCachedSource(upstream, cacheSize)
}

func startDebugServer(addr string, rend *renderer.Renderer) {
	srv := debugserver.New(rend)
	go func() {
		if err := http.ListenAndServe(addr, srv); err != nil {
			fmt.Fprintf(os.Stderr, "debug server on %s stopped: %v\n", addr, err)
		}
	}()
}

// fitFramebufferSize rounds w down to a multiple of 2 and h down to a
// multiple of 4, the Braille packer's divisibility requirement.
func fitFramebufferSize(w, h int) (int, int) {
	w -= w % 2
	h -= h % 4
	if w < 2 {
		w = 2
	}
	if h < 4 {
		h = 4
	}
	return w, h
}

func runLoop(cmd *cobra.Command, term *termview.TcellAdapter, rend *renderer.Renderer) error {
	ctx := context.Background()

	for {
		rend.Draw(ctx)

		term.Clear()
		term.PrintLine(0, rend.StatusLine())
		for i, line := range rend.ToBraille() {
			term.PrintLine(i+1, line)
		}
		term.Refresh()

		key, err := term.ReadKey()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}

		switch key {
		case 'a':
			rend.ZoomIn()
		case 'z':
			rend.ZoomOut()
		case 'h':
			rend.Pan(renderer.PanLeft)
		case 'l':
			rend.Pan(renderer.PanRight)
		case 'k':
			rend.Pan(renderer.PanUp)
		case 'j':
			rend.Pan(renderer.PanDown)
		case 's':
			rend.ToggleSimplify()
		case 'g':
			rend.ToggleHighQuality()
		case '+':
			rend.ScaleTolerance(renderer.ToleranceFactor)
		case '-':
			rend.ScaleTolerance(1 / renderer.ToleranceFactor)
		case 'q':
			return nil
		}
	}
}
