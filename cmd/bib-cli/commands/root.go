package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bibassist-backend/lib/configutil"
	"bibassist-backend/lib/restyutil"
	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/lib/serviceutil"
	"bibassist-backend/services/catalogue"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// Config is read from config.json5 next to the working directory, with a
// config.local.json5 override for credentials kept out of version control.
type Config struct {
	BaseUrl  string             `json:"base_url"`
	Account  string             `json:"account"`
	Password string             `json:"password"`
	Settings catalogue.Settings `json:"settings"`
}

var dumpHttp *bool

var rootCmd = &cobra.Command{
	Use:   "bib-cli",
	Short: "bib-cli searches a webOPAC catalogue and manages a local wishlist.",
}

func init() {
	dumpHttp = rootCmd.PersistentFlags().Bool(
		"dump-http", false,
		"Write every HTTP exchange to .dev/resty for debugging.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.BaseUrl == "" {
		serviceutil.Fatal("invalid config", errors.New("base_url is required"))
	}
	return cfg
}

func newService(cfg Config) catalogue.Service {
	if *dumpHttp {
		webopac.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/bib-cli"))
	}
	return catalogue.NewService(catalogue.ServiceOptions{
		BaseUrl:  cfg.BaseUrl,
		Settings: cfg.Settings,
	})
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func availabilityCell(item webopac.Item) string {
	if item.Available {
		return "available"
	}
	if len(item.DueDates) > 0 {
		return "due " + item.DueDates[0]
	}
	return "unavailable"
}
