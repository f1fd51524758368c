package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/atdiar/regionui/templates"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "watch renders the page again whenever a template changes.",
	Long: `
		Watch renders the page once, then watches the templates directory and
		renders the page again after the modified templates were evicted from
		the template cache. It stops on interrupt.
	`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Templates == "" {
			return errors.New("watch needs a templates directory")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		env, closeEnv, err := newEnv(cfg)
		if err != nil {
			return err
		}
		defer closeEnv()

		if err := renderPage(ctx, cfg, env); err != nil {
			return err
		}

		var mu sync.Mutex
		templates.WatchDebounce = cfg.WatchDebounce
		return templates.Watch(ctx, cfg.Templates, env.Renderer.Cache, func(ids []string) {
			mu.Lock()
			defer mu.Unlock()
			if verbose {
				log.Println("templates changed:", strings.Join(ids, ", "))
			}
			if err := renderPage(context.WithoutCancel(ctx), cfg, env); err != nil {
				log.Println("render:", err)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
