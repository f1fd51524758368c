package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/atdiar/regionui/internal/config"
	"github.com/atdiar/regionui/layout"
	"github.com/atdiar/regionui/templates"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "render writes the page described by the layout file as html.",
	Example: `
		regionui render --layout site/page.yaml --templates site/templates -o index.html
		REGIONUI_DB=data.db regionui render
	`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, closeEnv, err := newEnv(cfg)
		if err != nil {
			return err
		}
		defer closeEnv()
		return renderPage(cmd.Context(), cfg, env)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func newRenderer(c config.Config) *templates.Renderer {
	if c.Templates == "" {
		return templates.NewRenderer(nil)
	}
	return templates.NewRenderer(templates.NewCache(templates.FSLoader{FS: os.DirFS(c.Templates)}))
}

// newEnv opens what the layout needs. The returned function releases it.
func newEnv(c config.Config) (layout.Env, func(), error) {
	env := layout.Env{Renderer: newRenderer(c)}
	if c.DB == "" {
		return env, func() {}, nil
	}
	db, err := sql.Open("sqlite", c.DB)
	if err != nil {
		return env, nil, fmt.Errorf("opening database: %w", err)
	}
	env.DB = db
	return env, func() { db.Close() }, nil
}

func renderPage(ctx context.Context, c config.Config, env layout.Env) error {
	page, err := layout.ParseFile(c.Layout)
	if err != nil {
		return err
	}
	built, err := layout.Build(ctx, page, env)
	if err != nil {
		return err
	}
	defer built.Destroy()

	out, err := built.Render()
	if err != nil {
		return err
	}
	if c.Output == "" {
		_, err = fmt.Fprintln(os.Stdout, out)
		return err
	}
	if verbose {
		fmt.Println("writing", c.Output)
	}
	return os.WriteFile(c.Output, []byte(out), 0o644)
}
