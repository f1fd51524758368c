package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atdiar/regionui/internal/config"
)

func TestRenderPage(t *testing.T) {
	dir := t.TempDir()
	tmplDir := filepath.Join(dir, "templates")
	if err := os.Mkdir(tmplDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(tmplDir, "item.html"): "{{.title}}",
		filepath.Join(dir, "layout.yaml"): `
document: <html><body><ul id="list"></ul></body></html>
data:
  todos:
    sortBy: title
    rows: [{title: b}, {title: a}]
regions:
  list:
    selector: "#list"
    view: {kind: collection, tag: ol, data: todos, child: {tag: li, template: item.html}}
`,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c := config.Config{
		Layout:    filepath.Join(dir, "layout.yaml"),
		Templates: tmplDir,
		Output:    filepath.Join(dir, "index.html"),
	}
	env, closeEnv, err := newEnv(c)
	if err != nil {
		t.Fatal(err)
	}
	defer closeEnv()
	if err := renderPage(context.Background(), c, env); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(c.Output)
	if err != nil {
		t.Fatal(err)
	}
	compact := strings.Join(strings.Fields(string(out)), "")
	if !strings.Contains(compact, `<ulid="list"><ol><li>a</li><li>b</li></ol></ul>`) {
		t.Errorf("unexpected page:\n%s", out)
	}
}
