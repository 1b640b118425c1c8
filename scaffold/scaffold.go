// Package scaffold creates a starter content directory for a new eatery
// site: sample blogs, locations, menu, route table and .env.example.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	SiteName    string
}

// NewData derives template data from the target directory name.
func NewData(dir string) Data {
	name := filepath.Base(filepath.Clean(dir))
	return Data{ProjectName: name, SiteName: ToTitle(name)}
}

// Write renders every template into dir, which must not exist yet. Each
// created file is reported on out.
func Write(dir string, data Data, out io.Writer) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	const root = "templates"
	return fs.WalkDir(Templates, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		outPath := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(rel, ".tmpl")))
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := Templates.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		if !strings.HasSuffix(p, ".tmpl") {
			if err := os.WriteFile(outPath, content, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(out, "  created %s\n", outPath)
			return nil
		}

		tmpl, err := template.New(path.Base(p)).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", p, err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", p, err)
		}

		fmt.Fprintf(out, "  created %s\n", outPath)
		return nil
	})
}

// ToTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "taco-shack" -> "Taco Shack", "tacos" -> "Tacos"
func ToTitle(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
