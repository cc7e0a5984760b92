package mailservice

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewTemplates parses every embedded template. Each file must define subject, plainBody and htmlBody.
func NewTemplates() (*Templates, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	set := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := path.Base(f)

		t, err := template.New(name).ParseFS(templateFS, f)
		if err != nil {
			return nil, fmt.Errorf("could not parse template %s: %w", name, err)
		}

		set[name] = t
	}

	return &Templates{set: set}, nil
}

func (tp *Templates) Render(name string, data any) (*Rendered, error) {
	t, ok := tp.set[name]
	if !ok {
		return nil, fmt.Errorf("unknown mail template %q", name)
	}

	var out Rendered
	parts := []struct {
		block string
		dst   *string
	}{
		{"subject", &out.Subject},
		{"plainBody", &out.Plain},
		{"htmlBody", &out.HTML},
	}

	for _, p := range parts {
		var b strings.Builder
		if err := t.ExecuteTemplate(&b, p.block, data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		*p.dst = strings.TrimSpace(b.String())
	}

	return &out, nil
}
