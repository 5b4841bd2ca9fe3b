// Package metadata writes the techdocs metadata template. The theme renders
// it as a static template, producing a JSON document with the site name and
// description.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// FileName is the template name registered with the theme.
const FileName = "techdocs_metadata.json"

// Template is written verbatim. Values go through tojson so control
// characters such as embedded newlines are escaped.
const Template = `{{ tojson (dict "site_name" (str .config.site_name) "site_description" (str .config.site_description)) }}`

// Write stores the template in dir and returns its path.
func Write(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(Template), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", FileName, err)
	}
	return path, nil
}

// Funcs returns the template functions the theme's static-template
// rendering provides.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"tojson": toJSON,
		"dict":   dict,
		"str":    str,
	}
}

// Render renders the template file at path with the site configuration
// exposed as .config.
func Render(path string, config map[string]any) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(filepath.Base(path)).Funcs(Funcs()).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{"config": config}); err != nil {
		return nil, fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	return buf.Bytes(), nil
}

// Document is the rendered metadata.
type Document struct {
	SiteName        string `json:"site_name"`
	SiteDescription string `json:"site_description"`
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// str stringifies a value; a missing value renders as the empty string.
func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
