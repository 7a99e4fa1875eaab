package main

import (
	"fmt"
	"html/template"

	webassets "github.com/johnqtcg/giteaview/web"
)

func loadTemplate() (*template.Template, error) {
	tmpl, err := template.ParseFS(webassets.FS, "templates/index.html")
	if err == nil {
		return tmpl, nil
	}

	fallback, fallbackErr := template.New("index").Parse(defaultIndexTemplate)
	if fallbackErr != nil {
		return nil, fmt.Errorf("parse embedded template: %w", err)
	}
	return fallback, nil
}

const defaultIndexTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>giteaview</title>
</head>
<body data-kind="{{ .Kind }}" data-ref="{{ .Ref }}">
  <h1>giteaview: {{ .Owner }}/{{ .Repo }}</h1>
  <p>Static assets are unavailable; export an item as markdown instead.</p>
  <form method="post" action="/export">
    <input name="ref" required placeholder="issues/1">
    <button type="submit">Export</button>
  </form>
</body>
</html>`
