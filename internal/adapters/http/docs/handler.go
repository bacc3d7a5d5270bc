// Package docs serves the API guide and the OpenAPI document.
package docs

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// OpenAPI contains the OpenAPI YAML document.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Guide is the markdown source of the /docs page.
//
//go:embed guide.md
var Guide []byte

var md = goldmark.New( //nolint:gochecknoglobals // shared renderer
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
)

var (
	renderOnce sync.Once //nolint:gochecknoglobals // page is rendered once
	page       []byte    //nolint:gochecknoglobals
	renderErr  error     //nolint:gochecknoglobals
)

// Render converts the guide to a full HTML page.
func Render() ([]byte, error) {
	renderOnce.Do(func() {
		var body bytes.Buffer
		if err := md.Convert(Guide, &body); err != nil {
			renderErr = fmt.Errorf("render guide: %w", err)
			return
		}
		var buf bytes.Buffer
		buf.WriteString(pageHead)
		buf.Write(body.Bytes())
		buf.WriteString(pageTail)
		page = buf.Bytes()
	})
	return page, renderErr
}

// Register attaches the documentation routes to mux.
//
//	GET /docs          -> rendered guide
//	GET /openapi.yaml  -> OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /docs", func(w http.ResponseWriter, _ *http.Request) {
		html, err := Render()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

const pageHead = `<!doctype html>
<html lang="zh-CN">
  <head>
    <meta charset="utf-8">
    <title>体测评分与运动会编排 API</title>
    <style>
      body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;line-height:1.5}
      code,pre{background:#f5f5f5;border-radius:4px}
      pre{padding:.75rem;overflow:auto}
      table{border-collapse:collapse}
      td,th{border:1px solid #ddd;padding:.25rem .5rem}
    </style>
  </head>
  <body>
`

const pageTail = `
    <p><a href="/openapi.yaml">openapi.yaml</a></p>
  </body>
</html>
`
