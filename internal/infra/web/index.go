package web

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const indexShell = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>notify-relay</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;max-width:720px;}
pre{background:#f5f5f5;border-radius:8px;padding:12px;overflow-x:auto;}
code{font-family:ui-monospace,monospace;}
</style>
</head>
<body>
%s
</body>
</html>`

// RenderIndex renders the README to the HTML page served at /. The result is
// computed once at startup; the page is static for the process lifetime.
func RenderIndex(readmePath string) ([]byte, error) {
	src, err := os.ReadFile(readmePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", readmePath, err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", readmePath, err)
	}
	return []byte(fmt.Sprintf(indexShell, buf.String())), nil
}

// FallbackIndex is served when no README is available.
func FallbackIndex() []byte {
	return []byte(fmt.Sprintf(indexShell, "<h1>notify-relay</h1><p>HTTP to Telegram notification relay.</p>"))
}
