package api

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const apiTitle = "Photo Slideshow API"

// docsPage renders an API reference page that loads the OpenAPI document
// from specURL.
func docsPage(specURL string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html>
<head>
<meta charset="utf-8" />
<title>`+templ.EscapeString(apiTitle)+`</title>
</head>
<body>
<script id="api-reference" data-url="`+templ.EscapeString(specURL)+`"></script>
<script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>
`)
		return err
	})
}
