package report

import (
	"bytes"
	"fmt"
	"html/template"
)

// The bottom page margin leaves room before each automatic page break.
var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 10mm 10mm 15mm 10mm; }
body { font-family: Arial, Helvetica, sans-serif; font-size: 10pt; margin: 0; }
h1 { font-size: 12pt; font-weight: normal; text-align: center; margin: 0 0 6mm; }
h2 { font-size: 11pt; margin: 0 0 1mm; }
p { margin: 0; line-height: 6mm; }
a { color: inherit; }
hr { border: 0; border-top: 0.3mm solid #000; margin: 3mm 0 4mm; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Blocks}}<section class="listing">
<h2>{{.Heading}}</h2>
{{range .Lines}}<p>{{if .Href}}<a href="{{.Href}}">{{.Text}}</a>{{else}}{{.Text}}{{end}}</p>
{{end}}<hr>
</section>
{{end}}</body>
</html>
`))

// RenderHTML renders the document as a printable HTML page.
func RenderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("report: render html: %w", err)
	}
	return buf.Bytes(), nil
}
