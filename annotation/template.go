package annotation

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/abiosoft/mold"
	"github.com/russross/blackfriday/v2"
)

var (
	//go:embed templates/*
	templateFS embed.FS

	engine mold.Engine

	// TemplateFuncMap contains custom template functions available to
	// every page.
	TemplateFuncMap = template.FuncMap{
		"markdown": func(text string) template.HTML {
			return template.HTML(blackfriday.Run([]byte(text)))
		},
	}
)

func init() {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	engine, err = mold.New(sub, mold.WithFuncMap(TemplateFuncMap))
	if err != nil {
		panic(err)
	}
}

// TemplateContent is what every page receives: a title and a markdown
// body rendered through the layout.
type TemplateContent struct {
	Title   string
	Content string
}

// ExecTemplate renders content through the mold layout.
func ExecTemplate(w io.Writer, content TemplateContent) error {
	return engine.Render(w, "index.html", content)
}
