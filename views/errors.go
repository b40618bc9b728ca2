package views

import (
	"io"

	"github.com/a-h/templ"
)

func NotFound() templ.Component {
	return layout("Not found", func(w io.Writer) error {
		_, err := io.WriteString(w, "<h1>Not found</h1><p>The page you asked for does not exist.</p>")
		return err
	})
}

func ServerError() templ.Component {
	return layout("Server error", func(w io.Writer) error {
		_, err := io.WriteString(w, "<h1>Something went wrong</h1><p>Please try again later.</p>")
		return err
	})
}
