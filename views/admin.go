// Package views holds the default HTML components of the admin screen and
// the error pages.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/sitemaps/sitemap"
)

const pageStyle = `body{font-family:sans-serif;font-size:14px;color:#333;margin:2em}
table{border-collapse:collapse;width:100%}th,td{padding:6px;text-align:left;border-bottom:1px solid #eee}
.msg{background:#eef6ee;padding:8px;margin-bottom:1em}.muted{color:#999}form{display:inline}`

func layout(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>%s</title><style>%s</style></head><body>",
			html.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func csrfField(token string) string {
	return `<input type="hidden" name="_csrf" value="` + html.EscapeString(token) + `">`
}

// AdminLogin renders the password form.
func AdminLogin(showError bool, csrfToken string) templ.Component {
	return layout("Admin login", func(w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>Admin</h1>")
		if showError {
			b.WriteString(`<p class="msg">Wrong password.</p>`)
		}
		b.WriteString(`<form method="post" action="/admin/login/">`)
		b.WriteString(csrfField(csrfToken))
		b.WriteString(`<input type="password" name="password" autofocus> <button type="submit">Log in</button></form>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// AdminDashboard lists the pages with their sitemap priority, publish
// state and attached images.
func AdminDashboard(pages []PageRow, options []sitemap.PriorityOption, message, csrfToken string) templ.Component {
	return layout("Sitemap admin", func(w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Pages</h1>`)
		if message != "" {
			b.WriteString(`<p class="msg">` + html.EscapeString(message) + `</p>`)
		}
		b.WriteString(`<p><a href="/sitemap.xml">sitemap.xml</a> · <form method="post" action="/admin/logout/">` +
			csrfField(csrfToken) + `<button type="submit">Log out</button></form></p>`)
		b.WriteString(`<table><tr><th>Page</th><th>Priority</th><th>In sitemap</th><th>Images</th><th></th></tr>`)
		for _, p := range pages {
			writePageRow(&b, p, options, csrfToken)
		}
		b.WriteString(`</table>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePageRow(b *strings.Builder, p PageRow, options []sitemap.PriorityOption, csrfToken string) {
	base := fmt.Sprintf("/admin/page/%d/", p.ID)
	b.WriteString(`<tr><td>` + html.EscapeString(p.Title))
	b.WriteString(` <span class="muted">` + html.EscapeString(p.Link) + `</span></td>`)

	b.WriteString(`<td><form method="post" action="` + base + `priority/">` + csrfField(csrfToken) + `<select name="priority">`)
	for _, o := range options {
		sel := ""
		if o.Value == p.Priority {
			sel = " selected"
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, html.EscapeString(o.Value), sel, html.EscapeString(o.Label))
	}
	b.WriteString(`</select> <button type="submit">Set</button></form></td>`)

	switch {
	case p.InSitemap:
		b.WriteString(`<td>yes (` + html.EscapeString(p.Effective) + `)</td>`)
	case !p.Published:
		b.WriteString(`<td class="muted">draft</td>`)
	default:
		b.WriteString(`<td class="muted">no</td>`)
	}

	fmt.Fprintf(b, `<td>%d <form method="post" action="%simages/" enctype="multipart/form-data">%s<input type="file" name="image" accept="image/*"> <button type="submit">Upload</button></form></td>`,
		p.Images, base, csrfField(csrfToken))

	action, label := "unpublish/", "Unpublish"
	if !p.Published {
		action, label = "publish/", "Publish"
	}
	b.WriteString(`<td><form method="post" action="` + base + action + `">` + csrfField(csrfToken) +
		`<button type="submit">` + label + `</button></form></td></tr>`)
}
