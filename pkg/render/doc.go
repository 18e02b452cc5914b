// Package render turns the account form and its feedback into an HTML page.
// Pages are produced by a template.TemplateRenderer (pongo2 in production)
// from the embedded templates/form.tpl. Theme tokens become CSS custom
// properties and optional intro markup is sanitised before it is emitted.
package render
