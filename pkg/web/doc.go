// Package web serves the account form over HTTP with gin.
//
// GET renders an empty form. POST parses the multipart body into a fresh
// controller, submits it and re-renders the page with field errors, the
// success message or the generic failure notice. Each request owns its
// controller so no form state is shared between visitors.
package web
