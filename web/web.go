// Package web holds the embedded front-end entry point. Every path the
// API does not claim serves this page.
package web

import _ "embed"

//go:embed index.html
var Index []byte
