// Package http exposes the analysis pipeline over a chi HTTP API: running
// analyses over the bundled dataset or uploaded CSVs, and downloading the
// result artifacts.
package http
