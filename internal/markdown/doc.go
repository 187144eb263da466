// Package markdown loads markdown files from disk, splits off their front
// matter, parses the body with goldmark, runs the configured transform
// pipeline over the tree and renders it to HTML.
package markdown
