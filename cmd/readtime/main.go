// Package main provides the entry point for the readtime CLI.
//
// readtime estimates reading time for markdown files and builds static sites
// whose pages carry the estimate.
//
// Usage:
//
//	readtime estimate post.md
//	readtime build --config readtime.yaml
//
// See --help for all available options.
package main

func main() {
	Execute()
}
