// Package cmd implements the quasi subcommands.
//
// Every command reads one expression, from its argument, the global
// --source files, or standard input, and runs some prefix of the pipeline
// parse, capture, expand, evaluate:
//
//	fmt     parse, then print the tree
//	expand  parse, capture, expand, then print the expanded tree
//	eval    the whole pipeline with one data mask from --mask
//	rows    the whole pipeline with one data mask per dataset row
//	repl    the whole pipeline once per line typed
//
// The capture scope is built from --bind flags and the "bind" and "quotes"
// sections of a --dataset file, over the builtin scope.
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the configuration file
	// path.
	ConfigIdentifier = "config"
)
