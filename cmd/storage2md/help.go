package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: storage2md <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert Confluence storage documents to Markdown")
	fmt.Fprintln(w, "  completion  Generate a shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'storage2md help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: storage2md convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Confluence storage format documents to Markdown.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Document or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           Accepted extensions: .xml, .html, .storage, plus input.extensions")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --manifest             Write <name>.assets.yaml listing assets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --compact-tables       Skip table column padding")
	fmt.Fprintln(w, "      --preserve-anchors     Keep anchor macros as <a id> tags")
	fmt.Fprintln(w, "      --no-images            Render images as their alt text")
	fmt.Fprintln(w, "      --images-dir <dir>     Directory prefixed to image and attachment links")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Links:")
	fmt.Fprintln(w, "      --page-suffix <s>      Suffix appended to page links (default .md)")
	fmt.Fprintln(w, "      --slugify-links        \"Release Notes\" -> release-notes.md")
	fmt.Fprintln(w, "      --user-url <url>       User mention URL, e.g. https://wiki/people/{user}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Front Matter:")
	fmt.Fprintln(w, "      --front-matter         Prepend title, source and date as YAML")
	fmt.Fprintln(w, "      --date <s>             \"auto\" (today), \"modified\" (file time), or literal")
	fmt.Fprintln(w, "                             Add :FORMAT, e.g. auto:DD/MM/YYYY or modified:long")
	fmt.Fprintln(w, "                             Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "                             Presets (case-insensitive): iso, european, us, long, datetime")
	fmt.Fprintln(w, "                             Use [text] to escape literals: [Updated] YYYY")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Preview:")
	fmt.Fprintln(w, "      --html                 Write <name>.preview.html next to each document")
	fmt.Fprintln(w, "      --style <name|path>    Preview CSS style name or file path")
	fmt.Fprintln(w, "      --highlight-style <s>  Chroma style for code blocks (default github)")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom style directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show timing and warnings")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: storage2md version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: storage2md help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
