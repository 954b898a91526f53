package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"
)

// Shell is a completion script target.
type Shell string

const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// programName is the binary name completion scripts register for.
const programName = "storage2md"

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// Completion hints ride on the FlagSet as pflag annotations, so the flag
// definitions in flags.go stay the only list of flags.
const (
	annotationValues = "storage2md/values" // fixed choices
	annotationGlob   = "storage2md/glob"   // file patterns such as "*.css"
	annotationDir    = "storage2md/dir"    // any value marks a directory flag
)

type flagType int

const (
	flagString flagType = iota
	flagBool
	flagInt
	flagEnum
	flagFile
	flagDir
)

// flagDef is one flag as the script generators see it.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // flagEnum
	FileGlob string   // flagFile, comma separated
}

// commandDef is one subcommand as the script generators see it.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values
	TakesFiles  bool
	FilePattern string
}

// annotateCompletion attaches completion hints to the convert flags.
func annotateCompletion(fs *flag.FlagSet) {
	hints := []struct {
		flag, key string
		values    []string
	}{
		{"config", annotationGlob, []string{"*.yaml", "*.yml"}},
		{"style", annotationGlob, []string{"*.css"}},
		{"output", annotationDir, []string{"true"}},
		{"images-dir", annotationDir, []string{"true"}},
		{"asset-path", annotationDir, []string{"true"}},
		{"highlight-style", annotationValues, highlightStyleNames()},
	}
	for _, h := range hints {
		// Only fails for unknown flags, which the completion tests catch.
		_ = fs.SetAnnotation(h.flag, h.key, h.values)
	}
}

// highlightStyleNames lists the chroma styles compiled into the binary.
func highlightStyleNames() []string {
	names := slices.Clone(styles.Names())
	slices.Sort(names)
	return names
}

// extractFlags converts a FlagSet into flagDefs, in pflag's sorted order.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		def := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			def.Type = flagBool
		case "int", "int64", "uint", "uint64":
			def.Type = flagInt
		}

		if values := f.Annotations[annotationValues]; len(values) > 0 {
			def.Type = flagEnum
			def.Values = values
		} else if globs := f.Annotations[annotationGlob]; len(globs) > 0 {
			def.Type = flagFile
			def.FileGlob = strings.Join(globs, ",")
		} else if _, ok := f.Annotations[annotationDir]; ok {
			def.Type = flagDir
		}

		defs = append(defs, def)
	})
	return defs
}

var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

var commandNames = []string{"convert", "version", "help", "completion"}

// getCommands describes every subcommand for the script generators.
func getCommands() []commandDef {
	inputGlobs := make([]string, len(defaultExtensions))
	for i, ext := range defaultExtensions {
		inputGlobs[i] = "*" + ext
	}

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert Confluence storage documents to Markdown",
			Flags:       extractFlags(newConvertFlagSet(&convertFlags{})),
			TakesFiles:  true,
			FilePattern: strings.Join(inputGlobs, ","),
		},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command", Args: commandNames},
		{Name: "completion", Desc: "Generate shell completion script", Args: supportedShells},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	generators := map[Shell]func([]commandDef) string{
		ShellBash:       generateBash,
		ShellZsh:        generateZsh,
		ShellFish:       generateFish,
		ShellPowerShell: generatePowerShell,
	}
	generate, ok := generators[shell]
	if !ok {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}

	_, err := io.WriteString(w, generate(getCommands()))
	return err
}

func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: %[1]s completion <shell>

Print a shell completion script.

Supported shells: %[2]s

Installation:
  bash        eval "$(%[1]s completion bash)"            in ~/.bashrc
  zsh         eval "$(%[1]s completion zsh)"             in ~/.zshrc, after compinit
  fish        %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish
  powershell  %[1]s completion powershell | Out-String | Invoke-Expression   in $PROFILE
`, programName, strings.Join(supportedShells, ", "))
}
