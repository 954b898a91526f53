package main

import (
	"fmt"
	"strings"
)

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// flagNames returns "--long" and "-s" spellings of a flag.
func flagNames(f flagDef) []string {
	names := []string{"--" + f.Long}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	fn := "_" + programName + "_completions"

	fmt.Fprintf(&b, "# bash completion for %s\n\n", programName)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	fmt.Fprintf(&b, "    local commands=%q\n\n", strings.Join(commandNames, " "))

	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"${commands}\" -- \"${cur}\") )\n")
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "        %s)\n", cmd.Name)
		if len(cmd.Flags) > 0 {
			writeBashFlagValues(&b, cmd.Flags)
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(cmd.Args, " "))
		case len(cmd.Flags) > 0:
			var names []string
			for _, f := range cmd.Flags {
				names = append(names, flagNames(f)...)
			}
			b.WriteString("            if [[ \"${cur}\" == -* ]]; then\n")
			fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(names, " "))
			if cmd.TakesFiles {
				b.WriteString("            else\n")
				fmt.Fprintf(&b, "                COMPREPLY=( $(compgen -o plusdirs -f -X %s -- \"${cur}\") )\n", bashGlob(cmd.FilePattern))
			}
			b.WriteString("            fi\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("    return 0\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "complete -F %s %s\n", fn, programName)
	return b.String()
}

// writeBashFlagValues completes the value of the previous word's flag.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	b.WriteString("            case \"${prev}\" in\n")
	for _, f := range flags {
		var reply string
		switch f.Type {
		case flagEnum:
			reply = fmt.Sprintf("$(compgen -W %q -- \"${cur}\")", strings.Join(f.Values, " "))
		case flagFile:
			reply = fmt.Sprintf("$(compgen -o plusdirs -f -X %s -- \"${cur}\")", bashGlob(f.FileGlob))
		case flagDir:
			reply = "$(compgen -d -- \"${cur}\")"
		case flagString, flagInt:
			reply = ""
		default:
			continue
		}
		fmt.Fprintf(b, "                %s)\n", strings.Join(flagNames(f), "|"))
		fmt.Fprintf(b, "                    COMPREPLY=( %s )\n", reply)
		b.WriteString("                    return 0\n")
		b.WriteString("                    ;;\n")
	}
	b.WriteString("            esac\n")
}

// bashGlob builds a compgen -X exclusion pattern keeping only the globs.
func bashGlob(glob string) string {
	return "'!*.@(" + strings.Join(globExtensions(glob), "|") + ")'"
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	fn := "_" + programName

	fmt.Fprintf(&b, "#compdef %s\n\n", programName)
	fmt.Fprintf(&b, "%s() {\n", fn)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", cmd.Name, zshEscape(cmd.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    _arguments -C \\\n")
	b.WriteString("        '1:command:->command' \\\n")
	b.WriteString("        '*::arg:->args'\n\n")

	b.WriteString("    case $state in\n")
	b.WriteString("        command)\n")
	b.WriteString("            _describe 'command' commands\n")
	b.WriteString("            ;;\n")
	b.WriteString("        args)\n")
	b.WriteString("            case $words[1] in\n")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "                %s)\n", cmd.Name)
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(&b, "                    _values '%s' %s\n", cmd.Name, strings.Join(cmd.Args, " "))
		case len(cmd.Flags) > 0:
			b.WriteString("                    _arguments \\\n")
			for _, f := range cmd.Flags {
				fmt.Fprintf(&b, "                        %s \\\n", zshFlagSpec(f))
			}
			if cmd.TakesFiles {
				fmt.Fprintf(&b, "                        '*:file:_files -g \"*.(%s)\"'\n", strings.Join(globExtensions(cmd.FilePattern), "|"))
			} else {
				b.WriteString("                        '*: :'\n")
			}
		}
		b.WriteString("                    ;;\n")
	}
	b.WriteString("            esac\n")
	b.WriteString("            ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "compdef %s %s\n", fn, programName)
	return b.String()
}

// zshFlagSpec builds one _arguments spec, e.g.
// '(-o --output)'{-o,--output}'[output file or directory]:dir:_files -/'
func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagEnum:
		action = ":" + f.Long + ":(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		action = ":file:_files -g \"*.(" + strings.Join(globExtensions(f.FileGlob), "|") + ")\""
	case flagDir:
		action = ":directory:_files -/"
	case flagString, flagInt:
		action = ":" + f.Long + ":"
	}

	desc := "[" + zshEscape(f.Desc) + "]" + action
	if f.Short == "" {
		return "'--" + f.Long + desc + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s'", f.Short, f.Long, f.Short, f.Long, desc)
}

// zshEscape escapes characters with meaning inside _arguments specs.
func zshEscape(s string) string {
	return strings.NewReplacer(
		"'", `'\''`,
		"[", `\[`,
		"]", `\]`,
		":", `\:`,
	).Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(cmds []commandDef) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# fish completion for %s\n\n", programName)
	fmt.Fprintf(&b, "complete -c %s -f\n\n", programName)

	for _, cmd := range cmds {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_use_subcommand' -a %s -d '%s'\n",
			programName, cmd.Name, fishEscape(cmd.Desc))
	}
	b.WriteString("\n")

	for _, cmd := range cmds {
		cond := "'__fish_seen_subcommand_from " + cmd.Name + "'"
		if len(cmd.Args) > 0 {
			fmt.Fprintf(&b, "complete -c %s -n %s -a '%s'\n", programName, cond, strings.Join(cmd.Args, " "))
		}
		for _, f := range cmd.Flags {
			line := fmt.Sprintf("complete -c %s -n %s", programName, cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long + " -d '" + fishEscape(f.Desc) + "'"
			switch f.Type {
			case flagEnum:
				line += " -x -a '" + strings.Join(f.Values, " ") + "'"
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagInt:
				line += " -x"
			}
			b.WriteString(line + "\n")
		}
		if cmd.TakesFiles {
			fmt.Fprintf(&b, "complete -c %s -n %s -F\n", programName, cond)
		}
	}
	return b.String()
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s)
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# powershell completion for %s\n\n", programName)
	fmt.Fprintf(&b, "Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {\n", programName)
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	fmt.Fprintf(&b, "    $commands = @(%s)\n", psList(commandNames))
	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n\n")

	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $candidates = $commands\n")
	b.WriteString("    } else {\n")
	b.WriteString("        switch ($elements[1]) {\n")
	for _, cmd := range cmds {
		var values []string
		values = append(values, cmd.Args...)
		for _, f := range cmd.Flags {
			values = append(values, flagNames(f)...)
		}
		fmt.Fprintf(&b, "            '%s' { $candidates = @(%s) }\n", cmd.Name, psList(values))
	}
	b.WriteString("            default { $candidates = @() }\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")

	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// psList renders values as a quoted PowerShell array body.
func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
