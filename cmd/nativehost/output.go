package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/justyntemme/nativeplug/pkg/dsp/gain"
	"github.com/justyntemme/nativeplug/pkg/tags"
)

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func printSection(out io.Writer, title string) {
	for _, line := range renderSectionHeader(title, shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
}

// titleTags renders a tag set for display: "synth:delay" becomes "Delay, Synth".
func titleTags(set tags.Set) string {
	if set.Len() == 0 {
		return "-"
	}
	caser := cases.Title(language.Und)
	names := set.Sorted()
	for i, name := range names {
		names[i] = caser.String(name)
	}
	return strings.Join(names, ", ")
}

func formatDB(linear float32) string {
	db := gain.LinearToDb32(linear)
	if db <= gain.MinDB {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", db)
}

func formatFloat(v float32) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
