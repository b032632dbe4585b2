package repo

import (
	"bufio"
	"bytes"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5/util"
)

// IgnoreFile lists glob patterns for working files that status and "add ."
// should not report or pick up.
const IgnoreFile = ".gitletignore"

// IgnoreChecker determines if a working file should be ignored.
type IgnoreChecker struct {
	patterns []ignorePattern

	// exact literals resolved without glob matching
	exact map[string][]int
	globs []int
}

type ignorePattern struct {
	pattern string
	negated bool
}

// NewIgnoreChecker builds a checker from the ignore file contents. Lines
// are glob patterns matched against plain file names; blank lines and lines
// starting with # are skipped; a leading ! re-includes a name.
func NewIgnoreChecker(data []byte) *IgnoreChecker {
	ic := &IgnoreChecker{exact: make(map[string][]int)}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if p := parseLine(scanner.Text()); p != nil {
			ic.patterns = append(ic.patterns, *p)
		}
	}

	for i, p := range ic.patterns {
		if strings.ContainsAny(p.pattern, "*?[\\") {
			ic.globs = append(ic.globs, i)
		} else {
			ic.exact[p.pattern] = append(ic.exact[p.pattern], i)
		}
	}
	return ic
}

// parseLine parses a single ignore-file line. Returns nil if the line is
// empty, a comment, or not a valid glob.
func parseLine(line string) *ignorePattern {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	// The working directory is flat; a trailing slash or leading slash
	// carries no meaning.
	line = strings.Trim(line, "/")
	if line == "" {
		return nil
	}
	if _, err := path.Match(line, ""); err != nil {
		return nil
	}
	p.pattern = line
	return p
}

// IsIgnored checks whether a file name should be ignored.
//
// Last matching pattern wins (to support negation).
func (ic *IgnoreChecker) IsIgnored(name string) bool {
	if ic == nil || len(ic.patterns) == 0 {
		return false
	}

	lastMatch := -1
	apply := func(idx int) {
		if idx > lastMatch {
			lastMatch = idx
		}
	}
	for _, idx := range ic.exact[name] {
		apply(idx)
	}
	for _, idx := range ic.globs {
		if ok, _ := path.Match(ic.patterns[idx].pattern, name); ok {
			apply(idx)
		}
	}

	if lastMatch < 0 {
		return false
	}
	return !ic.patterns[lastMatch].negated
}

// ignoreChecker loads the ignore file from the working directory. A
// missing or unreadable file ignores nothing.
func (r *Repo) ignoreChecker() *IgnoreChecker {
	data, err := util.ReadFile(r.Work, IgnoreFile)
	if err != nil {
		return NewIgnoreChecker(nil)
	}
	return NewIgnoreChecker(data)
}
