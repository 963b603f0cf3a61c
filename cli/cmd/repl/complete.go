package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the command-mode verbs.
var ctrlCommands = []string{"bind", "clear", "edit", "expand", "help", "names", "quit", "quote", "row", "tree"}

// isWordBoundary reports whether r ends a completable word. Dots and
// hyphens are word characters because bound names may contain both
// ("path.cat", "log-level").
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word around cursor and its byte offsets.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completion list for the word starting at start:
// command verbs for the first word in command mode, names otherwise.
func candidates(mode inputMode, input string, start int, names []string) []string {
	if mode == modeCtrl && strings.TrimSpace(input[:start]) == "" {
		return ctrlCommands
	}

	return names
}

// match fuzzily ranks list against word. An empty word matches nothing.
func match(word string, list []string) fuzzy.Matches {
	if word == "" {
		return nil
	}

	return fuzzy.Find(word, list)
}

var (
	candidateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
	moreStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderCandidates lays matches out on one line no wider than width,
// keeping the selected candidate visible.
func renderCandidates(matches fuzzy.Matches, selected, width int) string {
	const sep = "  "

	first := 0
	if selected > 0 {
		first = selected
	}

	used := 0

	var parts []string

	for i := first; i < len(matches); i++ {
		w := lipgloss.Width(matches[i].Str) + len(sep)
		if used+w > width && len(parts) > 0 {
			parts = append(parts, moreStyle.Render("…"))

			break
		}

		used += w

		parts = append(parts, renderCandidate(matches[i], i == selected))
	}

	return strings.Join(parts, sep)
}

func renderCandidate(m fuzzy.Match, selected bool) string {
	if selected {
		return selectedStyle.Render(m.Str)
	}

	hit := make(map[int]bool, len(m.MatchedIndexes))
	for _, i := range m.MatchedIndexes {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range m.Str {
		if hit[i] {
			b.WriteString(matchedStyle.Render(string(r)))
		} else {
			b.WriteString(candidateStyle.Render(string(r)))
		}
	}

	return b.String()
}
