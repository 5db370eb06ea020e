package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/mexl/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "kind", "fold", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, the category-access dot, and expression
// operator/punctuation characters. Brackets are intentionally excluded because
// species identifiers contain them (e.g., glc[c]), as are hyphens and
// underscores, which appear in entity identifiers.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')',
		'+', '*', '/', '%', '^',
		'<', '>', '=', '!',
		'&', '|', ',', '?', ':', ';':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Words are delimited by whitespace, dots, and
// expression operator/punctuation characters.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// parentPath returns the word immediately preceding the dot before the
// current word. For input "kf * Parameter.km" with the word "km", the parent
// path is "Parameter". Returns "" for top-level words. Unlike general member
// access, category browsing is one level deep, so only the single preceding
// segment matters.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	trimmed := strings.TrimRight(prefix, ".")
	if len(trimmed) == len(prefix) {
		// No dot directly before the word: top level.
		return ""
	}

	if trimmed == "" {
		return ""
	}

	// Walk backward over the parent word.
	end := len(trimmed)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(trimmed[:pos])
		if r == '.' || isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(trimmed[pos:end])
}

// childCandidates returns the names that are valid completions for the given
// parent. For an empty parent, returns the owner's allowed category labels,
// every identifier those categories contain, and the owner's whitelisted
// function names. For a parent naming a category, returns that category's
// identifiers so the user can browse its members.
func childCandidates(table *lang.Table, owner lang.Owner, parent string) []string {
	if parent == "" {
		var names []string

		for _, cat := range table.Categories() {
			if !slices.Contains(owner.Categories, cat.Name) {
				continue
			}

			names = append(names, cat.Name)
			names = append(names, table.IDs(cat.Name)...)
		}

		names = append(names, owner.Functions...)

		return names
	}

	for _, cat := range table.Categories() {
		if !strings.EqualFold(cat.Name, parent) {
			continue
		}

		if !slices.Contains(owner.Categories, cat.Name) {
			return nil
		}

		return table.IDs(cat.Name)
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot (category browsing), it returns
// all members as matches.
func (u ui) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := u.input.Value()
	cursor := u.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if u.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(u.table, u.owner, parent)

		// When the word is empty at the top level, don't show completions
		// (allows the hint text to be visible). After a dot, show all members
		// immediately so the user can browse the category.
		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// Add "()" suffix for functions (not applied to actual completion)
	if isFunction(match.Str) {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction checks if a name refers to a callable math function that should
// display with "()".
func isFunction(name string) bool {
	return slices.Contains(lang.FuncNames(), name)
}
