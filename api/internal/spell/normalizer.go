package spell

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

var tokenRe = regexp.MustCompile(`[a-zA-Z]+`)

// Normalizer corrects obvious typos in free text. It never fails: strategies
// are tried in order and the first one that succeeds wins.
type Normalizer struct {
	dict       Dictionary
	known      map[string]string
	static     []replacement
	strategies []strategy
	log        *zap.Logger
}

type strategy struct {
	name string
	run  func(string) (string, bool)
}

type replacement struct {
	re *regexp.Regexp
	to string
}

// NewNormalizer builds a Normalizer. dict may be nil, in which case only the
// static misspelling table is used. extra extends that table.
func NewNormalizer(dict Dictionary, extra map[string]string, log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	table := make(map[string]string, len(CommonMisspellings)+len(doubledLetterFixes)+len(extra))
	for k, v := range CommonMisspellings {
		table[k] = v
	}
	for _, f := range doubledLetterFixes {
		table[f.from] = f.to
	}
	for k, v := range extra {
		k, v = strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v)
		if k != "" && v != "" {
			table[k] = v
		}
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &Normalizer{dict: dict, known: table, log: log}
	for _, k := range keys {
		n.static = append(n.static, newReplacement(k, table[k]))
	}
	n.strategies = []strategy{
		{name: "dictionary", run: n.withDictionary},
		{name: "static", run: n.withStatic},
		{name: "identity", run: func(s string) (string, bool) { return s, true }},
	}
	return n
}

func newReplacement(from, to string) replacement {
	return replacement{
		re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`),
		to: to,
	}
}

func (r replacement) apply(s string) string {
	return r.re.ReplaceAllStringFunc(s, func(m string) string {
		return matchCase(m, r.to)
	})
}

// matchCase carries an upper-case first letter of orig over to repl.
func matchCase(orig, repl string) string {
	if startsUpper(orig) {
		return capitalize(repl)
	}
	return repl
}

func startsUpper(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(first)
}

func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(first)) + s[size:]
}

// Normalize returns text with spelling corrections applied. Empty input is
// returned unchanged.
func (n *Normalizer) Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	for _, s := range n.strategies {
		if out, ok := s.run(text); ok {
			return out
		}
		n.log.Debug("spell strategy skipped", zap.String("strategy", s.name))
	}
	return text
}

func (n *Normalizer) withDictionary(text string) (out string, ok bool) {
	if n.dict == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			n.log.Warn("spell dictionary panicked, using static table", zap.Any("panic", r))
			out, ok = "", false
		}
	}()

	work := collapseRuns(text)
	var b strings.Builder
	b.Grow(len(work))
	last := 0
	for _, loc := range tokenRe.FindAllStringIndex(work, -1) {
		tok := work[loc[0]:loc[1]]
		fixed, err := n.fixToken(tok, sentenceStart(work, loc[0]))
		if err != nil {
			n.log.Warn("spell suggest failed, using static table", zap.Error(err))
			return "", false
		}
		b.WriteString(work[last:loc[0]])
		b.WriteString(fixed)
		last = loc[1]
	}
	b.WriteString(work[last:])
	return b.String(), true
}

// fixToken corrects one token. Known misspellings are always fixed; other
// corrections need the dictionary to be sure, and capitalised words inside a
// sentence are taken as names and kept.
func (n *Normalizer) fixToken(tok string, startsSentence bool) (string, error) {
	lower := strings.ToLower(tok)
	if len(lower) <= 2 || skipToken(tok) {
		return tok, nil
	}
	if to, ok := n.known[lower]; ok {
		return matchCase(tok, to), nil
	}
	if !startsSentence && startsUpper(tok) {
		return tok, nil
	}
	fixed, err := n.correct(lower)
	if err != nil || fixed == "" {
		return tok, err
	}
	return matchCase(tok, fixed), nil
}

// correct returns the replacement for a lowercased token or "" to keep it.
// Unknown words are only replaced when the fix is a dropped trailing double
// letter or a swap of two adjacent letters giving a common word.
func (n *Normalizer) correct(tok string) (string, error) {
	if n.dict.Valid(tok) {
		return "", nil
	}
	if fixed := fixDouble(tok); fixed != tok && n.dict.Valid(fixed) {
		return fixed, nil
	}
	if len(tok) < 4 {
		return "", nil
	}
	cands, err := n.dict.Suggest(tok)
	if err != nil {
		return "", fmt.Errorf("suggest %q: %w", tok, err)
	}
	for _, c := range cands {
		if transposed(tok, c) && n.dict.Common(c) {
			return c, nil
		}
	}
	return "", nil
}

func (n *Normalizer) withStatic(text string) (string, bool) {
	out := collapseRuns(text)
	for _, r := range n.static {
		out = r.apply(out)
	}
	return out, true
}

// skipToken reports acronyms and mixed-case identifiers, which are left alone.
func skipToken(tok string) bool {
	for i, r := range tok {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// fixDouble drops a trailing doubled letter ("mistt" -> "mist"). Letters that
// commonly end English words doubled are left alone.
func fixDouble(tok string) string {
	n := len(tok)
	if n < 4 || tok[n-1] != tok[n-2] {
		return tok
	}
	if strings.IndexByte("lsfzeo", tok[n-1]) >= 0 {
		return tok
	}
	return tok[:n-1]
}

// collapseRuns shortens any run of three or more identical letters to two.
// Digits, punctuation and spaces are kept as written.
func collapseRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev && unicode.IsLetter(r) {
			run++
		} else {
			prev, run = r, 1
		}
		if run <= 2 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sentenceStart reports whether the token at byte offset i opens a sentence.
func sentenceStart(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch c := s[j]; c {
		case '\n', '.', '!', '?':
			return true
		case ' ', '\t', '"', '\'', '(', '[':
		default:
			return false
		}
	}
	return true
}

// transposed reports whether a and b differ only by one swap of adjacent
// letters.
func transposed(a, b string) bool {
	if len(a) != len(b) || a == b {
		return false
	}
	i := 0
	for a[i] == b[i] {
		i++
	}
	return i+1 < len(a) && a[i] == b[i+1] && a[i+1] == b[i] && a[i+2:] == b[i+2:]
}
