package spell

import (
	"bufio"
	_ "embed"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Dictionary answers word validity and spelling suggestions. Words are
// passed lowercased.
type Dictionary interface {
	Valid(word string) bool
	// Common reports whether word is frequent enough to be a safe
	// correction target.
	Common(word string) bool
	Suggest(word string) ([]string, error)
}

// commonWords is how many of the most frequent entries count as common.
const commonWords = 300

//go:embed words.txt
var embeddedWords string

// WordList is a Dictionary over a frequency-ordered word list.
type WordList struct {
	rank  map[string]int
	byLen map[int][]string
	rep   map[string]string
}

// NewWordList loads the embedded English word list. extra entries extend the
// misspelling table.
func NewWordList(extra map[string]string) (*WordList, error) {
	return ParseWordList(strings.NewReader(embeddedWords), extra)
}

// ParseWordList reads one word per line; blank lines and lines starting with
// '#' are ignored. Earlier lines rank higher.
func ParseWordList(r io.Reader, extra map[string]string) (*WordList, error) {
	wl := &WordList{
		rank:  make(map[string]int),
		byLen: make(map[int][]string),
		rep:   make(map[string]string, len(CommonMisspellings)+len(extra)),
	}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := wl.rank[w]; dup {
			continue
		}
		wl.rank[w] = len(wl.rank)
		wl.byLen[len(w)] = append(wl.byLen[len(w)], w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(wl.rank) == 0 {
		return nil, errors.New("spell: empty word list")
	}
	for k, v := range CommonMisspellings {
		wl.rep[k] = v
	}
	for k, v := range extra {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.TrimSpace(v) != "" {
			wl.rep[k] = strings.TrimSpace(v)
		}
	}
	return wl, nil
}

// Len reports the number of distinct words.
func (wl *WordList) Len() int { return len(wl.rank) }

func (wl *WordList) known(w string) bool {
	_, ok := wl.rank[w]
	return ok
}

// Valid reports whether word or one simple inflection of it is known.
func (wl *WordList) Valid(word string) bool {
	w := strings.ToLower(word)
	if wl.known(w) {
		return true
	}
	for _, stem := range stems(w) {
		if len(stem) > 1 && wl.known(stem) {
			return true
		}
	}
	return false
}

func (wl *WordList) Common(word string) bool {
	r, ok := wl.rank[strings.ToLower(word)]
	return ok && r < commonWords
}

// stems returns candidate base forms for common English suffixes.
func stems(w string) []string {
	var out []string
	trim := func(suffix string) (string, bool) {
		if len(w) > len(suffix)+1 && strings.HasSuffix(w, suffix) {
			return strings.TrimSuffix(w, suffix), true
		}
		return "", false
	}
	undouble := func(s string) string {
		if n := len(s); n >= 3 && s[n-1] == s[n-2] {
			return s[:n-1]
		}
		return s
	}
	if b, ok := trim("ies"); ok {
		out = append(out, b+"y")
	}
	if b, ok := trim("es"); ok {
		out = append(out, b)
	}
	if b, ok := trim("s"); ok && !strings.HasSuffix(w, "ss") {
		out = append(out, b)
	}
	if b, ok := trim("ied"); ok {
		out = append(out, b+"y")
	}
	for _, suf := range []string{"ed", "ing", "er", "est"} {
		if b, ok := trim(suf); ok {
			out = append(out, b, b+"e", undouble(b))
		}
	}
	if b, ok := trim("ily"); ok {
		out = append(out, b+"y")
	}
	if b, ok := trim("ly"); ok {
		out = append(out, b)
	}
	return out
}

func maxDistance(n int) int {
	if n <= 3 {
		return 1
	}
	return 2
}

// Suggest returns known words within a small edit distance, best first. A hit
// in the misspelling table wins outright; otherwise candidates are ordered by
// Levenshtein distance and then by frequency.
func (wl *WordList) Suggest(word string) ([]string, error) {
	w := strings.ToLower(word)
	if r, ok := wl.rep[w]; ok {
		return []string{r}, nil
	}
	limit := maxDistance(len(w))
	dist := make(map[string]int)
	var hits []string
	for l := len(w) - limit; l <= len(w)+limit; l++ {
		for _, cand := range wl.byLen[l] {
			if d := levenshtein.ComputeDistance(w, cand); d > 0 && d <= limit {
				dist[cand] = d
				hits = append(hits, cand)
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if dist[hits[i]] != dist[hits[j]] {
			return dist[hits[i]] < dist[hits[j]]
		}
		return wl.rank[hits[i]] < wl.rank[hits[j]]
	})
	return hits, nil
}
