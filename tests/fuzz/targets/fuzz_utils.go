package targets

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/tests/fuzz/generators"
)

// LoadCorpus adds every predicate line of the .pred files under dirs to
// the fuzz corpus.
func LoadCorpus(f *testing.F, dirs ...string) {
	for _, dir := range dirs {
		_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || !strings.HasSuffix(path, config.PredicateFileExt) {
				return nil
			}
			file, err := os.Open(path)
			if err != nil {
				return nil
			}
			defer file.Close()
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "" || strings.HasPrefix(strings.TrimSpace(line), "#") {
					continue
				}
				f.Add(line)
			}
			return nil
		})
	}
}

// render writes terms back as predicate source. ok is false when a string
// literal cannot be quoted.
func render(terms []token.Term) (string, bool) {
	parts := make([]string, len(terms))
	for i, term := range terms {
		if term.Kind == token.LITERAL && term.Value.IsString() {
			lit, ok := generators.Quote(term.Value.AsString())
			if !ok {
				return "", false
			}
			parts[i] = lit
			continue
		}
		parts[i] = term.Text()
	}
	return strings.Join(parts, " "), true
}

// checkDiagnostic fails unless err is nil or one of the two diagnostic kinds.
func checkDiagnostic(t *testing.T, input string, err error) {
	t.Helper()
	if err == nil {
		return
	}
	if diagnostics.CodeOf(err) == "" {
		t.Fatalf("input %q: error outside the diagnostic taxonomy: %T %v", input, err, err)
	}
}
