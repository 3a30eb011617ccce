package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EnvFileResult describes what LoadEnvFile did.
type EnvFileResult struct {
	// Found is false when the file does not exist.
	Found bool

	// Applied lists the keys that were set in the process environment.
	Applied []string

	// Skipped counts malformed lines that were ignored.
	Skipped int
}

// LoadEnvFile loads KEY=VALUE definitions from path into the process
// environment. Variables that are already set are left untouched. A missing
// file is not an error.
func LoadEnvFile(path string) (EnvFileResult, error) {
	var res EnvFileResult

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read env file: %w", err)
	}
	res.Found = true

	values, skipped := parseEnv(data)
	res.Skipped = skipped

	for key, value := range values {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			res.Skipped++
			continue
		}
		res.Applied = append(res.Applied, key)
	}
	sort.Strings(res.Applied)
	return res, nil
}

// parseEnv splits the file into entries and keeps those godotenv accepts,
// then parses the kept entries together so ${VAR} references to earlier keys
// still expand. It returns the values and the number of dropped entries.
func parseEnv(data []byte) (map[string]string, int) {
	var kept []string
	skipped := 0
	for _, entry := range splitEntries(string(data)) {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		own, err := godotenv.Unmarshal(entry)
		if err != nil || !validKeys(own) {
			skipped++
			continue
		}
		next := append(kept[:len(kept):len(kept)], entry)
		if _, err := godotenv.Parse(strings.NewReader(strings.Join(next, "\n"))); err != nil {
			skipped++
			continue
		}
		kept = next
	}

	values, err := godotenv.Parse(strings.NewReader(strings.Join(kept, "\n")))
	if err != nil {
		return map[string]string{}, skipped + len(kept)
	}
	return values, skipped
}

// splitEntries groups lines into entries. A quoted value that spans several
// lines stays in one entry; an unterminated quote runs to the end of input.
func splitEntries(data string) []string {
	var entries, cur []string
	var quote byte
	for _, line := range strings.Split(data, "\n") {
		if quote != 0 {
			cur = append(cur, line)
			if closesQuote(line, quote) {
				entries = append(entries, strings.Join(cur, "\n"))
				cur, quote = nil, 0
			}
			continue
		}
		if q := openQuote(line); q != 0 {
			cur, quote = []string{line}, q
			continue
		}
		entries = append(entries, line)
	}
	if cur != nil {
		entries = append(entries, strings.Join(cur, "\n"))
	}
	return entries
}

// openQuote returns the quote character of a value left open at the end of
// line, or 0.
func openQuote(line string) byte {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '#' {
		return 0
	}
	i := strings.IndexAny(line, "=:")
	if i < 0 {
		return 0
	}
	v := strings.TrimLeft(line[i+1:], " \t")
	if v == "" || (v[0] != '"' && v[0] != '\'') {
		return 0
	}
	if closesQuote(v[1:], v[0]) {
		return 0
	}
	return v[0]
}

func closesQuote(s string, quote byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && quote == '"' {
			i++
			continue
		}
		if s[i] == quote {
			return true
		}
	}
	return false
}

// validKeys reports whether every key can be set with os.Setenv.
func validKeys(values map[string]string) bool {
	for k := range values {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return false
		}
	}
	return true
}
