package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"mietrecht-backend/internal/shared/telemetry"
)

// loadEnvFiles applies KEY=VALUE files in order. Variables already set in
// the process environment, or by an earlier file, win. Missing files are
// skipped; malformed lines are logged and skipped.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		values, err := parseEnv(f)
		_ = f.Close()
		if err != nil {
			telemetry.Warn("config.env_file_invalid", map[string]any{"path": path, "error": err})
		}
		for key, val := range values {
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}

// parseEnv reads dotenv syntax: optional "export ", '#' comments, single
// quotes taken literally, double quotes with \n and \" escapes, and
// trailing " #" comments on unquoted values. It returns every well-formed
// pair together with the first error encountered.
func parseEnv(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)
	var firstErr error
	scanner := bufio.NewScanner(r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, raw, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			if firstErr == nil {
				firstErr = fmt.Errorf("line %d: expected KEY=VALUE", lineNo)
			}
			continue
		}
		val, err := envValue(strings.TrimSpace(raw))
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}
		out[key] = val
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, firstErr
}

func envValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	switch raw[0] {
	case '\'':
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return "", fmt.Errorf("unterminated single quote")
		}
		return raw[1 : end+1], nil
	case '"':
		var b strings.Builder
		for i := 1; i < len(raw); i++ {
			ch := raw[i]
			switch {
			case ch == '"':
				return b.String(), nil
			case ch == '\\' && i+1 < len(raw):
				i++
				switch raw[i] {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				default:
					b.WriteByte(raw[i])
				}
			default:
				b.WriteByte(ch)
			}
		}
		return "", fmt.Errorf("unterminated double quote")
	}
	if i := strings.Index(raw, " #"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw), nil
}
