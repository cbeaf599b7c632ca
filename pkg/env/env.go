package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	pkgstrings "github.com/klwxsrx/vocab-client/pkg/strings"
)

var ErrNotFound = errors.New("env not found")

func Must[T any](val T, err error) T {
	if err != nil {
		panic(fmt.Errorf("failed to parse environment: %w", err))
	}
	return val
}

// LoadFiles fills the process environment from dotenv files, existing variables win.
// Missing files are skipped.
func LoadFiles(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, path := range paths {
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		existing = append(existing, path)
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// Key builds an upper snake case variable name, Key("vocab", "tokenStore") is VOCAB_TOKEN_STORE.
func Key(parts ...string) string {
	converted := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		converted = append(converted, pkgstrings.ToScreamingSnakeCase(part))
	}
	return strings.Join(converted, "_")
}

func Parse[T pkgstrings.SupportedValueParsingTypes](key string) (T, error) {
	var blank T
	str, ok := lookup(key)
	if !ok {
		return blank, fmt.Errorf("%w: %s with type %T", ErrNotFound, key, blank)
	}

	v, err := pkgstrings.ParseTypedValue[T](str)
	if err != nil {
		return blank, fmt.Errorf("env %s has invalid value: %w", key, err)
	}
	return v, nil
}

func ParseOptional[T pkgstrings.SupportedValueParsingTypes](key string) (*T, error) {
	v, err := Parse[T](key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func ParseDefault[T pkgstrings.SupportedValueParsingTypes](key string, fallback T) (T, error) {
	v, err := ParseOptional[T](key)
	if err != nil || v == nil {
		return fallback, err
	}
	return *v, nil
}

func lookup(key string) (string, bool) {
	str, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(str) == "" {
		return "", false
	}
	return str, true
}
