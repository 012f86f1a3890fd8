package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/api"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/config"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/session"
	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

// loadConfig merges flag values, the environment and an optional config file.
// Precedence: explicit flags, then environment, then config file, then
// built-in defaults.
func loadConfig() (*config.Config, error) {
	cfg := config.Config{
		APIURL:  rootAPIURL,
		Verbose: rootVerbose,
	}
	cfg = cfg.MergeWithDefaults(config.FromEnv())

	if rootConfigPath != "" {
		fileCfg, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	cfg = cfg.MergeWithDefaults(config.Config{APIURL: config.DefaultAPIURL})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// openSession resolves the credentials file and builds the store.
func openSession(cfg *config.Config) (*session.Store, error) {
	path := cfg.TokenFile
	if path == "" {
		resolved, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return session.NewStore(path), nil
}

// newClient builds an authenticated API client wired to the session store.
// A 401 from any call clears the stored credentials so the next command
// prompts for login instead of retrying a dead token.
func newClient(cfg *config.Config, store *session.Store) (*api.Client, error) {
	return api.NewClient(api.Options{
		BaseURL: cfg.APIURL,
		Tokens:  store,
		OnUnauthorized: func() {
			_ = store.Clear()
		},
	})
}

// newAnonymousClient builds a client without a token source, for login.
func newAnonymousClient(cfg *config.Config) (*api.Client, error) {
	return api.NewClient(api.Options{BaseURL: cfg.APIURL})
}

// promptLine reads one trimmed line from the reader.
func promptLine(out io.Writer, in *bufio.Reader, prompt string) (string, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return "", err
	}
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// parseAnswer converts a raw terminal line into the answer shape the question
// variant expects. Empty input returns (nil, false, nil) meaning "skipped".
func parseAnswer(q types.Question, raw string) (interface{}, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}

	switch v := q.(type) {
	case *types.MultipleChoiceQuestion:
		if v.MultipleSelect {
			parts := strings.Split(raw, ",")
			values := make([]string, 0, len(parts))
			for _, part := range parts {
				value, err := resolveOption(v, strings.TrimSpace(part))
				if err != nil {
					return nil, false, err
				}
				values = append(values, value)
			}
			return values, true, nil
		}
		value, err := resolveOption(v, raw)
		if err != nil {
			return nil, false, err
		}
		return value, true, nil

	case *types.ScaleQuestion:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, false, fmt.Errorf("enter a number between %d and %d", v.Min, v.Max)
		}
		return n, true, nil

	case *types.BooleanQuestion:
		switch strings.ToLower(raw) {
		case "y", "yes", "true":
			return true, true, nil
		case "n", "no", "false":
			return false, true, nil
		default:
			return nil, false, fmt.Errorf("enter yes or no")
		}

	default:
		return raw, true, nil
	}
}

// resolveOption accepts either a 1-based option number or an option value.
func resolveOption(q *types.MultipleChoiceQuestion, raw string) (string, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 1 || n > len(q.Options) {
			return "", fmt.Errorf("option number %d out of range [1, %d]", n, len(q.Options))
		}
		return q.Options[n-1].Value, nil
	}
	for _, opt := range q.Options {
		if opt.Value == raw {
			return raw, nil
		}
	}
	return "", fmt.Errorf("unknown option %q", raw)
}
