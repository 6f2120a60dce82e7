package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
)

// Environment variables holding provider keys.
const (
	EnvOpenAI    = "OPENAI_API_KEY"
	EnvGemini    = "GEMINI_API_KEY"
	EnvGroq      = "GROQ_API_KEY"
	EnvAnthropic = "ANTHROPIC_API_KEY"
)

// Keys holds one API key per provider.
type Keys struct {
	OpenAI    string `json:"openaiKey" yaml:"openai" mapstructure:"openai"`
	Gemini    string `json:"geminiKey" yaml:"gemini" mapstructure:"gemini"`
	Groq      string `json:"groqKey" yaml:"groq" mapstructure:"groq"`
	Anthropic string `json:"anthropicKey,omitempty" yaml:"anthropic" mapstructure:"anthropic"`
}

func (k *Keys) field(provider string) *string {
	switch strings.ToLower(provider) {
	case "openai", "gpt":
		return &k.OpenAI
	case "gemini", "google":
		return &k.Gemini
	case "groq":
		return &k.Groq
	case "claude", "anthropic":
		return &k.Anthropic
	}
	return nil
}

// For returns the key for provider, or "" when unknown or unset.
func (k Keys) For(provider string) string {
	if f := k.field(provider); f != nil {
		return *f
	}
	return ""
}

// Set stores key for provider. Unknown providers are ignored.
func (k *Keys) Set(provider, key string) {
	if f := k.field(provider); f != nil {
		*f = key
	}
}

// Merge fills the keys missing from k with those in fallback.
func (k Keys) Merge(fallback Keys) Keys {
	for _, p := range []string{"openai", "gemini", "groq", "claude"} {
		if k.For(p) == "" {
			k.Set(p, fallback.For(p))
		}
	}
	return k
}

// SetupError reports missing or unusable credentials.
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("setup: %v", e.Err)
	}
	return fmt.Sprintf("setup %s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// CredentialStore persists provider keys.
type CredentialStore interface {
	Load() (Keys, error)
	Save(Keys) error
	Exists() bool
	Location() string
}

// JSONFileStore keeps keys in a small JSON file such as
// {"openaiKey":"…","geminiKey":"…","groqKey":"…"}.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a store backed by path
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Location() string { return s.path }

func (s *JSONFileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the keys. A missing or corrupt file is a SetupError.
func (s *JSONFileStore) Load() (Keys, error) {
	var keys Keys
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return keys, &SetupError{Path: s.path, Err: eris.Wrap(err, "configuration file not found, run setup to create it")}
	}
	if err != nil {
		return keys, &SetupError{Path: s.path, Err: eris.Wrap(err, "config: read credentials")}
	}
	if err := json.Unmarshal(raw, &keys); err != nil {
		return keys, &SetupError{Path: s.path, Err: eris.Wrap(err, "configuration file is corrupted, delete it and run setup again")}
	}
	return keys, nil
}

func (s *JSONFileStore) Save(keys Keys) error {
	raw, err := json.Marshal(keys)
	if err != nil {
		return eris.Wrap(err, "config: encode credentials")
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return &SetupError{Path: s.path, Err: eris.Wrap(err, "config: write credentials")}
	}
	return nil
}

// DotEnvStore keeps keys as NAME=value lines in a .env file. Unrelated
// variables already in the file are preserved on Save.
type DotEnvStore struct {
	path string
}

// NewDotEnvStore creates a store backed by path
func NewDotEnvStore(path string) *DotEnvStore {
	return &DotEnvStore{path: path}
}

func (s *DotEnvStore) Location() string { return s.path }

func (s *DotEnvStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

var envNames = map[string]string{
	"openai": EnvOpenAI,
	"gemini": EnvGemini,
	"groq":   EnvGroq,
	"claude": EnvAnthropic,
}

// Load reads the keys. A missing file yields no keys.
func (s *DotEnvStore) Load() (Keys, error) {
	var keys Keys
	env, err := s.read()
	if err != nil {
		return keys, err
	}
	for provider, name := range envNames {
		keys.Set(provider, env[name])
	}
	return keys, nil
}

// Save writes the non-empty keys, replacing earlier values.
func (s *DotEnvStore) Save(keys Keys) error {
	env, err := s.read()
	if err != nil {
		return err
	}
	for provider, name := range envNames {
		if key := keys.For(provider); key != "" {
			env[name] = key
		}
	}
	if err := godotenv.Write(env, s.path); err != nil {
		return &SetupError{Path: s.path, Err: eris.Wrap(err, "config: write env file")}
	}
	return nil
}

func (s *DotEnvStore) read() (map[string]string, error) {
	if !s.Exists() {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(s.path)
	if err != nil {
		return nil, &SetupError{Path: s.path, Err: eris.Wrap(err, "config: read env file")}
	}
	return env, nil
}
