// Package lang is the static language registry: one Config per supported
// language describing file extensions, the namespace separator, and the
// tree-sitter node-type names the extractors match against. Pure data,
// registered at init time, immutable afterward.
package lang

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
)

// Language identifies a supported source language.
type Language string

const (
	Solidity Language = "solidity"
	Rust     Language = "rust"
	Cpp      Language = "cpp"
	Move     Language = "move"
	Go       Language = "go"
)

// ErrUnsupportedExtension is returned when a file extension maps to no
// registered language.
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// Config holds the per-language extraction vocabulary. Node-type lists name
// the tree-sitter grammar kinds that denote each structural concept.
type Config struct {
	Language  Language
	Name      string   // human-readable name
	Extensions []string // including the leading dot
	Separator string   // namespace separator, e.g. "." or "::"

	ModuleNodeTypes    []string
	FunctionNodeTypes  []string
	StructNodeTypes    []string
	ClassNodeTypes     []string
	InterfaceNodeTypes []string
	EnumNodeTypes      []string
	CallNodeTypes      []string

	VisibilityKeywords map[string]bool
	SpecialKeywords    map[string]bool
}

// registry maps file extensions to configs; byLanguage maps language tags.
var (
	registry   = map[string]*Config{}
	byLanguage = map[Language]*Config{}
)

// Register adds a Config to the registry. Called from per-language init()
// functions only; not safe for concurrent use after startup.
func Register(cfg *Config) {
	byLanguage[cfg.Language] = cfg
	for _, ext := range cfg.Extensions {
		registry[ext] = cfg
	}
}

// ForExtension returns the Config for a file extension (e.g. ".sol").
func ForExtension(ext string) (*Config, error) {
	cfg, ok := registry[strings.ToLower(ext)]
	if !ok {
		return nil, ErrUnsupportedExtension
	}
	return cfg, nil
}

// ForFile returns the Config for a file path based on its extension.
func ForFile(path string) (*Config, error) {
	return ForExtension(filepath.Ext(path))
}

// ForLanguage returns the Config for a language tag, or nil if unknown.
func ForLanguage(l Language) *Config {
	return byLanguage[l]
}

// All returns every registered language in stable order.
func All() []Language {
	langs := make([]Language, 0, len(byLanguage))
	for l := range byLanguage {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Supported reports whether the extension maps to a registered language.
func Supported(ext string) bool {
	_, ok := registry[strings.ToLower(ext)]
	return ok
}
