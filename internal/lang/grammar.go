package lang

import (
	"sync"

	forestmove "github.com/alexaandru/go-sitter-forest/move"
	forestsolidity "github.com/alexaandru/go-sitter-forest/solidity"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/rust"
)

// grammars maps language tags to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	grammars     map[Language]*sitter.Language
	grammarsOnce sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		grammars = map[Language]*sitter.Language{
			Go:       golang.GetLanguage(),
			Rust:     rust.GetLanguage(),
			Cpp:      cpp.GetLanguage(),
			Solidity: sitter.NewLanguage(forestsolidity.GetLanguage()),
			Move:     sitter.NewLanguage(forestmove.GetLanguage()),
		}
	})
}

// Grammar returns the tree-sitter grammar for a language.
// Returns (nil, false) if the language has no registered grammar.
func Grammar(l Language) (*sitter.Language, bool) {
	initGrammars()
	g, ok := grammars[l]
	return g, ok
}
