package palette

import (
	"github.com/jmylchreest/tonal/internal/tokens"
)

// TokenType is the type recorded on every colour token.
const TokenType = "color"

// Tokens returns the palette as an abstract token tree:
// primary/<step>, secondary/<step>, neutral/<step>, semantic/<role>/<step>.
func (p *EnhancedPalette) Tokens() (*tokens.Tree, error) {
	tree := tokens.NewTree()
	for _, ns := range p.Scales() {
		for _, step := range ns.Scale.Steps() {
			path := append(append([]string(nil), ns.Path...), step.Key)
			if err := tree.Set(path, tokens.Token{Value: step.Colour.Hex(), Type: TokenType}); err != nil {
				return nil, err
			}
		}
	}
	return tree, nil
}
