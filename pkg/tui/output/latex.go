// ABOUTME: LaTeX renderer: substitutes math commands with unicode equivalents.
// ABOUTME: Handles symbol commands, superscripts, subscripts; output is NFC-normalized.

package output

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// latexSymbols maps common math-mode commands to unicode.
var latexSymbols = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ",
	`\delta`: "δ", `\epsilon`: "ε", `\zeta`: "ζ",
	`\eta`: "η", `\theta`: "θ", `\lambda`: "λ",
	`\mu`: "μ", `\pi`: "π", `\rho`: "ρ",
	`\sigma`: "σ", `\tau`: "τ", `\phi`: "φ",
	`\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ",
	`\Lambda`: "Λ", `\Pi`: "Π", `\Sigma`: "Σ",
	`\Phi`: "Φ", `\Psi`: "Ψ", `\Omega`: "Ω",
	`\infty`: "∞", `\partial`: "∂", `\nabla`: "∇",
	`\pm`: "±", `\times`: "×", `\cdot`: "⋅",
	`\div`: "÷", `\neq`: "≠", `\leq`: "≤",
	`\geq`: "≥", `\approx`: "≈", `\equiv`: "≡",
	`\rightarrow`: "→", `\leftarrow`: "←", `\to`: "→",
	`\sum`: "∑", `\prod`: "∏", `\int`: "∫",
	`\sqrt`: "√", `\in`: "∈", `\notin`: "∉",
	`\subset`: "⊂", `\supset`: "⊃", `\cup`: "∪",
	`\cap`: "∩", `\forall`: "∀", `\exists`: "∃",
	`\ldots`: "…", `\cdots`: "⋯",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³',
	'4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷',
	'8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻',
	'n': 'ⁿ', 'i': 'ⁱ',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃',
	'4': '₄', '5': '₅', '6': '₆', '7': '₇',
	'8': '₈', '9': '₉', '+': '₊', '-': '₋',
}

// symbolOrder lists the commands longest first so prefixes like \in never
// clobber \infty or \int.
var symbolOrder = func() []string {
	cmds := make([]string, 0, len(latexSymbols))
	for cmd := range latexSymbols {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		if len(cmds[i]) != len(cmds[j]) {
			return len(cmds[i]) > len(cmds[j])
		}
		return cmds[i] < cmds[j]
	})
	return cmds
}()

// LatexRenderer approximates LaTeX math with plain unicode text. It makes
// no attempt at full layout; the goal is a readable single-line rendering
// of the formulas that appear in notebook outputs.
type LatexRenderer struct{}

// NewLatexRenderer returns a LatexRenderer.
func NewLatexRenderer() *LatexRenderer {
	return &LatexRenderer{}
}

// Render substitutes known commands and scripts and strips math delimiters.
// Width and height are ignored: formulas are not reflowed.
func (l *LatexRenderer) Render(data []byte, _, _ int) (string, error) {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, "$")

	for _, cmd := range symbolOrder {
		s = strings.ReplaceAll(s, cmd, latexSymbols[cmd])
	}
	s = replaceScripts(s, '^', superscripts)
	s = replaceScripts(s, '_', subscripts)
	s = strings.NewReplacer(`\left`, "", `\right`, "", "{", "", "}", "", "~", " ").Replace(s)

	return norm.NFC.String(s), nil
}

// replaceScripts rewrites marker-introduced scripts: X^2, X^{12}.
// Characters without a unicode script form are kept as-is, marker dropped.
func replaceScripts(s string, marker rune, table map[rune]rune) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != marker || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		group := []rune{runes[i]}
		if runes[i] == '{' {
			group = group[:0]
			for i++; i < len(runes) && runes[i] != '}'; i++ {
				group = append(group, runes[i])
			}
		}
		for _, r := range group {
			if sub, ok := table[r]; ok {
				b.WriteRune(sub)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
