package synth

import (
	"fmt"
	"regexp/syntax"
	"strings"
	"unicode"
)

// maxRepeat caps unbounded quantifiers (*, +, {n,}).
const maxRepeat = 5

// fromPattern produces a string matched by the regular expression p.
// Anchors and word boundaries produce nothing; character classes prefer
// printable ASCII members.
func (g *Generator) fromPattern(p string) (string, error) {
	re, err := syntax.Parse(p, syntax.Perl)
	if err != nil {
		return "", fmt.Errorf("synth: pattern %q: %w", p, err)
	}
	b := &strings.Builder{}
	if err := g.emit(b, re.Simplify()); err != nil {
		return "", fmt.Errorf("synth: pattern %q: %w", p, err)
	}
	return b.String(), nil
}

func (g *Generator) emit(b *strings.Builder, re *syntax.Regexp) error {
	switch re.Op {
	case syntax.OpNoMatch:
		return fmt.Errorf("pattern matches nothing")
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return nil
	case syntax.OpLiteral:
		for _, r := range re.Rune {
			if re.Flags&syntax.FoldCase != 0 && g.rnd.Intn(2) == 0 {
				r = unicode.SimpleFold(r)
			}
			b.WriteRune(r)
		}
	case syntax.OpCharClass:
		r, ok := g.classRune(re.Rune)
		if !ok {
			return fmt.Errorf("empty character class")
		}
		b.WriteRune(r)
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		b.WriteByte(alnum[g.rnd.Intn(len(alnum))])
	case syntax.OpCapture:
		return g.emit(b, re.Sub[0])
	case syntax.OpStar:
		return g.repeat(b, re.Sub[0], 0, maxRepeat)
	case syntax.OpPlus:
		return g.repeat(b, re.Sub[0], 1, maxRepeat)
	case syntax.OpQuest:
		return g.repeat(b, re.Sub[0], 0, 1)
	case syntax.OpRepeat:
		hi := re.Max
		if hi < 0 {
			hi = re.Min + maxRepeat
		}
		return g.repeat(b, re.Sub[0], re.Min, hi)
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := g.emit(b, sub); err != nil {
				return err
			}
		}
	case syntax.OpAlternate:
		return g.emit(b, re.Sub[g.rnd.Intn(len(re.Sub))])
	default:
		return fmt.Errorf("unsupported regexp op %v", re.Op)
	}
	return nil
}

func (g *Generator) repeat(b *strings.Builder, re *syntax.Regexp, lo, hi int) error {
	n := lo + g.rnd.Intn(hi-lo+1)
	for range n {
		if err := g.emit(b, re); err != nil {
			return err
		}
	}
	return nil
}

// classRune picks a member of a character class given as [lo, hi] pairs.
func (g *Generator) classRune(ranges []rune) (rune, bool) {
	if len(ranges) == 0 {
		return 0, false
	}
	var printable []rune
	for r := rune(0x20); r < 0x7f; r++ {
		for i := 0; i+1 < len(ranges); i += 2 {
			if r >= ranges[i] && r <= ranges[i+1] {
				printable = append(printable, r)
				break
			}
		}
	}
	if len(printable) > 0 {
		return printable[g.rnd.Intn(len(printable))], true
	}
	i := 2 * g.rnd.Intn(len(ranges)/2)
	lo, hi := ranges[i], ranges[i+1]
	return lo + rune(g.rnd.Intn(int(hi-lo)+1)), true
}
