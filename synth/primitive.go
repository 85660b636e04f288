package synth

import (
	"encoding/base64"
	"math"
	"net/netip"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Range used when a numeric schema declares no bounds.
const (
	defaultMin = 0
	defaultMax = 1000
)

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam quis nostrud exercitation
ullamco laboris nisi aliquip ex ea commodo consequat duis aute irure in reprehenderit voluptate velit
esse cillum fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa qui
officia deserunt mollit anim id est laborum`)

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// numKeyword reads a numeric keyword whatever the decoder produced.
func numKeyword(m map[string]any, kw string) (float64, bool) {
	switch v := m[kw].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case interface{ Float64() (float64, error) }:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// bounds returns the inclusive range of a numeric schema. step is the
// smallest distance used to honour exclusive bounds. Both the draft-04
// boolean form and the numeric form of exclusiveMinimum/Maximum are read.
func bounds(m map[string]any, step float64) (lo, hi float64) {
	lo, hi = defaultMin, defaultMax
	minSet, maxSet := false, false
	if v, ok := numKeyword(m, "minimum"); ok {
		lo, minSet = v, true
		if ex, _ := m["exclusiveMinimum"].(bool); ex {
			lo += step
		}
	}
	if v, ok := numKeyword(m, "exclusiveMinimum"); ok && (!minSet || v+step > lo) {
		lo, minSet = v+step, true
	}
	if v, ok := numKeyword(m, "maximum"); ok {
		hi, maxSet = v, true
		if ex, _ := m["exclusiveMaximum"].(bool); ex {
			hi -= step
		}
	}
	if v, ok := numKeyword(m, "exclusiveMaximum"); ok && (!maxSet || v-step < hi) {
		hi, maxSet = v-step, true
	}
	switch {
	case minSet && !maxSet && hi < lo:
		hi = lo + defaultMax
	case maxSet && !minSet && lo > hi:
		lo = hi - defaultMax
	case hi < lo:
		hi = lo
	}
	return lo, hi
}

// maxSafe is the largest magnitude float64 carries without losing integer
// precision. Sampled integers and multipleOf steps stay within it.
const maxSafe = 1 << 53

// pick returns a uniform integer in [0, span], span capped at maxSafe.
func (g *Generator) pick(span float64) float64 {
	return float64(g.rnd.Int63n(int64(min(span, maxSafe)) + 1))
}

func (g *Generator) integer(m map[string]any) int64 {
	lo, hi := bounds(m, 1)
	lo, hi = math.Ceil(lo), math.Floor(hi)
	lo, hi = max(lo, -maxSafe), min(hi, maxSafe)
	if lower(formatOf(m)) == "int32" {
		lo, hi = max(lo, math.MinInt32), min(hi, math.MaxInt32)
	}
	if hi < lo {
		hi = lo
	}
	if mul, ok := numKeyword(m, "multipleOf"); ok && mul >= 1 {
		kLo, kHi := math.Ceil(lo/mul), math.Floor(hi/mul)
		if kHi >= kLo {
			return int64((kLo + g.pick(kHi-kLo)) * mul)
		}
	}
	return int64(lo + g.pick(hi-lo))
}

func (g *Generator) number(m map[string]any) float64 {
	lo, hi := bounds(m, 1e-9)
	if mul, ok := numKeyword(m, "multipleOf"); ok && mul > 0 {
		kLo, kHi := math.Ceil(lo/mul), math.Floor(hi/mul)
		if kHi >= kLo && math.Abs(kLo) <= maxSafe {
			return (kLo + g.pick(kHi-kLo)) * mul
		}
	}
	if hi <= lo {
		return lo
	}
	// Interpolated rather than lo+f*(hi-lo), which overflows on wide ranges.
	f := g.rnd.Float64()
	return min(max(lo*(1-f)+hi*f, lo), hi)
}

func formatOf(m map[string]any) string {
	f, _ := m["format"].(string)
	return f
}

// str generates a string from the format, else the pattern, else filler
// words sized by minLength/maxLength and capped by Options.MaxLength.
func (g *Generator) str(m map[string]any) string {
	if s, ok := g.formatted(formatOf(m)); ok {
		return s
	}
	if p, ok := m["pattern"].(string); ok {
		s, err := g.fromPattern(p)
		if err == nil {
			return s
		}
		g.log.Debug("pattern not synthesized, using filler", "pattern", p, "err", err)
	}
	lo := intKeyword(m, "minLength", 0)
	hi := intKeyword(m, "maxLength", lo+24)
	if c := g.opts.MaxLength; c > 0 && hi > c {
		hi = c
	}
	if hi < lo {
		hi = lo
	}
	if hi == 0 {
		return ""
	}
	n := lo + g.rnd.Intn(hi-lo+1)
	if n == 0 {
		n = 1
	}
	return g.filler(n)
}

// filler returns exactly n characters of space-separated words.
func (g *Generator) filler(n int) string {
	b := &strings.Builder{}
	for b.Len() < n {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(words[g.rnd.Intn(len(words))])
	}
	s := b.String()[:n]
	if strings.HasSuffix(s, " ") {
		s = s[:n-1] + "x"
	}
	return s
}

func (g *Generator) word() string { return words[g.rnd.Intn(len(words))] }

func (g *Generator) token(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alnum[g.rnd.Intn(len(alnum))]
	}
	return string(b)
}

// formatted generates a value for the well-known string formats.
func (g *Generator) formatted(format string) (string, bool) {
	// 2000-01-01 .. 2030-01-01
	ts := func() time.Time { return time.Unix(946684800+g.rnd.Int63n(946771200), 0).UTC() }
	switch lower(format) {
	case "date-time":
		return ts().Format(time.RFC3339), true
	case "date":
		return ts().Format(time.DateOnly), true
	case "time":
		return ts().Format("15:04:05Z07:00"), true
	case "email":
		return g.word() + "." + g.word() + "@example.com", true
	case "uuid":
		u, err := uuid.NewRandomFromReader(g.rnd)
		if err != nil {
			return uuid.NewString(), true
		}
		return u.String(), true
	case "uri", "url":
		return "https://example.com/" + g.word() + "/" + g.word(), true
	case "hostname":
		return g.word() + ".example.com", true
	case "ipv4":
		var b [4]byte
		g.rnd.Read(b[:])
		return netip.AddrFrom4(b).String(), true
	case "ipv6":
		var b [16]byte
		g.rnd.Read(b[:])
		return netip.AddrFrom16(b).String(), true
	case "byte":
		b := make([]byte, 12)
		g.rnd.Read(b)
		return base64.StdEncoding.EncodeToString(b), true
	case "binary", "password":
		return g.token(16), true
	}
	return "", false
}
