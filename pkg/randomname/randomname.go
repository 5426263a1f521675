package randomname

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	mrand "math/rand"
	"strconv"
	"strings"
	"time"
)

// WordType selects a word category for a pattern position.
type WordType int

const (
	Adjective WordType = iota
	Color
	Noun
	Size
)

// SuffixType selects the uniqueness suffix appended after the words.
type SuffixType int

const (
	NoSuffix SuffixType = iota
	Hex6
	Hex8
	Numeric4
)

// WordLists overrides the built-in word sets. Empty lists fall back to the
// defaults.
type WordLists struct {
	Adjectives []string
	Colors     []string
	Nouns      []string
	Sizes      []string
}

// Options configures name generation. A nil Options generates the default
// adjective-noun pattern with no suffix.
type Options struct {
	Pattern   []WordType
	Separator string
	Suffix    SuffixType
	Words     WordLists
	// Validator rejects candidate names; generation retries up to 100 times
	// before returning the last attempt.
	Validator func(name string) bool
}

// maxValidationRetries bounds Validator-driven regeneration.
const maxValidationRetries = 100

// Simple generates an adjective-noun name like "happy-elephant".
func Simple() string { return Generate(nil) }

// Colorful generates a color-noun name like "blue-whale".
func Colorful() string {
	return Generate(&Options{Pattern: []WordType{Color, Noun}})
}

// Descriptive generates an adjective-color-noun name like "tiny-red-fox".
func Descriptive() string {
	return Generate(&Options{Pattern: []WordType{Adjective, Color, Noun}})
}

// WithSuffix generates an adjective-noun-hex6 name like "brave-lion-a3f2d1".
func WithSuffix() string {
	return Generate(&Options{Suffix: Hex6})
}

// Sized generates a size-noun name like "large-dolphin".
func Sized() string {
	return Generate(&Options{Pattern: []WordType{Size, Noun}})
}

// Complex generates a size-adjective-noun name like "small-quick-rabbit".
func Complex() string {
	return Generate(&Options{Pattern: []WordType{Size, Adjective, Noun}})
}

// Full generates a size-adjective-color-noun name like
// "huge-gentle-green-turtle".
func Full() string {
	return Generate(&Options{Pattern: []WordType{Size, Adjective, Color, Noun}})
}

// Generate builds a name from the options. It never fails: invalid patterns
// fall back to adjective-noun and crypto/rand failures fall back to a
// time-seeded source.
func Generate(opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}

	pattern := opts.Pattern
	if len(pattern) == 0 {
		pattern = []WordType{Adjective, Noun}
	}
	sep := opts.Separator
	if sep == "" {
		sep = "-"
	}

	for attempt := 0; ; attempt++ {
		var b strings.Builder
		for i, wt := range pattern {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(pick(wordsFor(wt, opts.Words)))
		}
		if suffix := makeSuffix(opts.Suffix); suffix != "" {
			b.WriteString(sep)
			b.WriteString(suffix)
		}

		name := b.String()
		if opts.Validator == nil || opts.Validator(name) || attempt >= maxValidationRetries {
			return name
		}
	}
}

func wordsFor(wt WordType, lists WordLists) []string {
	switch wt {
	case Color:
		if len(lists.Colors) > 0 {
			return lists.Colors
		}
		return defaultColors
	case Noun:
		if len(lists.Nouns) > 0 {
			return lists.Nouns
		}
		return defaultNouns
	case Size:
		if len(lists.Sizes) > 0 {
			return lists.Sizes
		}
		return defaultSizes
	default:
		if len(lists.Adjectives) > 0 {
			return lists.Adjectives
		}
		return defaultAdjectives
	}
}

// pick selects a word with crypto/rand, which is bias-free for any list
// length via big.Int range reduction.
func pick(words []string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return words[fallbackRand().Intn(len(words))]
	}
	return words[n.Int64()]
}

func makeSuffix(st SuffixType) string {
	switch st {
	case Hex6:
		return hexSuffix(3)
	case Hex8:
		return hexSuffix(4)
	case Numeric4:
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return strconv.Itoa(fallbackRand().Intn(10000))
		}
		return strconv.FormatInt(n.Int64(), 10)
	default:
		return ""
	}
}

func hexSuffix(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		r := fallbackRand()
		for i := range buf {
			buf[i] = byte(r.Intn(256))
		}
	}
	return hex.EncodeToString(buf)
}

func fallbackRand() *mrand.Rand {
	return mrand.New(mrand.NewSource(time.Now().UnixNano()))
}
