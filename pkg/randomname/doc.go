// Package randomname builds pronounceable word-combination names,
// used for workspace invite codes that get typed from screenshots and
// read out loud.
//
// Presets cover the common shapes:
//
//	randomname.Simple()     // "happy-elephant"
//	randomname.WithSuffix() // "brave-lion-a3f2d1"
//	randomname.Colorful()   // "blue-whale"
//
// Generate takes Options for custom patterns, separators, suffixes,
// word lists, and a Validator callback (retried up to 100 times before
// the last candidate is returned as-is). Word picks use crypto/rand
// and fall back to math/rand if the system source fails, since a
// weaker invite code still beats a startup crash.
package randomname
