package hash

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Tag identifies what kind of object a Hash names.
type Tag byte

const (
	// Thunk is an unreduced computation description.
	Thunk Tag = 'T'
	// Value is a fully-reduced, content-addressed blob.
	Value Tag = 'V'
	// Executable is a program blob referenced by argv[0] of a Thunk.
	Executable Tag = 'X'
)

func (t Tag) String() string {
	switch t {
	case Thunk:
		return "thunk"
	case Value:
		return "value"
	case Executable:
		return "executable"
	default:
		return "unknown"
	}
}

func validTag(b byte) bool {
	switch Tag(b) {
	case Thunk, Value, Executable:
		return true
	default:
		return false
	}
}

// Hash is an opaque, printable content identifier of the form
// "<tag><digest>[#<output>]". It is a plain string under the hood so it
// can be used as a map key and compared with ==, but MUST only be
// constructed via New, Compute, or Parse: those are the only call sites
// that guarantee the invariants Base and Type rely on.
type Hash string

// New builds a Hash from an already-computed digest (a base64url,
// unpadded encoding, as produced by Compute). It panics if tag or digest
// are malformed — constructing a Hash from untrusted input should go
// through Parse instead.
func New(tag Tag, digest string, output string) Hash {
	if !validTag(byte(tag)) {
		malformed(string(tag), "unknown tag")
	}
	if digest == "" {
		malformed(digest, "empty digest")
	}
	if strings.ContainsAny(digest, "#") {
		malformed(digest, "digest must not contain '#'")
	}
	s := string(tag) + digest
	if output != "" {
		s += "#" + output
	}
	return Hash(s)
}

// Compute hashes data with SHA-256 and encodes it as gg does on the wire:
// unpadded base64url. This is the one place the whole repository computes
// a digest from bytes; Thunk and the store both call through here so the
// encoding never drifts between them.
func Compute(tag Tag, data []byte, output string) Hash {
	sum := sha256.Sum256(data)
	digest := base64.RawURLEncoding.EncodeToString(sum[:])
	return New(tag, digest, output)
}

// Parse validates an externally-supplied string and returns it as a Hash,
// or a *MalformedError (via panic — see ErrMalformedHash) if it is not of
// the form "<tag><digest>[#<output>]".
//
// Parse panics rather than returning an error because a malformed hash
// reaching this boundary is always a caller bug (spec: MalformedHash is
// fatal). Callers that parse attacker- or disk-controlled strings should
// recover explicitly; the core never does.
func Parse(s string) Hash {
	if len(s) < 2 {
		malformed(s, "too short to contain a tag and digest")
	}
	if !validTag(s[0]) {
		malformed(s, "unknown tag byte")
	}
	rest := s[1:]
	digest := rest
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		digest = rest[:idx]
		if idx == len(rest)-1 {
			malformed(s, "empty output name after '#'")
		}
	}
	if digest == "" {
		malformed(s, "empty digest")
	}
	return Hash(s)
}

// TryParse is the non-panicking twin of Parse, for boundaries where a
// malformed hash is external data corruption rather than a caller bug
// (e.g. a ThunkStore reading a possibly-damaged file off disk).
func TryParse(s string) (h Hash, err error) {
	defer func() {
		if r := recover(); r != nil {
			me, ok := r.(*MalformedError)
			if !ok {
				panic(r)
			}
			err = me
		}
	}()
	return Parse(s), nil
}

// Base strips the "#output" suffix, if any. Node identity is Base(h).
func (h Hash) Base() Hash {
	s := string(h)
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		return Hash(s[:idx])
	}
	return h
}

// Type returns the tag of h. It panics (MalformedError) if h does not
// start with a recognized tag byte — this can only happen if a Hash was
// built by means other than New/Compute/Parse.
func (h Hash) Type() Tag {
	s := string(h)
	if len(s) == 0 || !validTag(s[0]) {
		malformed(s, "missing or unknown tag byte")
	}
	return Tag(s[0])
}

// Output returns the "#output" suffix, if present.
func (h Hash) Output() (string, bool) {
	s := string(h)
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		return s[idx+1:], true
	}
	return "", false
}

// Digest returns the encoded digest portion, excluding tag and output.
func (h Hash) Digest() string {
	s := string(h.Base())
	return s[1:]
}

func (h Hash) String() string { return string(h) }
