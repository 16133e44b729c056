package sourcechain

import (
	"bytes"
	"regexp"
	"strings"
)

// Prefix prepends p to every string item.
func Prefix(parent *Source[string], label, p string) *Source[string] {
	return Map(parent, label, func(s string) string { return p + s })
}

// Suffix appends s to every string item.
func Suffix(parent *Source[string], label, suffix string) *Source[string] {
	return Map(parent, label, func(s string) string { return s + suffix })
}

// Chomp removes a single trailing "\n" or "\r\n" from each string item,
// the way Raku's chomp does, leaving items without one unchanged.
func Chomp(parent *Source[string], label string) *Source[string] {
	return Map(parent, label, func(s string) string {
		if strings.HasSuffix(s, "\n") {
			s = strings.TrimSuffix(s, "\n")
			s = strings.TrimSuffix(s, "\r")
		}
		return s
	})
}

// Split breaks each string item on sep and emits the resulting pieces as
// separate items, one input item becoming zero or more output items.
func Split(parent *Source[string], label, sep string) *Source[string] {
	return attach(parent, label, func(item string, child *Source[string]) {
		for _, part := range strings.Split(item, sep) {
			if err := child.Emit(part); err != nil {
				return
			}
		}
	})
}

// ChunkSize rebuffers a []byte stream into fixed-size chunks, the byte
// counterpart to a batching operator. Residue shorter than size is
// discarded when parent finishes, never flushed as a short final chunk:
// total emitted length is always floor(total input length / size) *
// size, and a total input shorter than size emits nothing at all.
func ChunkSize(parent *Source[[]byte], label string, size int) (*Source[[]byte], error) {
	if err := validateArgs(struct {
		Size int `validate:"gt=0"`
	}{Size: size}); err != nil {
		return nil, err
	}
	var buf []byte
	return attachBuffered(parent, label,
		func(item []byte, child *Source[[]byte]) {
			buf = append(buf, item...)
			for len(buf) >= size {
				chunk := make([]byte, size)
				copy(chunk, buf[:size])
				if err := child.Emit(chunk); err != nil {
					return
				}
				buf = buf[size:]
			}
		},
		func(child *Source[[]byte]) { _ = child.Finish() },
	), nil
}

// ByLine rebuffers a []byte stream into complete "\n"-terminated lines
// (the terminator stripped), buffering any trailing partial line across
// chunk boundaries and flushing it, if non-empty, when parent finishes.
func ByLine(parent *Source[[]byte], label string) *Source[string] {
	var buf []byte
	return attachBuffered(parent, label,
		func(item []byte, child *Source[string]) {
			buf = append(buf, item...)
			for {
				idx := bytes.IndexByte(buf, '\n')
				if idx < 0 {
					return
				}
				line := strings.TrimSuffix(string(buf[:idx]), "\r")
				if err := child.Emit(line); err != nil {
					return
				}
				buf = buf[idx+1:]
			}
		},
		func(child *Source[string]) {
			if len(buf) > 0 {
				if err := child.Emit(string(buf)); err != nil {
					return
				}
			}
			_ = child.Finish()
		},
	)
}

// ExtractAll runs re over each string item and emits one map per match,
// keyed by the regex's named capture groups (unnamed groups are skipped,
// matching regexp.SubexpNames's "" entries).
func ExtractAll(parent *Source[string], label string, re *regexp.Regexp) *Source[map[string]string] {
	names := re.SubexpNames()
	return attach(parent, label, func(item string, child *Source[map[string]string]) {
		for _, match := range re.FindAllStringSubmatch(item, -1) {
			m := make(map[string]string)
			for i, name := range names {
				if name == "" || i >= len(match) {
					continue
				}
				m[name] = match[i]
			}
			if err := child.Emit(m); err != nil {
				return
			}
		}
	})
}
