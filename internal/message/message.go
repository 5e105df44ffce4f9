package message

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/cespare/xxhash"
)

// DefaultText is sent when neither a message nor JSON mode is requested.
const DefaultText = "Hello from UDP Multicast Test"

const (
	fieldTimestamp = "timestamp"
	fieldID        = "id"
)

// Clock supplies wall-clock time to the builder.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Builder materializes the payload for one send.
type Builder struct {
	Clock Clock
}

func NewBuilder(clock Clock) *Builder {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Builder{Clock: clock}
}

// Build returns the payload for a single attempt.
//
// Only messages in JSON mode whose first non-blank character is '{' are
// touched. If such a message does not decode as an object it is returned
// unchanged. Otherwise "timestamp" is refreshed (only when already present and
// refreshTimestamp is set) and "id" is set when id is non-nil.
func (b *Builder) Build(base string, jsonMode, refreshTimestamp bool, id *int) string {
	if !jsonMode || !looksLikeObject(base) {
		return base
	}
	if !refreshTimestamp && id == nil {
		return base
	}

	obj, ok := decodeObject(base)
	if !ok {
		return base
	}

	if refreshTimestamp {
		if _, has := obj[fieldTimestamp]; has {
			obj[fieldTimestamp] = b.now().UnixMilli()
		}
	}
	if id != nil {
		obj[fieldID] = *id
	}

	out, err := encode(obj)
	if err != nil {
		return base
	}
	return out
}

func (b *Builder) now() time.Time {
	if b.Clock == nil {
		return SystemClock{}.Now()
	}
	return b.Clock.Now()
}

// DefaultJSON is the message used in JSON mode when none was supplied. The id
// field is added per send, not here.
func DefaultJSON(command string, clock Clock) string {
	if clock == nil {
		clock = SystemClock{}
	}
	obj := map[string]any{
		"command":      command,
		fieldTimestamp: clock.Now().UnixMilli(),
		"status":       "success",
	}
	out, _ := encode(obj)
	return out
}

// Digest is a short fingerprint of a payload for correlating log lines with
// what a listener received.
func Digest(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}

// encode writes obj without HTML escaping so operator text such as "<a&b>"
// goes out as typed.
func encode(obj map[string]any) (string, error) {
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func looksLikeObject(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t\r\n"), "{")
}

func decodeObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil || obj == nil {
		return nil, false
	}
	// Anything after the object means this was not a JSON message.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, false
	}
	return obj, true
}
