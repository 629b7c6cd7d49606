package extract

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// PreviewLength bounds the number of runes of an undecodable response that
// are written to the log.
const PreviewLength = 500

// Kind identifies which JSON shape a Payload was decoded from.
type Kind int

const (
	KindNone Kind = iota
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "none"
	}
}

// Payload is the structured result recovered from a model response.
type Payload struct {
	Kind   Kind
	Object map[string]any
	Items  []any
}

// Empty reports whether nothing could be decoded.
func (p Payload) Empty() bool {
	return p.Kind == KindNone
}

// Field returns the raw value of an object field.
func (p Payload) Field(name string) (any, bool) {
	if p.Kind != KindObject {
		return nil, false
	}
	v, ok := p.Object[name]
	return v, ok
}

// List returns an object field holding an array, or the items of an array
// payload when name is empty.
func (p Payload) List(name string) []any {
	if name == "" {
		return p.Items
	}
	v, _ := p.Field(name)
	list, _ := v.([]any)
	return list
}

// Strings returns the elements of List(name) as strings. Elements that are
// not strings become "" so positions are preserved.
func (p Payload) Strings(name string) []string {
	list := p.List(name)
	if list == nil {
		return nil
	}
	out := make([]string, len(list))
	for i, v := range list {
		out[i], _ = v.(string)
	}
	return out
}

// String returns a string object field, or "".
func (p Payload) String(name string) string {
	v, _ := p.Field(name)
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Int returns an integer object field. Numeric strings are accepted.
func (p Payload) Int(name string) (int, bool) {
	v, ok := p.Field(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// Extractor decodes model responses and logs what it cannot decode.
type Extractor struct {
	logger *zap.Logger
}

// New creates an extractor. A nil logger discards log output.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

var defaultExtractor = New(nil)

// Extract decodes raw without logging.
func Extract(raw string) Payload {
	return defaultExtractor.Extract(raw)
}

// Extract locates and decodes the JSON embedded in raw. An object is
// preferred over an array unless the object is an element of the array.
// It never fails: undecodable input yields an empty payload.
func (e *Extractor) Extract(raw string) Payload {
	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')
	if objStart < 0 && arrStart < 0 {
		return Payload{}
	}

	if objStart >= 0 && !nestedInArray(raw, objStart, arrStart) {
		if p, ok := e.object(raw); ok {
			return p
		}
	}
	if arrStart >= 0 {
		if p, ok := e.array(raw); ok {
			return p
		}
	}
	if objStart >= 0 && nestedInArray(raw, objStart, arrStart) {
		if p, ok := e.object(raw); ok {
			return p
		}
	}

	e.logger.Warn("no decodable JSON in model response",
		zap.Int("length", len(raw)),
		zap.String("preview", Preview(raw)))
	return Payload{}
}

// ExtractObject decodes only the object form.
func (e *Extractor) ExtractObject(raw string) Payload {
	p, _ := e.object(raw)
	return p
}

// ExtractArray decodes only the array form.
func (e *Extractor) ExtractArray(raw string) Payload {
	p, _ := e.array(raw)
	return p
}

func (e *Extractor) object(raw string) (Payload, bool) {
	candidate, ok := Balanced(raw, '{', '}')
	if !ok {
		return Payload{}, false
	}
	var v any
	if err := sonic.UnmarshalString(RepairTrailingCommas(candidate), &v); err != nil {
		e.logger.Debug("object candidate did not decode",
			zap.Error(err),
			zap.String("preview", Preview(candidate)))
		return Payload{}, false
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return Payload{}, false
	}
	return Payload{Kind: KindObject, Object: obj}, true
}

func (e *Extractor) array(raw string) (Payload, bool) {
	candidate, ok := Balanced(raw, '[', ']')
	if !ok {
		return Payload{}, false
	}
	var v any
	if err := sonic.UnmarshalString(RepairTrailingCommas(candidate), &v); err != nil {
		e.logger.Debug("array candidate did not decode",
			zap.Error(err),
			zap.String("preview", Preview(candidate)))
		return Payload{}, false
	}
	items, ok := v.([]any)
	if !ok {
		return Payload{}, false
	}
	return Payload{Kind: KindArray, Items: items}, true
}

// nestedInArray reports whether the object starting at objStart lies inside
// the array that starts at arrStart.
func nestedInArray(raw string, objStart, arrStart int) bool {
	if arrStart < 0 || arrStart > objStart {
		return false
	}
	end := matchingClose(raw, arrStart, '[', ']')
	return end < 0 || objStart < end
}

// Preview returns at most PreviewLength runes of s with line breaks
// flattened, for logging.
func Preview(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(strings.TrimSpace(s))
	if s == "" {
		return "<empty>"
	}
	runes := []rune(s)
	if len(runes) > PreviewLength {
		return string(runes[:PreviewLength]) + "..."
	}
	return s
}
