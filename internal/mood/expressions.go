package mood

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Expression is one facial-expression label with its confidence score.
type Expression struct {
	Label string
	Score float64
}

// Expressions is the ordered set of scores a detector reports for one face.
//
// It decodes from a JSON object and keeps the object's key order, which decides ties in [Expressions.Dominant].
type Expressions []Expression

// Dominant returns the expression with the highest score. On equal scores the earlier entry wins.
// It reports false when there are no expressions.
func (e Expressions) Dominant() (Expression, bool) {
	if len(e) == 0 {
		return Expression{}, false
	}

	best := e[0]
	for _, x := range e[1:] {
		if x.Score > best.Score {
			best = x
		}
	}
	return best, true
}

// UnmarshalJSON decodes {"label": score, ...} preserving key order. A JSON null yields nil.
func (e *Expressions) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*e = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expressions: expected object, got %v", tok)
	}

	out := Expressions{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expressions: expected key, got %v", tok)
		}

		var score float64
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("expressions: score for %q: %w", label, err)
		}
		out = append(out, Expression{Label: label, Score: score})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = out
	return nil
}

// MarshalJSON encodes the expressions as an object in their current order.
func (e Expressions) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, x := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(x.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(x.Score)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
