package config

import (
	"errors"
	"fmt"

	"go.yaml.in/yaml/v3"
)

var (
	ErrMissingKey = errors.New("missing key")
	ErrFormat     = errors.New("malformed document")
)

// Key is a set of alternative spellings for one logical field.
// The first spelling is canonical and used in error messages.
type Key []string

var (
	keyDate      = Key{"date", "day_string", "day_str"}
	keyDayLayout = Key{"format", "fmt", "date_format"}
	keyYear      = Key{"year", "y"}
	keyMonth     = Key{"month", "m"}
	keyDay       = Key{"day", "d"}

	keyTime       = Key{"time", "daytime", "time_string"}
	keyTimeLayout = Key{"format", "fmt", "time_format"}
	keyHour       = Key{"hour", "h", "hours"}
	keyMinute     = Key{"minute", "min", "minutes"}
	keySecond     = Key{"second", "sec", "seconds", "s"}

	keyDateTime = Key{"datetime", "time_string", "time_str", "timestamp"}
	keyDayPart  = Key{"date", "day_part"}
	keyTimePart = Key{"daytime", "time_part"}

	keyStart    = Key{"start", "begin", "from"}
	keyEnd      = Key{"end", "finish", "to"}
	keyDuration = Key{"duration", "length", "duration_seconds"}
)

// Node wraps a decoded YAML value and offers lookups that accept any of a
// Key's alternative spellings.
type Node struct {
	val any
}

func ParseNode(data []byte) (Node, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if v == nil {
		v = map[string]any{}
	}
	return Node{val: v}, nil
}

func NodeOf(v any) Node { return Node{val: v} }

func (n Node) IsMapping() bool {
	_, ok := n.val.(map[string]any)
	return ok
}

func (n Node) lookup(key Key) (any, bool) {
	m, ok := n.val.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, k := range key {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func (n Node) Has(key Key) bool {
	_, ok := n.lookup(key)
	return ok
}

func (n Node) String(key Key) (string, error) {
	v, ok := n.lookup(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, key[0])
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrFormat, key[0], v)
	}
	return s, nil
}

func (n Node) StringOr(key Key, def string) string {
	if s, err := n.String(key); err == nil {
		return s
	}
	return def
}

func (n Node) Int(key Key) (int, error) {
	v, ok := n.lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingKey, key[0])
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case uint64:
		return int(x), nil
	}
	return 0, fmt.Errorf("%w: %s is %T, want integer", ErrFormat, key[0], v)
}

func (n Node) IntOr(key Key, def int) (int, error) {
	v, err := n.Int(key)
	if errors.Is(err, ErrMissingKey) {
		return def, nil
	}
	return v, err
}

func (n Node) Child(key Key) (Node, error) {
	v, ok := n.lookup(key)
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrMissingKey, key[0])
	}
	return Node{val: v}, nil
}
