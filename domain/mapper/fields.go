package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jmgomezsoriano/easy-tube/domain/model"
)

var (
	errWrongType  = errors.New("unexpected type")
	errNotInteger = errors.New("not an integer")
	errNotBoolean = errors.New("not a boolean")
)

// reader reads fields of a raw record by dotted path, reporting failures as *model.MappingError.
type reader struct {
	kind string
	rec  model.RawRecord
}

func (r reader) fail(field, path string, err error) error {
	return &model.MappingError{Kind: r.kind, Field: field, Path: path, Err: err}
}

func (r reader) lookup(field, path string) (interface{}, bool, error) {
	var cur interface{} = map[string]interface{}(r.rec)
	for _, key := range strings.Split(path, ".") {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false, r.fail(field, path, fmt.Errorf("%w: %T is not an object", errWrongType, cur))
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false, nil
		}
	}
	return cur, true, nil
}

func (r reader) required(field, path string) (interface{}, error) {
	v, ok, err := r.lookup(field, path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, r.fail(field, path, model.ErrMissingField)
	}
	return v, nil
}

func (r reader) str(field, path string) (string, error) {
	v, err := r.required(field, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", r.fail(field, path, fmt.Errorf("%w: want string, got %T", errWrongType, v))
	}
	return s, nil
}

func (r reader) optStr(field, path string) (*string, error) {
	v, ok, err := r.lookup(field, path)
	if err != nil || !ok {
		return nil, err
	}
	s, isStr := v.(string)
	if !isStr {
		return nil, r.fail(field, path, fmt.Errorf("%w: want string, got %T", errWrongType, v))
	}
	return &s, nil
}

// text reads an optional string that the API leaves out when empty.
func (r reader) text(field, path string) (string, error) {
	s, err := r.optStr(field, path)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

func (r reader) integer(field, path string) (int64, error) {
	v, err := r.required(field, path)
	if err != nil {
		return 0, err
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, r.fail(field, path, err)
	}
	return n, nil
}

// optInt reads an optional integer. Counters arrive as decimal strings.
func (r reader) optInt(field, path string) (*int64, error) {
	v, ok, err := r.lookup(field, path)
	if err != nil || !ok {
		return nil, err
	}
	n, err := toInt64(v)
	if err != nil {
		return nil, r.fail(field, path, err)
	}
	return &n, nil
}

func (r reader) flag(field, path string) (bool, error) {
	v, err := r.required(field, path)
	if err != nil {
		return false, err
	}
	b, err := toBool(v)
	if err != nil {
		return false, r.fail(field, path, err)
	}
	return b, nil
}

func (r reader) optFlag(field, path string) (*bool, error) {
	v, ok, err := r.lookup(field, path)
	if err != nil || !ok {
		return nil, err
	}
	b, err := toBool(v)
	if err != nil {
		return nil, r.fail(field, path, err)
	}
	return &b, nil
}

func (r reader) object(field, path string) (map[string]interface{}, error) {
	v, ok, err := r.lookup(field, path)
	if err != nil || !ok {
		return nil, err
	}
	obj, isObj := asObject(v)
	if !isObj {
		return nil, r.fail(field, path, fmt.Errorf("%w: want object, got %T", errWrongType, v))
	}
	return copyValue(obj).(map[string]interface{}), nil
}

func (r reader) strs(field, path string) ([]string, error) {
	v, ok, err := r.lookup(field, path)
	if err != nil || !ok {
		return nil, err
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []interface{}:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, isStr := item.(string)
			if !isStr {
				return nil, r.fail(field, path, fmt.Errorf("%w: element %d is %T", errWrongType, i, item))
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, r.fail(field, path, fmt.Errorf("%w: want list, got %T", errWrongType, v))
}

func asObject(v interface{}) (map[string]interface{}, bool) {
	switch obj := v.(type) {
	case map[string]interface{}:
		return obj, true
	case model.RawRecord:
		return obj, true
	}
	return nil, false
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int64", errNotInteger, n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %v", errNotInteger, n)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotInteger, n.String())
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", errNotInteger, n)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: %T", errNotInteger, v)
}

func toBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch {
		case strings.EqualFold(strings.TrimSpace(b), "true"):
			return true, nil
		case strings.EqualFold(strings.TrimSpace(b), "false"):
			return false, nil
		}
		return false, fmt.Errorf("%w: %q", errNotBoolean, b)
	}
	return false, fmt.Errorf("%w: %T", errNotBoolean, v)
}
