package schema

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/aretw0/fixtures/internal/logging"
	"github.com/aretw0/fixtures/pkg/domain"
)

// rootPath labels the top-level value in messages.
const rootPath = "root"

// Validator walks values against schemas.
// It keeps no per-call state and is safe for concurrent use.
type Validator struct {
	mu       sync.RWMutex
	formats  map[string]FormatFunc
	patterns sync.Map // pattern source -> compiledPattern

	logger *slog.Logger
	hooks  domain.Hooks
}

type compiledPattern struct {
	re  *regexp.Regexp
	err error
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorLogger sets the logger used for format registration.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithValidatorHooks registers callbacks fired after schema validations.
func WithValidatorHooks(hooks domain.Hooks) ValidatorOption {
	return func(v *Validator) {
		v.hooks = hooks
	}
}

// NewValidator returns a validator with the built-in formats registered.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		formats: builtinFormats(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// RegisterFormat adds or replaces the checker for a format name.
func (v *Validator) RegisterFormat(name string, fn FormatFunc) {
	v.mu.Lock()
	v.formats[name] = fn
	v.mu.Unlock()
	v.logger.Info("Registered format checker", "format", name)
}

// Formats returns the registered format names, sorted.
func (v *Validator) Formats() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.formats))
	for name := range v.formats {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (v *Validator) format(name string) (FormatFunc, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	fn, ok := v.formats[name]
	return fn, ok
}

// Validate checks value against s and returns a fresh result.
// It never fails: every violation is recorded in the result.
func (v *Validator) Validate(value any, s *Schema) *Result {
	res := NewResult()
	if s == nil {
		res.Add(LevelWarning, rootPath+": no schema given, nothing validated")
		return res
	}
	v.walk(value, s, rootPath, res)
	return res
}

// validateNamed validates and reports the pass to the OnValidate hook.
func (v *Validator) validateNamed(value any, s *Schema, name string) *Result {
	res := v.Validate(value, s)
	v.report(name, res)
	return res
}

func (v *Validator) report(name string, res *Result) {
	if v.hooks.OnValidate != nil {
		v.hooks.OnValidate(&domain.ValidationEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventValidation},
			Schema:    name,
			Valid:     res.Valid,
			Errors:    len(res.Errors),
			Warnings:  len(res.Warnings),
		})
	}
}

func (v *Validator) walk(value any, s *Schema, path string, res *Result) {
	if value == nil {
		if !s.Nullable && s.Type != TypeNull {
			res.Add(LevelError, path+": value cannot be null")
		}
		return
	}

	if s.Type != "" {
		if !s.Type.Known() {
			res.Add(LevelWarning, fmt.Sprintf("%s: unknown type '%s', type not checked", path, s.Type))
		} else if !matchesType(value, s.Type) {
			res.Add(LevelError, fmt.Sprintf("%s: expected type %s, got %s", path, s.Type, typeOf(value)))
			return
		}
	}

	if obj, ok := asObject(value); ok {
		for _, field := range s.Required {
			if _, present := obj[field]; !present {
				res.Add(LevelError, fmt.Sprintf("%s: missing required field '%s'", path, field))
			}
		}
		for _, name := range s.PropertyNames() {
			prop := s.Properties[name]
			if prop == nil {
				continue
			}
			childPath := name
			if path != rootPath {
				childPath = path + "." + name
			}
			if child, present := obj[name]; present {
				v.walk(child, prop, childPath, res)
			} else if prop.RequiredFlag {
				res.Add(LevelError, childPath+": required field is missing")
			}
		}
	}

	if s.Items != nil {
		if items, ok := asArray(value); ok {
			for i, item := range items {
				v.walk(item, s.Items, fmt.Sprintf("%s[%d]", path, i), res)
			}
		}
	}

	v.checkConstraints(value, s, path, res)
	v.checkFormat(value, s, path, res)
}

func (v *Validator) checkConstraints(value any, s *Schema, path string, res *Result) {
	switch val := value.(type) {
	case string:
		n := utf8.RuneCountInString(val)
		if s.MinLength != nil && n < *s.MinLength {
			res.Add(LevelError, fmt.Sprintf("%s: string too short (min: %d, got %d)", path, *s.MinLength, n))
		}
		if s.MaxLength != nil && n > *s.MaxLength {
			res.Add(LevelError, fmt.Sprintf("%s: string too long (max: %d, got %d)", path, *s.MaxLength, n))
		}
		if s.Pattern != "" {
			re, err := v.compile(s.Pattern)
			switch {
			case err != nil:
				res.Add(LevelError, fmt.Sprintf("%s: invalid pattern %q: %v", path, s.Pattern, err))
			case !re.MatchString(val):
				res.Add(LevelError, fmt.Sprintf("%s: string %q does not match pattern %q", path, val, s.Pattern))
			}
		}
	case bool:
	default:
		if num, ok := asFloat(value); ok {
			if s.Minimum != nil && num < *s.Minimum {
				res.Add(LevelError, fmt.Sprintf("%s: value too small (min: %v, got %v)", path, *s.Minimum, value))
			}
			if s.Maximum != nil && num > *s.Maximum {
				res.Add(LevelError, fmt.Sprintf("%s: value too large (max: %v, got %v)", path, *s.Maximum, value))
			}
		} else if items, ok := asArray(value); ok {
			if s.MinItems != nil && len(items) < *s.MinItems {
				res.Add(LevelError, fmt.Sprintf("%s: too few items (min: %d, got %d)", path, *s.MinItems, len(items)))
			}
			if s.MaxItems != nil && len(items) > *s.MaxItems {
				res.Add(LevelError, fmt.Sprintf("%s: too many items (max: %d, got %d)", path, *s.MaxItems, len(items)))
			}
		}
	}

	if len(s.Enum) > 0 && !slices.ContainsFunc(s.Enum, func(candidate any) bool {
		return equalValues(candidate, value)
	}) {
		res.Add(LevelError, fmt.Sprintf("%s: value must be one of %v, got %v", path, s.Enum, value))
	}
}

func (v *Validator) checkFormat(value any, s *Schema, path string, res *Result) {
	if s.Format == "" {
		return
	}
	fn, ok := v.format(s.Format)
	if !ok {
		res.Add(LevelWarning, fmt.Sprintf("%s: unknown format '%s', format not checked", path, s.Format))
		return
	}
	if str, isString := value.(string); isString && !fn(str) {
		res.Add(LevelError, fmt.Sprintf("%s: invalid %s format", path, s.Format))
	}
}

// compile anchors pattern at the start of the input, as a match-from-start
// search does, and memoizes the outcome including compile errors.
func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := v.patterns.Load(pattern); ok {
		c := cached.(compiledPattern)
		return c.re, c.err
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	v.patterns.Store(pattern, compiledPattern{re: re, err: err})
	return re, err
}

// equalValues compares enum candidates, treating numbers of any width as equal by value.
func equalValues(a, b any) bool {
	if _, isBool := a.(bool); isBool {
		return a == b
	}
	if _, isBool := b.(bool); isBool {
		return false
	}
	fa, okA := asFloat(a)
	fb, okB := asFloat(b)
	if okA || okB {
		return okA && okB && fa == fb
	}
	if isComparable(a) && isComparable(b) {
		return a == b
	}
	return false
}

func isComparable(v any) bool {
	switch v.(type) {
	case nil, string:
		return true
	}
	_, obj := asObject(v)
	_, arr := asArray(v)
	return !obj && !arr
}
