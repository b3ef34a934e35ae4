package fieldvalue

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

// ErrInvalidValue is wrapped by every parse and format failure.
var ErrInvalidValue = errors.NewStd("invalid field value")

// DateLayout is the canonical stored form of date values.
const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Value is a parsed custom field value. The zero Value is an empty text value.
type Value struct {
	typ    Type
	raw    string
	number float64
	flag   bool
	date   time.Time
	rating int
}

// Type returns the field type the value was parsed as.
func (v Value) Type() Type { return v.typ }

// Text returns the canonical stored text.
func (v Value) Text() string { return v.raw }

// IsEmpty reports whether the field has no value.
func (v Value) IsEmpty() bool { return v.raw == "" }

func (v Value) Number() (float64, bool) {
	return v.number, v.typ == TypeNumber && !v.IsEmpty()
}

func (v Value) Bool() (value, ok bool) {
	return v.flag, v.typ == TypeBoolean && !v.IsEmpty()
}

func (v Value) Date() (time.Time, bool) {
	return v.date, v.typ == TypeDate && !v.IsEmpty()
}

func (v Value) Rating() (int, bool) {
	return v.rating, v.typ == TypeRating && !v.IsEmpty()
}

func (v Value) Color() (string, bool) {
	return v.raw, v.typ == TypeColor && !v.IsEmpty()
}

func (v Value) Choice() (string, bool) {
	return v.raw, v.typ == TypeChoice && !v.IsEmpty()
}

// Parse validates text against the field type and returns the typed value.
// Blank text parses to an empty value of that type; required-ness is the caller's concern.
func Parse(t Type, text string, opts *Options) (Value, error) {
	text = strings.TrimSpace(text)
	v := Value{typ: t}
	if text == "" {
		return v, nil
	}

	switch t {
	case TypeText:
		v.raw = text

	case TypeNumber:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Value{}, invalid(t, text, "not a finite number")
		}
		v.number = n
		v.raw = text

	case TypeDate:
		d, err := parseDate(text)
		if err != nil {
			return Value{}, invalid(t, text, "expected YYYY-MM-DD")
		}
		v.date = d
		v.raw = formatDate(d)

	case TypeBoolean:
		b, ok := parseBool(text)
		if !ok {
			return Value{}, invalid(t, text, "expected true/false, yes/no or 1/0")
		}
		v.flag = b
		v.raw = strconv.FormatBool(b)

	case TypeChoice:
		values := opts.ChoiceValues()
		if len(values) > 0 && !slices.Contains(values, text) {
			return Value{}, invalid(t, text, "not one of "+strings.Join(values, ", "))
		}
		v.raw = text

	case TypeRating:
		r, err := strconv.Atoi(text)
		if err != nil {
			return Value{}, invalid(t, text, "not an integer")
		}
		if r < 0 || r > opts.RatingMax() {
			return Value{}, invalid(t, text, fmt.Sprintf("must be between 0 and %d", opts.RatingMax()))
		}
		v.rating = r
		v.raw = strconv.Itoa(r)

	case TypeColor:
		c, err := parseColor(text, opts)
		if err != nil {
			return Value{}, err
		}
		v.raw = c

	default:
		return Value{}, invalid(t, text, "unknown field type")
	}

	return v, nil
}

// Validate reports whether text is acceptable for the field type.
func Validate(t Type, text string, opts *Options) error {
	_, err := Parse(t, text, opts)
	return err
}

// Format renders a Go value as stored text for the field type. Strings are parsed
// and normalized; nil formats as empty text.
func Format(t Type, value any, opts *Options) (string, error) {
	var text string
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		text = v
	case Value:
		text = v.raw
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		text = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		text = strconv.Itoa(v)
	case int64:
		text = strconv.FormatInt(v, 10)
	case bool:
		text = strconv.FormatBool(v)
	case time.Time:
		text = formatDate(v)
	case *time.Time:
		if v == nil {
			return "", nil
		}
		text = formatDate(*v)
	default:
		return "", invalid(t, fmt.Sprint(value), fmt.Sprintf("unsupported Go type %T", value))
	}

	parsed, err := Parse(t, text, opts)
	if err != nil {
		return "", err
	}
	return parsed.raw, nil
}

func parseDate(text string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, text)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// formatDate keeps the time of day only when there is one.
func formatDate(d time.Time) string {
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0 {
		return d.Format(DateLayout)
	}
	return d.Format(time.RFC3339)
}

func parseBool(text string) (value, ok bool) {
	switch strings.ToLower(text) {
	case "true", "1", "yes", "y":
		return true, true
	case "false", "0", "no", "n":
		return false, true
	default:
		return false, false
	}
}

func parseColor(text string, opts *Options) (string, error) {
	if opts != nil {
		for _, c := range opts.Colors {
			if strings.EqualFold(c, text) {
				return c, nil
			}
		}
	}

	if !opts.CustomColorsAllowed() {
		return "", invalid(TypeColor, text, "not in the color palette")
	}
	if !hexColorPattern.MatchString(text) {
		return "", invalid(TypeColor, text, "expected #RRGGBB")
	}
	return strings.ToUpper(text), nil
}

func invalid(t Type, text, reason string) error {
	return errors.New(fmt.Errorf("%w: %s value %q %s", ErrInvalidValue, t, text, reason)).
		Component("fieldvalue").
		Category(errors.CategoryValidation).
		Context("field_type", string(t)).
		Build()
}
