package validation

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxSkills caps how many skills or languages a profile may list.
const MaxSkills = 30

var (
	// Letters, digits, spaces and common punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// Letters, digits, underscore, dot, dash; 3-30 chars
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
)

// New returns a validator with the custom tags registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_username", ValidUsername)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("tag_list", TagList)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidUsername accepts handles like "sam_k" or "ana.lima".
func ValidUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	return !containsEmoji(fl.Field().String())
}

// TagList validates a []string of skills or languages: at most MaxSkills
// entries, each non-blank, at most 50 characters and free of emoji.
func TagList(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	if field.Len() > MaxSkills {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		s := strings.TrimSpace(field.Index(i).String())
		if s == "" || len([]rune(s)) > 50 || containsEmoji(s) {
			return false
		}
	}
	return true
}

func containsEmoji(val string) bool {
	for _, r := range val {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return true
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return true
		}
	}
	return false
}
