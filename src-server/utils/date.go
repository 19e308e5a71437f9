package utils

import (
	"fmt"
	"strings"
	"time"

	"concerts/src-server/model"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

func NewDateParser() *when.Parser {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return parser
}

// ParseDate turns "2024-09-20" or things like "tomorrow" into a concert
// date. Natural language is resolved relative to now, in loc.
func ParseDate(parser *when.Parser, text string, now time.Time, loc *time.Location) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("ParseDate: date is blank: %w", model.ErrValidation)
	}
	if loc == nil {
		loc = time.UTC
	}
	if date, err := time.ParseInLocation(model.DateLayout, text, loc); err == nil {
		return date.Format(model.DateLayout), nil
	}

	result, err := parser.Parse(text, now.In(loc))
	if err != nil {
		return "", fmt.Errorf("ParseDate: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("ParseDate: %q is not a date: %w", text, model.ErrValidation)
	}
	return result.Time.In(loc).Format(model.DateLayout), nil
}
