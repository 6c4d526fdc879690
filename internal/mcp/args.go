package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"golang.org/x/text/language"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
)

// ID is a resource id that accepts a JSON number or a numeric string
type ID int64

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// integral floats such as 7.0
		f, ferr := strconv.ParseFloat(string(data), 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("%s is not an integer id", data)
		}
		n = int64(f)
	}
	*id = ID(n)
	return nil
}

type ticketArgs struct {
	TicketID ID `json:"ticket_id" validate:"required,gt=0"`
}

type ticketCommentsArgs struct {
	TicketID            ID   `json:"ticket_id" validate:"required,gt=0"`
	IncludeInlineImages bool `json:"include_inline_images"`
}

type createCommentArgs struct {
	TicketID ID     `json:"ticket_id" validate:"required,gt=0"`
	Comment  string `json:"comment" validate:"required,notblank"`
	Public   *bool  `json:"public"`
}

type attachmentArgs struct {
	AttachmentID ID `json:"attachment_id" validate:"required,gt=0"`
}

type searchArticlesArgs struct {
	Query  string `json:"query" validate:"required,notblank"`
	Limit  *int   `json:"limit" validate:"omitempty,min=1,max=100"`
	Locale string `json:"locale"`
}

type articleArgs struct {
	ArticleID ID     `json:"article_id" validate:"required,gt=0"`
	Locale    string `json:"locale"`
}

type sectionArticlesArgs struct {
	SectionID ID     `json:"section_id" validate:"required,gt=0"`
	Limit     *int   `json:"limit" validate:"omitempty,min=1,max=100"`
	Locale    string `json:"locale"`
}

type searchMacrosArgs struct {
	Query string `json:"query" validate:"required,notblank"`
	Limit *int   `json:"limit" validate:"omitempty,min=1,max=100"`
}

type macroArgs struct {
	MacroID ID `json:"macro_id" validate:"required,gt=0"`
}

type applyMacroArgs struct {
	TicketID ID `json:"ticket_id" validate:"required,gt=0"`
	MacroID  ID `json:"macro_id" validate:"required,gt=0"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeArgs unmarshals raw tool arguments into dst and validates them
func (h *Handler) decodeArgs(raw json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, dst); err != nil {
			return decodeError(err)
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return domain.NewValidationError("", err.Error())
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return domain.NewValidationError(typeErr.Field, fmt.Sprintf("must be of type %s", typeName(typeErr.Type)))
	}
	return domain.NewValidationError("", err.Error())
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64:
		return "integer"
	case reflect.String:
		return "string"
	default:
		return t.String()
	}
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.String {
			return domain.NewValidationError(field, "must not be empty")
		}
		return domain.NewValidationError(field, "is required")
	case "notblank":
		return domain.NewValidationError(field, "must not be empty")
	case "gt":
		return domain.NewValidationError(field, "must be a positive integer")
	case "min", "max":
		return domain.NewValidationError(field, fmt.Sprintf("must be between 1 and %d", MaxLimit))
	default:
		return domain.NewValidationError(field, "failed "+fe.Tag()+" check")
	}
}

// normalizeLocale validates a locale tag and lower-cases it for Help Center
// URLs. Deprecated tags such as iw are kept as requested. Empty means the
// default locale.
func normalizeLocale(locale, fallback string) (string, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return fallback, nil
	}
	tag, err := language.Raw.Parse(locale)
	if err != nil {
		return "", domain.NewValidationError("locale", fmt.Sprintf("invalid locale %q", locale))
	}
	return strings.ToLower(tag.String()), nil
}

func limitOrDefault(limit *int, def int) int {
	if limit == nil {
		return def
	}
	return *limit
}
