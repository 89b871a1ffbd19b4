package catalog

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// maxWholeNumber is the largest integer a JSON client can represent exactly.
const maxWholeNumber = 1<<53 - 1

// bookRules holds coerced values; the struct tags are the per-field
// constraints. Field order here is the reporting order.
type bookRules struct {
	Name       *string  `json:"name" validate:"required"`
	Author     *string  `json:"author" validate:"required"`
	UserRating *float64 `json:"userRating" validate:"omitempty,gte=0,lte=5"`
	Reviews    *float64 `json:"reviews" validate:"omitempty,whole,gte=0,lte=9007199254740991"`
	Price      *float64 `json:"price" validate:"omitempty,gte=0"`
	Year       *float64 `json:"year" validate:"omitempty,whole,gte=0,lte=9007199254740991"`
	Genre      *string  `json:"genre"`
}

var ruleMessages = map[string]string{
	FieldName:       "Book name is required",
	FieldAuthor:     "Author is required",
	FieldUserRating: "User rating must be between 0 and 5",
	FieldReviews:    "Reviews must be a non-negative whole number",
	FieldPrice:      "Price must be a non-negative number",
	FieldYear:       "Year must be a non-negative whole number",
}

// Validator turns raw candidates into book drafts. It is safe for
// concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the book rules registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})
	return &Validator{validate: v}
}

var (
	defaultValidator     *Validator
	defaultValidatorOnce sync.Once
)

// Validate runs the shared validator over raw.
func Validate(raw RawCandidate) (entities.BookDraft, error) {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator.Validate(raw)
}

// Validate coerces every field of raw and checks all constraints in one
// pass. On failure the error is a *ValidationError listing every violated
// field, in declaration order. Unknown keys (including "id") are ignored.
func (v *Validator) Validate(raw RawCandidate) (entities.BookDraft, error) {
	reported := make(map[string]FieldError)
	record := func(err error) {
		var ce *CoercionError
		if errors.As(err, &ce) {
			reported[ce.Field] = ce.FieldError()
		}
	}

	var rules bookRules
	var err error
	if rules.Name, err = CoerceText(FieldName, raw[FieldName]); err != nil {
		record(err)
	}
	if rules.Author, err = CoerceText(FieldAuthor, raw[FieldAuthor]); err != nil {
		record(err)
	}
	if rules.UserRating, err = CoerceNumber(FieldUserRating, raw[FieldUserRating]); err != nil {
		record(err)
	}
	if rules.Reviews, err = CoerceNumber(FieldReviews, raw[FieldReviews]); err != nil {
		record(err)
	}
	if rules.Price, err = CoerceNumber(FieldPrice, raw[FieldPrice]); err != nil {
		record(err)
	}
	if rules.Year, err = CoerceNumber(FieldYear, raw[FieldYear]); err != nil {
		record(err)
	}
	if rules.Genre, err = CoerceText(FieldGenre, raw[FieldGenre]); err != nil {
		record(err)
	}

	if err := v.validate.Struct(rules); err != nil {
		var violations validator.ValidationErrors
		if !errors.As(err, &violations) {
			return entities.BookDraft{}, fmt.Errorf("validate candidate: %w", err)
		}
		for _, fe := range violations {
			field := fe.Field()
			if _, seen := reported[field]; seen {
				continue
			}
			reported[field] = FieldError{Field: field, Message: ruleMessage(field, fe.Tag()), Kind: KindInvalid}
		}
	}

	if len(reported) > 0 {
		ordered := make([]FieldError, 0, len(reported))
		for _, field := range Fields {
			if fe, ok := reported[field]; ok {
				ordered = append(ordered, fe)
			}
		}
		return entities.BookDraft{}, &ValidationError{Errors: ordered}
	}

	return entities.BookDraft{
		Name:       *rules.Name,
		Author:     *rules.Author,
		UserRating: unsignedZero(rules.UserRating),
		Reviews:    wholeNumber(rules.Reviews),
		Price:      unsignedZero(rules.Price),
		Year:       wholeNumber(rules.Year),
		Genre:      rules.Genre,
	}, nil
}

func ruleMessage(field, tag string) string {
	if tag == "lte" && (field == FieldReviews || field == FieldYear) {
		return fmt.Sprintf("%s must not exceed %d", field, int64(maxWholeNumber))
	}
	if msg, ok := ruleMessages[field]; ok {
		return msg
	}
	return field + " is invalid"
}

// unsignedZero turns -0 into 0 so it never reaches storage or the wire.
func unsignedZero(f *float64) *float64 {
	if f == nil || *f != 0 {
		return f
	}
	zero := 0.0
	return &zero
}

func wholeNumber(f *float64) *int64 {
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}
