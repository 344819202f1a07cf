package chat

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Options carries completion parameters for a single call. Zero-valued
// fields are omitted from the wire request so the API's own defaults
// apply. Unrecognized parameters ride in Extra and are passed through
// unmodified; the library adds no abstraction over the remote schema.
type Options struct {
	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
	// TopP is the nucleus-sampling probability mass.
	TopP float64 `json:"top_p" validate:"gte=0,lte=1"`
	// N is the number of choices to generate.
	N int `json:"n" validate:"gte=0"`
	// Stop lists sequences that end generation.
	Stop []string `json:"stop"`
	// MaxTokens limits the generated length.
	MaxTokens int `json:"max_tokens" validate:"gte=0"`
	// FrequencyPenalty discourages token repetition by frequency.
	FrequencyPenalty float64 `json:"frequency_penalty" validate:"gte=-2,lte=2"`
	// PresencePenalty discourages token repetition by presence.
	PresencePenalty float64 `json:"presence_penalty" validate:"gte=-2,lte=2"`
	// LogitBias adjusts per-token likelihoods.
	LogitBias map[string]float64 `json:"logit_bias"`

	// SystemPrompt is a per-call override. It takes precedence over every
	// active scope and the client default. Not sent as a parameter.
	SystemPrompt string `json:"-"`

	// Functions are callable tools offered to the model. When present the
	// request also sets function_call to "auto".
	Functions []Function `json:"-"`

	// Extra holds parameters the struct does not model. Keys collide with
	// struct fields at the caller's own risk; values are marshalled as-is.
	Extra map[string]any `json:"-"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Use json tag names for field names in error messages
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate reports parameter values outside the API's documented ranges.
// Validation is advisory: Call and Stream never invoke it, so the remote
// API stays the authority on what it accepts.
func (o *Options) Validate() error {
	err := getValidator().Struct(o)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("chat: options validation failed: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s: must satisfy %s=%s", e.Field(), e.Tag(), e.Param()))
	}
	return fmt.Errorf("chat: invalid options: %s", strings.Join(messages, "; "))
}

// apiParams renders the recognized options as wire parameters, merged
// over Extra so explicit fields win.
func (o *Options) apiParams() map[string]any {
	params := make(map[string]any, len(o.Extra)+8)
	for k, v := range o.Extra {
		params[k] = v
	}

	if o.Temperature != 0 {
		params["temperature"] = o.Temperature
	}
	if o.TopP != 0 {
		params["top_p"] = o.TopP
	}
	if o.N != 0 {
		params["n"] = o.N
	}
	if len(o.Stop) > 0 {
		params["stop"] = o.Stop
	}
	if o.MaxTokens != 0 {
		params["max_tokens"] = o.MaxTokens
	}
	if o.FrequencyPenalty != 0 {
		params["frequency_penalty"] = o.FrequencyPenalty
	}
	if o.PresencePenalty != 0 {
		params["presence_penalty"] = o.PresencePenalty
	}
	if len(o.LogitBias) > 0 {
		params["logit_bias"] = o.LogitBias
	}
	if len(o.Functions) > 0 {
		params["functions"] = o.Functions
		params["function_call"] = "auto"
	}

	return params
}
