// Package validation validates request structs with go-playground/validator
// and reports failures as INVALID_INPUT app errors.
//
//	type ExtractRequest struct {
//	    URL      string `json:"youtube_url" validate:"required,url,httpurl"`
//	    Language string `json:"language" validate:"omitempty,bcp47"`
//	}
//	err := validation.Validate(req)
//
// Besides the built-in tags it registers:
//   - httpurl: an absolute http or https URL with a host
//   - bcp47: a language tag golang.org/x/text/language can parse
package validation
