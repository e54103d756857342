package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeCaptionUnavailable, "no captions", http.StatusBadRequest)
	if err.Code != ErrCodeCaptionUnavailable {
		t.Errorf("expected code %s, got %s", ErrCodeCaptionUnavailable, err.Code)
	}
	if err.Message != "no captions" {
		t.Errorf("expected message 'no captions', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("CAPTION_UNAVAILABLE should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestCaptionUnavailable_DefaultMessage(t *testing.T) {
	err := CaptionUnavailable("")
	if err.HTTPStatus != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", err.HTTPStatus)
	}
	if !strings.Contains(err.Message, "No captions") {
		t.Errorf("expected default message, got %q", err.Message)
	}

	custom := CaptionUnavailable("Captions exist but could not be accessed programmatically")
	if custom.Message != "Captions exist but could not be accessed programmatically" {
		t.Errorf("expected custom message, got %q", custom.Message)
	}
}

func TestToolFailed_Details(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := ToolFailed("yt-dlp", 1, cause)
	if err.Code != ErrCodeToolFailed {
		t.Errorf("expected TOOL_FAILED, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if err.Details["tool"] != "yt-dlp" {
		t.Errorf("expected tool=yt-dlp, got %v", err.Details["tool"])
	}
	if err.Details["exit_code"] != 1 {
		t.Errorf("expected exit_code=1, got %v", err.Details["exit_code"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Retryable {
		t.Error("Internal should NOT be retryable by default")
	}
}

func TestAppError_Unauthorized_Success(t *testing.T) {
	err := Unauthorized("")
	if err.Code != ErrCodeUnauthorized {
		t.Errorf("expected UNAUTHORIZED, got %s", err.Code)
	}
	if err.Message != "Authentication required." {
		t.Errorf("expected default message, got %q", err.Message)
	}

	err2 := Unauthorized("bad token")
	if err2.Message != "bad token" {
		t.Errorf("expected custom message, got %q", err2.Message)
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("youtube_url", "must be a URL")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "youtube_url" {
		t.Errorf("expected field=youtube_url, got %v", err.Details["field"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := CaptionUnavailable("").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := ServiceUnavailable("whisper").WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["service"] != "whisper" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details == nil {
		t.Fatal("expected Details map to be initialized")
	}
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"ServiceUnavailable", ServiceUnavailable("whisper"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"Timeout", Timeout("resolve"), ErrCodeTimeout, http.StatusGatewayTimeout, true},
		{"CaptionUnavailable", CaptionUnavailable(""), ErrCodeCaptionUnavailable, http.StatusBadRequest, false},
		{"ToolFailed", ToolFailed("yt-dlp", 2, nil), ErrCodeToolFailed, http.StatusBadGateway, true},
		{"MissingField", MissingField("youtube_url"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"InvalidToken", InvalidToken(), ErrCodeInvalidToken, http.StatusUnauthorized, false},
		{"ExternalServiceError", ExternalServiceError("whisper", nil), ErrCodeExternalService, http.StatusBadGateway, true},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_ToResponse_Detail(t *testing.T) {
	err := CaptionUnavailable("Captions exist but could not be accessed programmatically")
	resp := err.ToResponse()
	if resp.Detail != err.Message {
		t.Errorf("expected detail to mirror message, got %q", resp.Detail)
	}
	if resp.Error.Code != ErrCodeCaptionUnavailable {
		t.Errorf("expected code CAPTION_UNAVAILABLE in response, got %s", resp.Error.Code)
	}
	if resp.Error.Retryable {
		t.Error("expected retryable=false in response")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	appErr := Internal(nil)
	wrapped := fmt.Errorf("wrap: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := CaptionUnavailable("")
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("Wrap should return the wrapped AppError unchanged")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("resolve: %w", CaptionUnavailable(""))
	if !HasCode(err, ErrCodeCaptionUnavailable) {
		t.Error("expected HasCode to match wrapped code")
	}
	if HasCode(err, ErrCodeToolFailed) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeInternal) {
		t.Error("expected HasCode false for plain error")
	}
}
