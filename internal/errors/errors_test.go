package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestWrap_PreservesSentinelAndInternal(t *testing.T) {
	internal := stderrors.New("connection refused")
	err := Wrap(ErrInternalServer, internal)

	if err.Code != "INTERNAL_ERROR" || err.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected wrapped error: %+v", err)
	}
	if !stderrors.Is(err, internal) {
		t.Error("expected errors.Is to reach the internal error")
	}
}

func TestWithMessage(t *testing.T) {
	err := WithMessage(ErrInvalidInput, "jumlah must be a non-negative whole number")

	if err.Code != "INVALID_INPUT" || err.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected error: %+v", err)
	}
	if err.Error() != "jumlah must be a non-negative whole number" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if ErrInvalidInput.Message != "Invalid input" {
		t.Error("sentinel must not be mutated")
	}
}

func TestResponse(t *testing.T) {
	body := ErrTransactionNotFound.Response()

	if body["detail"] != "Transaction not found" {
		t.Errorf("unexpected detail: %v", body["detail"])
	}
	inner, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %T", body["error"])
	}
	if inner["code"] != "TRANSACTION_NOT_FOUND" {
		t.Errorf("unexpected code: %v", inner["code"])
	}
}
