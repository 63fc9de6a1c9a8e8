package errorx

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeErrorIsMatchesByCode(t *testing.T) {
	cause := errors.New("boom")
	err := Wrapf(cause, CodeNotFound, "message %s not found", "m1")

	if !errors.Is(err, ErrNotFound) {
		t.Fatal("wrapped error does not match ErrNotFound")
	}
	if errors.Is(err, ErrUnknownRoom) {
		t.Fatal("different codes must not match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause lost")
	}
	if got := err.Error(); got != "message m1 not found: boom" {
		t.Fatalf("Error() = %q", got)
	}

	outer := fmt.Errorf("handle event: %w", err)
	if GetCode(outer) != CodeNotFound || !IsNotFound(outer) {
		t.Fatalf("code = %d", GetCode(outer))
	}
	if GetCode(errors.New("plain")) != CodeServerBusy {
		t.Fatal("plain errors must map to server busy")
	}
	if New(CodeRateLimited, "slow down").Error() != "slow down" {
		t.Fatal("New without cause must return the bare message")
	}
}
