package apperror

import (
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestClassification(t *testing.T) {
	client := New(StatusUnprocessable, "CIA: CO headers not discovered")
	if !IsClientFault(client) {
		t.Error("422 error should be a client fault")
	}
	if StatusOf(client) != StatusUnprocessable {
		t.Errorf("StatusOf = %d, expected 422", StatusOf(client))
	}
	if UserMessage(client) != "CIA: CO headers not discovered" {
		t.Errorf("client fault message must surface verbatim, got %q", UserMessage(client))
	}

	server := Wrap(io.ErrUnexpectedEOF, StatusInternal, "workbook generation failed")
	if IsClientFault(server) {
		t.Error("500 error must not be a client fault")
	}
	if UserMessage(server) != GenericMessage {
		t.Errorf("server fault message must be generic, got %q", UserMessage(server))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	wrapped := Wrap(io.ErrUnexpectedEOF, StatusInternal, "render failed")
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("wrapped cause should survive errors.Is")
	}
}

func TestUnclassifiedDefaultsToInternal(t *testing.T) {
	plain := errors.New("boom")
	if StatusOf(plain) != StatusInternal {
		t.Errorf("StatusOf(plain) = %d, expected 500", StatusOf(plain))
	}
	if UserMessage(plain) != GenericMessage {
		t.Error("plain errors must report the generic message")
	}
}
