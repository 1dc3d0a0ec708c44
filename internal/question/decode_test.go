package question_test

import (
	"testing"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/unicode/norm"

	"github.com/p-n-ai/cbt-study/internal/question"
)

func TestDecodeText_UTF8WithBOM(t *testing.T) {
	got, err := question.DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, "문제,답"...))
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}
	if got != "문제,답" {
		t.Errorf("DecodeText() = %q, want BOM stripped", got)
	}
}

func TestDecodeText_EUCKR(t *testing.T) {
	raw, err := korean.EUCKR.NewEncoder().Bytes([]byte("정보처리기사,①"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := question.DecodeText(raw)
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}
	if got != "정보처리기사,①" {
		t.Errorf("DecodeText() = %q, want decoded Korean", got)
	}
}

func TestDecodeText_NormalisesToNFC(t *testing.T) {
	decomposed := norm.NFD.String("한글")

	got, err := question.DecodeText([]byte(decomposed))
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}
	if got != "한글" {
		t.Errorf("DecodeText() = %q, want precomposed %q", got, "한글")
	}
	if question.GenerateID("f", 1, got) != question.GenerateID("f", 1, "한글") {
		t.Error("NFC and NFD input should produce the same id after decoding")
	}
}
