package question

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/unicode/norm"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText turns raw file bytes into NFC-normalised UTF-8.
//
// Spreadsheet exports of Korean question banks are frequently EUC-KR (CP949); any input
// that is not valid UTF-8 is decoded as such. NFC keeps decomposed Hangul from producing
// a different question id than the precomposed form.
func DecodeText(raw []byte) (string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		decoded, err := korean.EUCKR.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode euc-kr: %w", err)
		}
		raw = decoded
	}
	return norm.NFC.String(string(raw)), nil
}
