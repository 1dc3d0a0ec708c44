package question

import (
	"strconv"
	"unicode/utf16"
)

const maxIDLen = 16

// GenerateID derives the stable id of a question from its sitting, part and text.
//
// The id is a 32-bit multiplicative rolling hash (h = h*31 + c over UTF-16 code units)
// of "folder_part_text", rendered in base36. It is not collision proof; it only has to
// stay equal across re-parses of the same file so blacklist entries keep matching.
func GenerateID(folderName string, partNumber int, questionText string) string {
	content := folderName + "_" + strconv.Itoa(partNumber) + "_" + questionText

	var h int32
	for _, c := range utf16.Encode([]rune(content)) {
		h = h*31 + int32(c)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	id := strconv.FormatInt(abs, 36)
	if len(id) > maxIDLen {
		id = id[:maxIDLen]
	}
	return id
}
