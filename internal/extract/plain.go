package extract

import "strings"

// fromPlain returns content as a string with invalid UTF-8 sequences replaced
// by the replacement character.
func fromPlain(content []byte) (string, error) {
	return strings.ToValidUTF8(string(content), "�"), nil
}
