package extractor

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// errUndecodable marks content that none of the fallback encodings could
// decode.
var errUndecodable = errors.New("content is not decodable as text")

// decodeContent decodes raw file bytes trying UTF-8 first, then Latin-1,
// then Windows-1252. The first successful decode wins.
func decodeContent(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		decoded, err := cm.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}

	return "", errUndecodable
}
