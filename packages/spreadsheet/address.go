package spreadsheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned for malformed cell or range reference text
var ErrInvalidAddress = errors.New("invalid address")

// CellAddress identifies a single grid position
type CellAddress struct {
	Column int // zero-based column index
	Row    int // one-based row number
}

// String returns the letters+digits form, e.g. "AZ12"
func (a CellAddress) String() string {
	return LettersFromIndex(a.Column) + strconv.Itoa(a.Row)
}

// IndexFromLetters decodes column letters into a zero-based index. "A" is 0,
// "Z" is 25 and "AA" is 26.
func IndexFromLetters(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column letters", ErrInvalidAddress)
	}

	index := 0
	for i := 0; i < len(letters); i++ {
		if index > (math.MaxInt-26)/26 {
			return 0, fmt.Errorf("%w: column letters %q out of range", ErrInvalidAddress, letters)
		}
		ch := letters[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			index = index*26 + int(ch-'A'+1)
		case ch >= 'a' && ch <= 'z':
			index = index*26 + int(ch-'a'+1)
		default:
			return 0, fmt.Errorf("%w: column letters %q", ErrInvalidAddress, letters)
		}
	}
	return index - 1, nil
}

// LettersFromIndex encodes a zero-based column index as upper-case letters.
// negative input yields an empty string.
func LettersFromIndex(index int) string {
	if index < 0 {
		return ""
	}

	var buf []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		buf = append(buf, byte('A'+(n-1)%26))
	}

	// digits were produced least significant first
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// SplitAddress splits an address into its column letters (upper-cased) and
// row number
func SplitAddress(address string) (string, int, error) {
	i := 0
	for i < len(address) && isLetter(address[i]) {
		i++
	}
	letters, digits := address[:i], address[i:]
	if letters == "" || digits == "" {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	for j := 0; j < len(digits); j++ {
		if digits[j] < '0' || digits[j] > '9' {
			return "", 0, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
		}
	}

	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return "", 0, fmt.Errorf("%w: row in %q", ErrInvalidAddress, address)
	}
	return strings.ToUpper(letters), row, nil
}

// ParseAddress parses "B7" style text
func ParseAddress(address string) (CellAddress, error) {
	letters, row, err := SplitAddress(address)
	if err != nil {
		return CellAddress{}, err
	}
	col, err := IndexFromLetters(letters)
	if err != nil {
		return CellAddress{}, err
	}
	return CellAddress{Column: col, Row: row}, nil
}

// NormalizeAddress validates an address and returns its canonical upper-case
// form
func NormalizeAddress(address string) (string, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// IsCellReference reports whether text is a single cell reference
func IsCellReference(text string) bool {
	_, err := ParseAddress(text)
	return err == nil
}

// IsRangeReference reports whether text is an "A1:B2" range reference
func IsRangeReference(text string) bool {
	start, end, found := strings.Cut(text, ":")
	return found && IsCellReference(start) && IsCellReference(end)
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}
