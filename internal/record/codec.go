package record

import (
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
)

const (
	delimiter  = ','
	escape     = '\\'
	fieldCount = 3
)

// Encode returns the line form of r.
func Encode(r Record) string {
	var b strings.Builder
	b.Grow(len(r.Service) + len(r.Username) + len(r.Secret) + fieldCount)

	for i, field := range []string{r.Service, r.Username, r.Secret} {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		for j := 0; j < len(field); j++ {
			if c := field[j]; c == delimiter || c == escape {
				b.WriteByte(escape)
			}
			b.WriteByte(field[j])
		}
	}
	return b.String()
}

// Decode parses a line produced by Encode. It fails with an ErrCodec fault
// when the line does not hold exactly three fields or ends in a lone escape.
func Decode(line string) (Record, error) {
	fields := make([]string, 0, fieldCount)
	var cur strings.Builder

	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case escape:
			if i+1 >= len(line) {
				return Record{}, kerrors.CodecFault("decode record", fmt.Errorf("dangling escape at offset %d", i))
			}
			i++
			if next := line[i]; next != delimiter && next != escape {
				return Record{}, kerrors.CodecFault("decode record", fmt.Errorf("invalid escape %q at offset %d", next, i-1))
			}
			cur.WriteByte(line[i])
		case delimiter:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())

	if len(fields) != fieldCount {
		return Record{}, kerrors.CodecFault("decode record", fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields)))
	}
	return Record{Service: fields[0], Username: fields[1], Secret: fields[2]}, nil
}
