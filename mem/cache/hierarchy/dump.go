package hierarchy

import (
	"fmt"
	"io"
	"strings"
)

// Dump prints the valid lines of every level.
func (c *Comp) Dump(w io.Writer) error {
	for _, l := range c.Layers {
		_, err := fmt.Fprintf(w, "%s (%s, %d lines, latency %d)\n",
			l.Name(), l.Spec.Strategy, l.NumLines(), l.Spec.Latency)
		if err != nil {
			return err
		}

		for i := 0; i < l.NumLines(); i++ {
			line, _ := l.Line(i)
			if !line.Valid {
				continue
			}

			_, err = fmt.Fprintf(w, "  %5d  0x%08x  tag 0x%x  %s\n",
				i, l.LineAddress(i), line.Tag, hexBytes(line.Data))
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func hexBytes(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 && i%4 == 0 {
			sb.WriteByte(' ')
		}

		fmt.Fprintf(&sb, "%02x", b)
	}

	return sb.String()
}
