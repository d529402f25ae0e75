package diag

import (
	"fmt"
	"io"
)

// WriteBag renders a sorted bag to w, one diagnostic per line, notes
// indented under their diagnostic.
func WriteBag(w io.Writer, b *Bag) error {
	b.Sort()
	for _, d := range b.Items() {
		if _, err := fmt.Fprintln(w, d.String()); err != nil {
			return err
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  note: %s\n", n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}
