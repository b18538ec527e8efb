package diagfmt

import (
	"fmt"
	"io"

	"genarity/internal/diag"
	"genarity/internal/source"
)

// Short prints one line per diagnostic: path:line:col: SEV CODE: message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n", location(fs, d.Primary, mode), d.Severity, d.Code.ID(), d.Message)
	}
}
