package ui

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/PolarWolf314/securevault/internal/record"
)

// masked replaces a hidden secret.
const masked = "********"

// RenderRecords writes records as a numbered table. Secrets are shown only
// when reveal is true.
func RenderRecords(w io.Writer, records []record.Record, reveal bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tSERVICE\tUSERNAME\tPASSWORD")
	for i, r := range records {
		secret := masked
		if reveal {
			secret = r.Secret
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Service, r.Username, secret)
	}
	return tw.Flush()
}
