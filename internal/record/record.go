// Package record defines the credential record and its line encoding.
//
// A Record is compared structurally: two records with the same three fields
// are interchangeable. Records carry no identifier, so a collection cannot
// tell two identical records apart.
//
// # Line Format
//
// Encode joins the fields with commas. Backslashes and commas inside a field
// are escaped with a backslash, so every string round-trips exactly:
//
//	Encode(Record{"Gmail", "alice", "p,1"}) == `Gmail,alice,p\,1`
//
// Lines written by older versions, which joined the fields without escaping,
// decode unchanged as long as the values contain no comma or backslash.
package record

// Record is one stored credential.
type Record struct {
	Service  string `json:"service"`
	Username string `json:"username"`
	Secret   string `json:"-"`
}

// New returns a Record.
func New(service, username, secret string) Record {
	return Record{Service: service, Username: username, Secret: secret}
}

// String omits the secret.
func (r Record) String() string {
	return r.Service + " (" + r.Username + ")"
}
