// Package source fetches the batch of text records that entrybot types into the editor.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UnknownID is used when the source omits a record id.
const UnknownID = "unknown"

// RecordID is an integer id, or unknown when the source did not provide one.
type RecordID struct {
	value int64
	known bool
}

// NewRecordID returns a known id.
func NewRecordID(v int64) RecordID {
	return RecordID{value: v, known: true}
}

// Known reports whether the source supplied an id.
func (id RecordID) Known() bool { return id.known }

// String renders the id as it appears in file names and log lines.
func (id RecordID) String() string {
	if !id.known {
		return UnknownID
	}
	return strconv.FormatInt(id.value, 10)
}

// UnmarshalJSON accepts a JSON integer. null leaves the id unknown.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = RecordID{}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("record id %s is not an integer", n)
	}
	*id = NewRecordID(v)
	return nil
}

// Record is one entry of the remote list. It is never modified after decoding.
type Record struct {
	ID    RecordID `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
}

// Content is the text typed into the editor and written to the output file.
func (r Record) Content() string {
	return "Title: " + r.Title + "\n\n" + r.Body
}
