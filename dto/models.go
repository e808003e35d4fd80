package dto

import (
	"encoding/json"
	"time"
)

// Address is a two-line street address
type Address struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2"`
}

// DocumentInspection holds metadata gathered from an accepted file.
// Nothing in it blocks a submission.
type DocumentInspection struct {
	Pages    int      `json:"pages,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	QRCode   string   `json:"qr_code,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Document is one identity file attached to the form.
// FileName and FileType are derived from the picked file.
type Document struct {
	FileName   string              `json:"fileName"`
	FileType   string              `json:"fileType"`
	File       []byte              `json:"-"`
	Inspection *DocumentInspection `json:"inspection,omitempty"`
}

// HasFile reports whether a payload has been picked for the slot
func (d Document) HasFile() bool {
	return d.File != nil
}

// MarshalJSON adds the hasFile flag. The payload itself is never serialized.
func (d Document) MarshalJSON() ([]byte, error) {
	type document Document
	return json.Marshal(struct {
		document
		HasFile bool `json:"hasFile"`
	}{document(d), d.HasFile()})
}

// ErrorMap maps a field key to its message. A missing key or an empty
// message means the field is valid.
type ErrorMap map[string]string

// HasErrors reports whether any key carries a non-empty message
func (m ErrorMap) HasErrors() bool {
	for _, msg := range m {
		if msg != "" {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the map
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FormState is a snapshot of every field of the candidate form
type FormState struct {
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Email              string     `json:"email"`
	DateOfBirth        string     `json:"dateOfBirth"`
	ResidentialAddress Address    `json:"residentialAddress"`
	PermanentAddress   Address    `json:"permanentAddress"`
	SameAsResidential  bool       `json:"sameAsResidential"`
	Documents          []Document `json:"documents"`
	Errors             ErrorMap   `json:"errors"`
}

// NewFormState returns the state a freshly opened form starts with:
// empty fields, same-as-residential checked and one empty document slot.
func NewFormState() FormState {
	return FormState{
		SameAsResidential: true,
		Documents:         []Document{{}},
		Errors:            ErrorMap{},
	}
}

// FormSession is the externally visible view of an open form
type FormSession struct {
	ID         string    `json:"id"`
	State      FormState `json:"state"`
	Submitting bool      `json:"submitting"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PickedFile is a file chosen for a document slot
type PickedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// CandidateSubmission is the payload sent to the candidate backend
type CandidateSubmission struct {
	FirstName          string
	LastName           string
	Email              string
	DateOfBirth        string
	SameAsResidential  bool
	ResidentialAddress Address
	PermanentAddress   *Address
	Documents          []Document
}
