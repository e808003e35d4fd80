package dto

// AddressPatch carries only the address lines being changed
type AddressPatch struct {
	Street1 *string `json:"street1"`
	Street2 *string `json:"street2"`
}

// UpdateFormRequest is the body of PATCH /candidate-forms/:id.
// Nil fields are left untouched.
type UpdateFormRequest struct {
	FirstName          *string       `json:"firstName" binding:"omitempty,max=100"`
	LastName           *string       `json:"lastName" binding:"omitempty,max=100"`
	Email              *string       `json:"email" binding:"omitempty,max=254"`
	DateOfBirth        *string       `json:"dateOfBirth" binding:"omitempty,max=10"`
	ResidentialAddress *AddressPatch `json:"residentialAddress"`
	PermanentAddress   *AddressPatch `json:"permanentAddress"`
	SameAsResidential  *bool         `json:"sameAsResidential"`
}

// FormURI binds the :id path segment
type FormURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// DocumentURI binds the :id and :index path segments
type DocumentURI struct {
	ID    string `uri:"id" binding:"required,uuid"`
	Index int    `uri:"index" binding:"gte=0"`
}
