package service

import (
	"fmt"

	"github.com/Aashish23092/candidate-intake/dto"
)

// The document list is never modified in place. Each helper below returns
// a fresh slice, so a snapshot taken earlier (for example by an in-flight
// submission) keeps seeing the list it was taken from.

// AppendDocument returns docs with one empty slot added at the end
func AppendDocument(docs []dto.Document) []dto.Document {
	out := make([]dto.Document, len(docs), len(docs)+1)
	copy(out, docs)
	return append(out, dto.Document{})
}

// ReplaceDocument returns docs with slot i set to doc
func ReplaceDocument(docs []dto.Document, i int, doc dto.Document) ([]dto.Document, error) {
	if i < 0 || i >= len(docs) {
		return nil, fmt.Errorf("%w: %d", ErrDocumentIndex, i)
	}
	out := make([]dto.Document, len(docs))
	copy(out, docs)
	out[i] = doc
	return out, nil
}

// RemoveDocument returns docs without slot i. The last remaining slot
// cannot be removed.
func RemoveDocument(docs []dto.Document, i int) ([]dto.Document, error) {
	if i < 0 || i >= len(docs) {
		return nil, fmt.Errorf("%w: %d", ErrDocumentIndex, i)
	}
	if len(docs) <= 1 {
		return nil, ErrLastDocument
	}
	out := make([]dto.Document, 0, len(docs)-1)
	out = append(out, docs[:i]...)
	return append(out, docs[i+1:]...), nil
}

// ApplyUpdate returns state with every non-nil field of req applied.
// Address patches merge into the existing address.
func ApplyUpdate(state dto.FormState, req *dto.UpdateFormRequest) dto.FormState {
	next := cloneState(state)
	if req == nil {
		return next
	}

	if req.FirstName != nil {
		next.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		next.LastName = *req.LastName
	}
	if req.Email != nil {
		next.Email = *req.Email
	}
	if req.DateOfBirth != nil {
		next.DateOfBirth = *req.DateOfBirth
	}
	if req.SameAsResidential != nil {
		next.SameAsResidential = *req.SameAsResidential
	}
	next.ResidentialAddress = mergeAddress(next.ResidentialAddress, req.ResidentialAddress)
	next.PermanentAddress = mergeAddress(next.PermanentAddress, req.PermanentAddress)

	return next
}

func mergeAddress(addr dto.Address, patch *dto.AddressPatch) dto.Address {
	if patch == nil {
		return addr
	}
	if patch.Street1 != nil {
		addr.Street1 = *patch.Street1
	}
	if patch.Street2 != nil {
		addr.Street2 = *patch.Street2
	}
	return addr
}

// cloneState copies the containers of state so the result can be changed
// without touching the original.
func cloneState(state dto.FormState) dto.FormState {
	next := state
	next.Documents = make([]dto.Document, len(state.Documents))
	copy(next.Documents, state.Documents)
	next.Errors = state.Errors.Clone()
	return next
}

// BuildSubmission assembles the outbound payload from a valid state.
// The permanent address is only carried when it differs from the
// residential one.
func BuildSubmission(state dto.FormState) *dto.CandidateSubmission {
	submission := &dto.CandidateSubmission{
		FirstName:          state.FirstName,
		LastName:           state.LastName,
		Email:              state.Email,
		DateOfBirth:        state.DateOfBirth,
		SameAsResidential:  state.SameAsResidential,
		ResidentialAddress: state.ResidentialAddress,
		Documents:          state.Documents,
	}
	if !state.SameAsResidential {
		permanent := state.PermanentAddress
		submission.PermanentAddress = &permanent
	}
	return submission
}
