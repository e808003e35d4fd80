package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/utils"
)

// MinDocuments is how many documents a submission needs
const MinDocuments = 2

// Error map keys
const (
	KeyFirstName          = "firstName"
	KeyLastName           = "lastName"
	KeyEmail              = "email"
	KeyDateOfBirth        = "dateOfBirth"
	KeyResidentialStreet1 = "residentialStreet1"
	KeyPermanentStreet1   = "permanentStreet1"
	KeyDocuments          = "documents"
)

// DocumentKey is the key the file selector reports slot i under
func DocumentKey(i int) string { return fmt.Sprintf("document%d", i) }

func documentFileNameKey(i int) string { return fmt.Sprintf("document%dFileName", i) }
func documentFileTypeKey(i int) string { return fmt.Sprintf("document%dFileType", i) }
func documentFileKey(i int) string     { return fmt.Sprintf("document%dFile", i) }

// ValidateForm checks every rule against state and returns a fresh error
// map. All rules run; none short-circuits another.
func ValidateForm(state dto.FormState, today time.Time) dto.ErrorMap {
	errs := dto.ErrorMap{}

	if isBlank(state.FirstName) {
		errs[KeyFirstName] = "First name is required"
	}
	if isBlank(state.LastName) {
		errs[KeyLastName] = "Last name is required"
	}
	if isBlank(state.Email) {
		errs[KeyEmail] = "Email is required"
	}
	if msg := validateDateOfBirth(state.DateOfBirth, today); msg != "" {
		errs[KeyDateOfBirth] = msg
	}

	if isBlank(state.ResidentialAddress.Street1) {
		errs[KeyResidentialStreet1] = "Residential street 1 is required"
	}
	if !state.SameAsResidential && isBlank(state.PermanentAddress.Street1) {
		errs[KeyPermanentStreet1] = "Permanent street 1 is required"
	}

	if len(state.Documents) < MinDocuments {
		errs[KeyDocuments] = "At least two documents are required"
	}
	for i, doc := range state.Documents {
		if doc.FileName == "" {
			errs[documentFileNameKey(i)] = "File name is required"
		}
		if doc.FileType == "" {
			errs[documentFileTypeKey(i)] = "File type is required"
		}
		if !doc.HasFile() {
			errs[documentFileKey(i)] = "File is required"
		}
	}

	return errs
}

func validateDateOfBirth(value string, today time.Time) string {
	if isBlank(value) {
		return "Date of birth is required"
	}
	dob, err := utils.ParseDateOfBirth(value)
	if err != nil {
		return "Date of birth must be a valid date"
	}
	if !utils.IsAdult(dob, today) {
		return "You must be at least 18 years old"
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
