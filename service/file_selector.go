package service

import (
	"fmt"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/utils"
)

const invalidFileTypeMessage = "Invalid file type. Only JPEG, PNG, and PDF are allowed."
const fileTooLargeMessage = "File exceeds the maximum allowed size"

// SelectFile places picked into document slot i.
//
// A rejected file leaves the slot as it was and records the reason under
// DocumentKey(i), merged into the existing errors. An accepted file
// replaces the slot and clears that key. An empty pick changes nothing.
// maxSize <= 0 disables the size limit.
func SelectFile(state dto.FormState, i int, picked dto.PickedFile, maxSize int64) (dto.FormState, error) {
	if i < 0 || i >= len(state.Documents) {
		return state, fmt.Errorf("%w: %d", ErrDocumentIndex, i)
	}
	if picked.Name == "" && picked.Data == nil {
		return state, nil
	}

	next := cloneState(state)
	key := DocumentKey(i)

	fileType := utils.ResolveMimeType(picked.ContentType, picked.Data)
	if !utils.IsAllowedDocumentType(fileType) {
		next.Errors[key] = invalidFileTypeMessage
		return next, fmt.Errorf("%w: %q", ErrInvalidFileType, fileType)
	}
	if maxSize > 0 && int64(len(picked.Data)) > maxSize {
		next.Errors[key] = fileTooLargeMessage
		return next, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(picked.Data))
	}

	data := picked.Data
	if data == nil {
		data = []byte{}
	}
	docs, err := ReplaceDocument(next.Documents, i, dto.Document{
		FileName: picked.Name,
		FileType: fileType,
		File:     data,
	})
	if err != nil {
		return state, err
	}
	next.Documents = docs
	delete(next.Errors, key)

	return next, nil
}
