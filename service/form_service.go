package service

import (
	"context"
	"errors"
	"time"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/utils"
	"github.com/sirupsen/logrus"
)

// CandidateSubmitter delivers a submission to the candidate backend
type CandidateSubmitter interface {
	Submit(ctx context.Context, submission *dto.CandidateSubmission) (*dto.CandidateSubmitResponse, error)
}

// Options tunes a FormService
type Options struct {
	// SuccessRoute is where the caller should navigate after a successful submission
	SuccessRoute string
	// MaxFileSize caps a picked file in bytes; <= 0 means unlimited
	MaxFileSize int64
	// Now defaults to time.Now
	Now func() time.Time
}

// FormService holds open candidate forms and drives them from creation
// to submission
type FormService struct {
	store     *FormStore
	submitter CandidateSubmitter
	inspector DocumentInspector
	metrics   *Metrics
	opts      Options
}

// NewFormService creates a new FormService instance
func NewFormService(store *FormStore, submitter CandidateSubmitter, inspector DocumentInspector, metrics *Metrics, opts Options) *FormService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &FormService{
		store:     store,
		submitter: submitter,
		inspector: inspector,
		metrics:   metrics,
		opts:      opts,
	}
}

// CreateForm opens a new form with default values
func (s *FormService) CreateForm() dto.FormSession {
	f := s.store.create(s.opts.Now())
	s.metrics.OpenSessions.Inc()

	utils.Logger.WithField("form_id", f.id).Info("Candidate form opened")

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view()
}

// GetForm returns a snapshot of the form
func (s *FormService) GetForm(id string) (dto.FormSession, error) {
	f, err := s.store.get(id)
	if err != nil {
		return dto.FormSession{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view(), nil
}

// DeleteForm discards the form
func (s *FormService) DeleteForm(id string) error {
	if err := s.store.delete(id); err != nil {
		return err
	}
	s.metrics.OpenSessions.Dec()
	utils.Logger.WithField("form_id", id).Info("Candidate form discarded")
	return nil
}

// UpdateForm applies field changes. Errors are left as they are until
// the next validation pass.
func (s *FormService) UpdateForm(id string, req *dto.UpdateFormRequest) (dto.FormSession, error) {
	return s.mutate(id, func(state dto.FormState) (dto.FormState, error) {
		return ApplyUpdate(state, req), nil
	})
}

// AddDocument appends an empty document slot
func (s *FormService) AddDocument(id string) (dto.FormSession, error) {
	return s.mutate(id, func(state dto.FormState) (dto.FormState, error) {
		next := cloneState(state)
		next.Documents = AppendDocument(state.Documents)
		return next, nil
	})
}

// RemoveDocument drops document slot index
func (s *FormService) RemoveDocument(id string, index int) (dto.FormSession, error) {
	return s.mutate(id, func(state dto.FormState) (dto.FormState, error) {
		docs, err := RemoveDocument(state.Documents, index)
		if err != nil {
			return state, err
		}
		next := cloneState(state)
		next.Documents = docs
		return next, nil
	})
}

// SelectFile places a picked file into document slot index. On
// ErrInvalidFileType or ErrFileTooLarge the returned session carries the
// recorded error and the slot is unchanged. Inspection runs without the
// form lock held; its result is dropped if the slot changed meanwhile.
func (s *FormService) SelectFile(id string, index int, picked dto.PickedFile) (dto.FormSession, error) {
	f, err := s.store.get(id)
	if err != nil {
		return dto.FormSession{}, err
	}

	log := utils.Logger.WithFields(logrus.Fields{
		"form_id":   id,
		"index":     index,
		"file_name": picked.Name,
	})

	f.mu.Lock()
	next, err := SelectFile(f.state, index, picked, s.opts.MaxFileSize)
	if errors.Is(err, ErrDocumentIndex) {
		f.mu.Unlock()
		return dto.FormSession{}, err
	}

	f.state = next
	f.updatedAt = s.opts.Now()

	if err != nil {
		view := f.view()
		f.mu.Unlock()
		s.metrics.observeFileSelection("rejected")
		log.WithError(err).Warn("Document file rejected")
		return view, err
	}

	if picked.Name == "" && picked.Data == nil {
		view := f.view()
		f.mu.Unlock()
		return view, nil
	}

	doc := f.state.Documents[index]
	s.metrics.observeFileSelection("accepted")
	log.WithField("file_type", doc.FileType).Info("Document file selected")

	if s.inspector == nil {
		view := f.view()
		f.mu.Unlock()
		return view, nil
	}
	f.mu.Unlock()

	doc.Inspection = s.inspector.Inspect(doc.File, doc.FileType)

	f.mu.Lock()
	defer f.mu.Unlock()

	if index < len(f.state.Documents) && sameFile(f.state.Documents[index], doc) {
		docs, err := ReplaceDocument(f.state.Documents, index, doc)
		if err != nil {
			return dto.FormSession{}, err
		}
		f.state.Documents = docs
	} else {
		log.Debug("Document slot changed during inspection, result dropped")
	}
	return f.view(), nil
}

// sameFile reports whether a and b hold the same picked payload
func sameFile(a, b dto.Document) bool {
	if a.FileName != b.FileName || len(a.File) != len(b.File) {
		return false
	}
	if len(a.File) == 0 {
		return a.HasFile() == b.HasFile()
	}
	return &a.File[0] == &b.File[0]
}

// Validate runs every rule and replaces the form's error map
func (s *FormService) Validate(id string) (dto.ValidateResponse, error) {
	f, err := s.store.get(id)
	if err != nil {
		return dto.ValidateResponse{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	errs := ValidateForm(f.state, s.opts.Now())
	f.state.Errors = errs
	f.updatedAt = s.opts.Now()

	return dto.ValidateResponse{Valid: !errs.HasErrors(), Errors: errs.Clone()}, nil
}

// Submit validates the form and, when it is valid, sends it to the
// candidate backend in a single request. Only one submission per form
// may be in flight. The form state is never changed by a failed
// submission; a successful one closes the form.
func (s *FormService) Submit(ctx context.Context, id string) (*dto.SubmitResult, error) {
	f, err := s.store.get(id)
	if err != nil {
		return nil, err
	}

	log := utils.Logger.WithField("form_id", id)

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		log.Warn("Submission already in progress")
		return nil, ErrSubmitInProgress
	}

	errs := ValidateForm(f.state, s.opts.Now())
	f.state.Errors = errs
	f.updatedAt = s.opts.Now()

	if errs.HasErrors() {
		f.mu.Unlock()
		s.metrics.observeSubmission(dto.OutcomeValidationFailed)
		log.WithField("errors", len(errs)).Info("Candidate form failed validation")
		return &dto.SubmitResult{Outcome: dto.OutcomeValidationFailed, Errors: errs.Clone()}, nil
	}

	f.submitting = true
	submission := BuildSubmission(f.state)
	f.mu.Unlock()

	log.WithField("documents", len(submission.Documents)).Info("Submitting candidate")
	resp, err := s.submitter.Submit(ctx, submission)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	var result *dto.SubmitResult
	switch {
	case err != nil:
		result = &dto.SubmitResult{Outcome: dto.OutcomeTransportError, Message: err.Error()}
		log.WithError(err).Error("Error adding candidate")
	case !resp.Success:
		result = &dto.SubmitResult{Outcome: dto.OutcomeServerRejected, Message: resp.Message}
		log.WithField("message", resp.Message).Error("Candidate backend rejected the submission")
	default:
		result = &dto.SubmitResult{Outcome: dto.OutcomeSuccess, RedirectTo: s.opts.SuccessRoute}
		if s.store.delete(id) == nil {
			s.metrics.OpenSessions.Dec()
		}
		log.Info("Candidate added successfully")
	}

	s.metrics.observeSubmission(result.Outcome)
	return result, nil
}

func (s *FormService) mutate(id string, fn func(dto.FormState) (dto.FormState, error)) (dto.FormSession, error) {
	f, err := s.store.get(id)
	if err != nil {
		return dto.FormSession{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := fn(f.state)
	if err != nil {
		return dto.FormSession{}, err
	}
	f.state = next
	f.updatedAt = s.opts.Now()
	return f.view(), nil
}
