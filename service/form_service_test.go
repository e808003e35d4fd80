package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Aashish23092/candidate-intake/client"
	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubmitter struct {
	mu      sync.Mutex
	calls   []*dto.CandidateSubmission
	resp    *dto.CandidateSubmitResponse
	err     error
	release chan struct{}
	entered chan struct{}
}

func (s *stubSubmitter) Submit(ctx context.Context, submission *dto.CandidateSubmission) (*dto.CandidateSubmitResponse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, submission)
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.resp, s.err
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type stubInspector struct{}

func (stubInspector) Inspect(data []byte, mimeType string) *dto.DocumentInspection {
	return &dto.DocumentInspection{Pages: 1}
}

func newTestService(submitter CandidateSubmitter) (*FormService, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())
	svc := NewFormService(NewFormStore(), submitter, stubInspector{}, metrics, Options{
		SuccessRoute: "/success-page",
		MaxFileSize:  1 << 20,
		Now:          func() time.Time { return today },
	})
	return svc, metrics
}

func ptr[T any](v T) *T { return &v }

// fillValidForm drives a new form to a submittable state
func fillValidForm(t *testing.T, svc *FormService) string {
	t.Helper()
	form := svc.CreateForm()

	_, err := svc.UpdateForm(form.ID, &dto.UpdateFormRequest{
		FirstName:          ptr("Ann"),
		LastName:           ptr("Lee"),
		Email:              ptr("a@x.com"),
		DateOfBirth:        ptr(today.AddDate(-21, 0, 0).Format("2006-01-02")),
		ResidentialAddress: &dto.AddressPatch{Street1: ptr("1 Main St")},
		SameAsResidential:  ptr(true),
	})
	require.NoError(t, err)

	_, err = svc.AddDocument(form.ID)
	require.NoError(t, err)

	_, err = svc.SelectFile(form.ID, 0, dto.PickedFile{Name: "passport.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.NoError(t, err)
	_, err = svc.SelectFile(form.ID, 1, dto.PickedFile{Name: "licence.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff, 0xe0}})
	require.NoError(t, err)

	return form.ID
}

func TestCreateFormDefaults(t *testing.T) {
	svc, metrics := newTestService(&stubSubmitter{})

	form := svc.CreateForm()

	assert.NotEmpty(t, form.ID)
	assert.True(t, form.State.SameAsResidential)
	assert.Len(t, form.State.Documents, 1)
	assert.Empty(t, form.State.Errors)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OpenSessions))
}

func TestUnknownForm(t *testing.T) {
	svc, _ := newTestService(&stubSubmitter{})

	_, err := svc.GetForm("missing")
	assert.ErrorIs(t, err, ErrFormNotFound)

	_, err = svc.Submit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrFormNotFound)

	assert.ErrorIs(t, svc.DeleteForm("missing"), ErrFormNotFound)
}

func TestRemoveDocumentRules(t *testing.T) {
	svc, _ := newTestService(&stubSubmitter{})
	form := svc.CreateForm()

	_, err := svc.RemoveDocument(form.ID, 0)
	assert.ErrorIs(t, err, ErrLastDocument)

	_, err = svc.AddDocument(form.ID)
	require.NoError(t, err)
	_, err = svc.SelectFile(form.ID, 1, dto.PickedFile{Name: "second.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.NoError(t, err)

	got, err := svc.RemoveDocument(form.ID, 0)
	require.NoError(t, err)
	require.Len(t, got.State.Documents, 1)
	assert.Equal(t, "second.pdf", got.State.Documents[0].FileName)
}

func TestSelectFileThroughService(t *testing.T) {
	svc, metrics := newTestService(&stubSubmitter{})
	form := svc.CreateForm()

	got, err := svc.SelectFile(form.ID, 0, dto.PickedFile{Name: "notes.txt", ContentType: "text/plain", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Equal(t, dto.Document{}, got.State.Documents[0])
	assert.NotEmpty(t, got.State.Errors["document0"])

	got, err = svc.SelectFile(form.ID, 0, dto.PickedFile{Name: "id.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Equal(t, "id.pdf", got.State.Documents[0].FileName)
	assert.Equal(t, &dto.DocumentInspection{Pages: 1}, got.State.Documents[0].Inspection)
	assert.NotContains(t, got.State.Errors, "document0")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FileSelections.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FileSelections.WithLabelValues("accepted")))
}

func TestUpdateKeepsErrorsUntilValidation(t *testing.T) {
	svc, _ := newTestService(&stubSubmitter{})
	form := svc.CreateForm()

	res, err := svc.Validate(form.ID)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors, KeyFirstName)

	got, err := svc.UpdateForm(form.ID, &dto.UpdateFormRequest{FirstName: ptr("Ann")})
	require.NoError(t, err)
	assert.Contains(t, got.State.Errors, KeyFirstName)

	res, err = svc.Validate(form.ID)
	require.NoError(t, err)
	assert.NotContains(t, res.Errors, KeyFirstName)
}

func TestSubmitValidationFailedSkipsBackend(t *testing.T) {
	submitter := &stubSubmitter{resp: &dto.CandidateSubmitResponse{Success: true}}
	svc, metrics := newTestService(submitter)
	form := svc.CreateForm()

	result, err := svc.Submit(context.Background(), form.ID)

	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeValidationFailed, result.Outcome)
	assert.Contains(t, result.Errors, KeyDocuments)
	assert.Zero(t, submitter.callCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("validation_failed")))

	got, err := svc.GetForm(form.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Errors, got.State.Errors)
}

func TestSubmitServerRejectedLeavesState(t *testing.T) {
	submitter := &stubSubmitter{resp: &dto.CandidateSubmitResponse{Success: false, Message: "duplicate email"}}
	svc, _ := newTestService(submitter)
	id := fillValidForm(t, svc)
	before, err := svc.GetForm(id)
	require.NoError(t, err)

	result, err := svc.Submit(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeServerRejected, result.Outcome)
	assert.Equal(t, "duplicate email", result.Message)

	after, err := svc.GetForm(id)
	require.NoError(t, err)
	assert.Equal(t, before.State.FirstName, after.State.FirstName)
	assert.Equal(t, before.State.Documents, after.State.Documents)
	assert.False(t, after.Submitting)
}

func TestSubmitTransportError(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("dial tcp: connection refused")}
	svc, _ := newTestService(submitter)
	id := fillValidForm(t, svc)

	result, err := svc.Submit(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeTransportError, result.Outcome)
	assert.Contains(t, result.Message, "connection refused")

	_, err = svc.GetForm(id)
	assert.NoError(t, err)
}

func TestSubmitRejectsDuplicateWhileInFlight(t *testing.T) {
	submitter := &stubSubmitter{
		resp:    &dto.CandidateSubmitResponse{Success: true},
		release: make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	svc, _ := newTestService(submitter)
	id := fillValidForm(t, svc)

	done := make(chan *dto.SubmitResult, 1)
	go func() {
		result, _ := svc.Submit(context.Background(), id)
		done <- result
	}()
	<-submitter.entered

	got, err := svc.GetForm(id)
	require.NoError(t, err)
	assert.True(t, got.Submitting)

	_, err = svc.Submit(context.Background(), id)
	assert.ErrorIs(t, err, ErrSubmitInProgress)

	close(submitter.release)
	result := <-done
	assert.Equal(t, dto.OutcomeSuccess, result.Outcome)
	assert.Equal(t, 1, submitter.callCount())
}

func TestSubmitEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var mu sync.Mutex
	var requests int
	var fileParts int
	var values map[string][]string

	backend := gin.New()
	backend.POST("/candidate/submit", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		mu.Lock()
		requests++
		fileParts = len(form.File["documents"])
		values = form.Value
		mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	server := httptest.NewServer(backend)
	defer server.Close()

	svc, metrics := newTestService(client.NewCandidateClient(server.URL, "/candidate/submit", 5*time.Second))
	id := fillValidForm(t, svc)

	result, err := svc.Submit(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, dto.OutcomeSuccess, result.Outcome)
	assert.Equal(t, "/success-page", result.RedirectTo)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, requests)
	assert.Equal(t, 2, fileParts)
	assert.Equal(t, []string{"true"}, values["sameAsResidential"])
	assert.NotContains(t, values, "permanentAddress[street1]")
	assert.NotContains(t, values, "permanentAddress[street2]")

	_, err = svc.GetForm(id)
	assert.ErrorIs(t, err, ErrFormNotFound)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.OpenSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("success")))
}

type hookInspector struct {
	hook func()
}

func (h *hookInspector) Inspect(data []byte, mimeType string) *dto.DocumentInspection {
	if h.hook != nil {
		hook := h.hook
		h.hook = nil
		hook()
	}
	return &dto.DocumentInspection{Pages: len(data)}
}

func newHookService(inspector DocumentInspector) *FormService {
	return NewFormService(NewFormStore(), &stubSubmitter{}, inspector, NewMetrics(prometheus.NewRegistry()), Options{
		SuccessRoute: "/success-page",
		MaxFileSize:  1 << 20,
		Now:          func() time.Time { return today },
	})
}

func TestSelectFileInspectsWithoutFormLock(t *testing.T) {
	inspector := &hookInspector{}
	svc := newHookService(inspector)
	form := svc.CreateForm()

	var during dto.FormSession
	inspector.hook = func() {
		var err error
		during, err = svc.GetForm(form.ID)
		assert.NoError(t, err)
	}

	done := make(chan dto.FormSession, 1)
	go func() {
		view, err := svc.SelectFile(form.ID, 0, dto.PickedFile{Name: "passport.pdf", ContentType: "application/pdf", Data: pdfBytes})
		assert.NoError(t, err)
		done <- view
	}()

	select {
	case view := <-done:
		assert.Equal(t, "passport.pdf", during.State.Documents[0].FileName)
		require.NotNil(t, view.State.Documents[0].Inspection)
		assert.Equal(t, len(pdfBytes), view.State.Documents[0].Inspection.Pages)
	case <-time.After(5 * time.Second):
		t.Fatal("SelectFile blocked while the form was read during inspection")
	}
}

func TestSelectFileDropsStaleInspection(t *testing.T) {
	inspector := &hookInspector{}
	svc := newHookService(inspector)
	form := svc.CreateForm()

	replacement := append([]byte(nil), pdfBytes...)
	replacement = append(replacement, '\n')
	inspector.hook = func() {
		_, err := svc.SelectFile(form.ID, 0, dto.PickedFile{Name: "renewed.pdf", ContentType: "application/pdf", Data: replacement})
		require.NoError(t, err)
	}

	view, err := svc.SelectFile(form.ID, 0, dto.PickedFile{Name: "passport.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.NoError(t, err)

	doc := view.State.Documents[0]
	assert.Equal(t, "renewed.pdf", doc.FileName)
	require.NotNil(t, doc.Inspection)
	assert.Equal(t, len(replacement), doc.Inspection.Pages)
}

func TestSelectFileDropsInspectionForRemovedSlot(t *testing.T) {
	inspector := &hookInspector{}
	svc := newHookService(inspector)
	form := svc.CreateForm()
	_, err := svc.AddDocument(form.ID)
	require.NoError(t, err)

	inspector.hook = func() {
		_, err := svc.RemoveDocument(form.ID, 1)
		require.NoError(t, err)
	}

	view, err := svc.SelectFile(form.ID, 1, dto.PickedFile{Name: "passport.pdf", ContentType: "application/pdf", Data: pdfBytes})
	require.NoError(t, err)
	assert.Len(t, view.State.Documents, 1)
	assert.Nil(t, view.State.Documents[0].Inspection)
}
