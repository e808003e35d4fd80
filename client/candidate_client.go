package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/utils"
	"github.com/sirupsen/logrus"
)

// DocumentsField is the multipart field every document file is sent under
const DocumentsField = "documents"

// ErrTransport marks failures where no usable reply came back from the
// candidate backend
var ErrTransport = errors.New("candidate backend unreachable")

// CandidateClient posts candidate submissions to the candidate backend
type CandidateClient struct {
	baseURL    string
	submitPath string
	httpClient *http.Client
}

// NewCandidateClient creates a client for the backend at baseURL
func NewCandidateClient(baseURL, submitPath string, timeout time.Duration) *CandidateClient {
	return &CandidateClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		submitPath: submitPath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Submit sends one multipart request carrying the submission.
// A reply that decodes is returned even when the status is not 2xx; in
// that case Success is forced to false. Anything else wraps ErrTransport.
func (c *CandidateClient) Submit(ctx context.Context, submission *dto.CandidateSubmission) (*dto.CandidateSubmitResponse, error) {
	body, contentType, err := EncodeSubmission(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.submitPath, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	var result dto.CandidateSubmitResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: status %d, undecodable body: %s", ErrTransport, resp.StatusCode, truncate(raw, 200))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		result.Success = false
		if result.Message == "" {
			result.Message = fmt.Sprintf("candidate backend returned status %d", resp.StatusCode)
		}
	}

	utils.Logger.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"success": result.Success,
	}).Debug("Candidate backend replied")

	return &result, nil
}

// EncodeSubmission writes the submission as multipart form data and
// returns the body with its Content-Type header value.
func EncodeSubmission(submission *dto.CandidateSubmission) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fields := [][2]string{
		{"firstName", submission.FirstName},
		{"lastName", submission.LastName},
		{"email", submission.Email},
		{"dateOfBirth", submission.DateOfBirth},
		{"sameAsResidential", strconv.FormatBool(submission.SameAsResidential)},
		{"residentialAddress[street1]", submission.ResidentialAddress.Street1},
		{"residentialAddress[street2]", submission.ResidentialAddress.Street2},
	}
	if !submission.SameAsResidential && submission.PermanentAddress != nil {
		fields = append(fields,
			[2]string{"permanentAddress[street1]", submission.PermanentAddress.Street1},
			[2]string{"permanentAddress[street2]", submission.PermanentAddress.Street2},
		)
	}

	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}

	for _, doc := range submission.Documents {
		if !doc.HasFile() {
			continue
		}
		part, err := writer.CreatePart(filePartHeader(doc))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(doc.File); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(doc dto.Document) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		DocumentsField, quoteEscaper.Replace(doc.FileName)))
	contentType := doc.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}
