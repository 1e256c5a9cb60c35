package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error response body is read when
// extracting the server message.
const maxErrorBody = 64 << 10

// RESTClient talks to the enhancement backend over its JSON REST API.
// The authenticated session is an opaque server-issued cookie held in the
// client's cookie jar; no token handling happens on this side.
type RESTClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a client for the backend at baseURL
// (e.g. "http://127.0.0.1:5000"). The timeout bounds each request.
func NewRESTClient(baseURL string, timeout time.Duration) (*RESTClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type checkAuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
}

type messageResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type uploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

type historyItemDTO struct {
	ID               int64  `json:"id"`
	UniqueID         string `json:"unique_id"`
	OriginalFilename string `json:"original_filename"`
	Status           string `json:"status"`
	Date             string `json:"date"`
}

// CheckAuth probes the current session. The endpoint answers 200 for both
// outcomes; authenticated is carried in the body.
func (c *RESTClient) CheckAuth(ctx context.Context) (AuthStatus, error) {
	var resp checkAuthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/check-auth", nil, &resp); err != nil {
		return AuthStatus{}, err
	}
	return AuthStatus{Authenticated: resp.Authenticated, Username: resp.Username}, nil
}

// Login authenticates with email and password. On success the server sets the
// session cookie on this client's jar and the reported username is returned.
func (c *RESTClient) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// Register creates a new account. The session stays unauthenticated; the user
// is expected to log in afterwards.
func (c *RESTClient) Register(ctx context.Context, email, username, password string) (string, error) {
	body := map[string]string{"email": email, "username": username, "password": password}
	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/register", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Upload submits the image as multipart form data under the "file" field.
// The backend enhances the image before responding, so the returned status is
// already terminal.
func (c *RESTClient) Upload(ctx context.Context, filename string, file io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("error building multipart form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, fmt.Errorf("error reading file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("error finalizing multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return UploadResult{}, c.responseError(resp)
	}

	var ur uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return UploadResult{}, fmt.Errorf("error decoding upload response: %w", err)
	}
	return UploadResult{
		Status:   ParseJobStatus(ur.Status),
		Filename: ur.Filename,
		Message:  ur.Message,
	}, nil
}

// History returns all past jobs for the current session, in server order.
func (c *RESTClient) History(ctx context.Context) ([]HistoryItem, error) {
	var dtos []historyItemDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/history", nil, &dtos); err != nil {
		return nil, err
	}
	items := make([]HistoryItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, HistoryItem{
			ID:               d.ID,
			UniqueID:         d.UniqueID,
			OriginalFilename: d.OriginalFilename,
			Status:           ParseJobStatus(d.Status),
			Date:             d.Date,
		})
	}
	return items, nil
}

// Delete removes the history record with the given id.
func (c *RESTClient) Delete(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/history/"+strconv.FormatInt(id, 10), nil, nil)
}

// Download streams the processed image identified by ref into w and returns
// the number of bytes written.
func (c *RESTClient) Download(ctx context.Context, ref string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(ref), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, c.responseError(resp)
	}
	return io.Copy(w, resp.Body)
}

// DownloadURL derives the retrieval URL for a processed artifact. Pure.
func (c *RESTClient) DownloadURL(ref string) string {
	return c.baseURL + "/api/download/" + ref
}

// PreviewURL derives the inline preview URL for an original image. Pure.
func (c *RESTClient) PreviewURL(uniqueID string) string {
	return c.baseURL + "/api/view/" + uniqueID
}

// doJSON issues a JSON request and decodes a JSON response into out (when out
// is non-nil). Transport failures map to ErrUnavailable; non-2xx responses
// map to *ServerError carrying the server's message.
func (c *RESTClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}
	return nil
}

// responseError extracts the server message from a non-2xx response.
// Bodies without a usable message fall back to the HTTP status text.
func (c *RESTClient) responseError(resp *http.Response) error {
	var m messageResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(data, &m); err != nil || m.Message == "" {
		m.Message = http.StatusText(resp.StatusCode)
	}
	return &ServerError{Status: resp.StatusCode, Message: m.Message}
}
