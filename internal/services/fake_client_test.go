package services

import (
	"context"
	"io"
	"sync"

	"github.com/amelnik/enhancer/internal/api"
)

// fakeClient implements api.Client for controller unit tests. Per-method
// "Entered"/"Release" channels let a test hold a call in flight to exercise
// the re-entrancy and stale-response guards.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	CheckAuthRet api.AuthStatus
	CheckAuthErr error

	LoginRet string
	LoginErr error

	RegisterRet string
	RegisterErr error

	UploadRet api.UploadResult
	UploadErr error

	HistoryRet []api.HistoryItem
	HistoryErr error

	DeleteErr error

	LoginEntered   chan struct{}
	LoginRelease   chan struct{}
	UploadEntered  chan struct{}
	UploadRelease  chan struct{}
	HistoryEntered chan struct{}
	HistoryRelease chan struct{}

	LastLoginEmail    string
	LastUploadName    string
	LastDeletedID     int64
	LastRegisterEmail string
}

func (f *fakeClient) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) CheckAuth(ctx context.Context) (api.AuthStatus, error) {
	f.record("checkauth")
	return f.CheckAuthRet, f.CheckAuthErr
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.record("login")
	f.mu.Lock()
	f.LastLoginEmail = email
	f.mu.Unlock()
	if f.LoginEntered != nil {
		f.LoginEntered <- struct{}{}
	}
	if f.LoginRelease != nil {
		<-f.LoginRelease
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, email, username, password string) (string, error) {
	f.record("register")
	f.mu.Lock()
	f.LastRegisterEmail = email
	f.mu.Unlock()
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) Upload(ctx context.Context, filename string, file io.Reader) (api.UploadResult, error) {
	f.record("upload")
	f.mu.Lock()
	f.LastUploadName = filename
	f.mu.Unlock()
	_, _ = io.ReadAll(file)
	if f.UploadEntered != nil {
		f.UploadEntered <- struct{}{}
	}
	if f.UploadRelease != nil {
		<-f.UploadRelease
	}
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) History(ctx context.Context) ([]api.HistoryItem, error) {
	f.record("history")
	if f.HistoryEntered != nil {
		f.HistoryEntered <- struct{}{}
	}
	if f.HistoryRelease != nil {
		<-f.HistoryRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.HistoryItem(nil), f.HistoryRet...), f.HistoryErr
}

func (f *fakeClient) Delete(ctx context.Context, id int64) error {
	f.record("delete")
	f.mu.Lock()
	f.LastDeletedID = id
	f.mu.Unlock()
	return f.DeleteErr
}

func (f *fakeClient) Download(ctx context.Context, ref string, w io.Writer) (int64, error) {
	f.record("download")
	return 0, nil
}

func (f *fakeClient) DownloadURL(ref string) string {
	return "http://test/api/download/" + ref
}

func (f *fakeClient) PreviewURL(uniqueID string) string {
	return "http://test/api/view/" + uniqueID
}

func (f *fakeClient) setHistory(items []api.HistoryItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.HistoryRet = items
}
