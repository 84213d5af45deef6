package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kalathilrainu/vista-project/internal/models"
	"github.com/kalathilrainu/vista-project/internal/store"
)

type fakeStore struct {
	registerFn   func(ctx context.Context, input store.RegisterVisitInput) (models.Visit, error)
	getVisitFn   func(ctx context.Context, visitID string) (models.Visit, error)
	updateFn     func(ctx context.Context, input store.UpdateVisitInput) (models.Visit, error)
	listLogsFn   func(ctx context.Context, visitID string) ([]models.VisitLog, error)
	assignFn     func(ctx context.Context, input store.AssignVisitInput) (models.Visit, error)
	attendFn     func(ctx context.Context, input store.VisitActionInput) (models.Visit, error)
	transferFn   func(ctx context.Context, input store.TransferVisitInput) (models.Visit, error)
	completeFn   func(ctx context.Context, input store.VisitActionInput) (models.Visit, error)
	cancelFn     func(ctx context.Context, input store.VisitActionInput) (models.Visit, error)
	officeQFn    func(ctx context.Context, officeID string) ([]models.QueueEntry, error)
	deskQFn      func(ctx context.Context, deskID string) ([]models.QueueEntry, error)
	pendingFn    func(ctx context.Context, officeID string) ([]models.QueueEntry, error)
	acquireFn    func(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error)
	releaseFn    func(ctx context.Context, visitID string, actor models.Actor) error
	checkLockFn  func(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error)
	trackFn      func(ctx context.Context, query string) (store.TrackResult, error)
	createFileFn func(ctx context.Context, input store.CreateFileInput) (models.OfficeFile, error)
	getFileFn    func(ctx context.Context, fileID string) (models.OfficeFile, error)
	listDesksFn  func(ctx context.Context, officeID string) ([]models.Desk, error)
	purposesFn   func(ctx context.Context) ([]models.Purpose, error)
	sessionFn    func(ctx context.Context, sessionID string) (store.Session, error)
}

func (f fakeStore) RegisterVisit(ctx context.Context, input store.RegisterVisitInput) (models.Visit, error) {
	if f.registerFn == nil {
		return models.Visit{}, nil
	}
	return f.registerFn(ctx, input)
}

func (f fakeStore) GetVisit(ctx context.Context, visitID string) (models.Visit, error) {
	if f.getVisitFn == nil {
		return models.Visit{}, nil
	}
	return f.getVisitFn(ctx, visitID)
}

func (f fakeStore) UpdateVisit(ctx context.Context, input store.UpdateVisitInput) (models.Visit, error) {
	if f.updateFn == nil {
		return models.Visit{}, nil
	}
	return f.updateFn(ctx, input)
}

func (f fakeStore) ListVisitLogs(ctx context.Context, visitID string) ([]models.VisitLog, error) {
	if f.listLogsFn == nil {
		return nil, nil
	}
	return f.listLogsFn(ctx, visitID)
}

func (f fakeStore) AssignVisit(ctx context.Context, input store.AssignVisitInput) (models.Visit, error) {
	if f.assignFn == nil {
		return models.Visit{}, nil
	}
	return f.assignFn(ctx, input)
}

func (f fakeStore) AttendVisit(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
	if f.attendFn == nil {
		return models.Visit{}, nil
	}
	return f.attendFn(ctx, input)
}

func (f fakeStore) TransferVisit(ctx context.Context, input store.TransferVisitInput) (models.Visit, error) {
	if f.transferFn == nil {
		return models.Visit{}, nil
	}
	return f.transferFn(ctx, input)
}

func (f fakeStore) CompleteVisit(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
	if f.completeFn == nil {
		return models.Visit{}, nil
	}
	return f.completeFn(ctx, input)
}

func (f fakeStore) CancelVisit(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
	if f.cancelFn == nil {
		return models.Visit{}, nil
	}
	return f.cancelFn(ctx, input)
}

func (f fakeStore) OfficeQueue(ctx context.Context, officeID string) ([]models.QueueEntry, error) {
	if f.officeQFn == nil {
		return nil, nil
	}
	return f.officeQFn(ctx, officeID)
}

func (f fakeStore) DeskQueue(ctx context.Context, deskID string) ([]models.QueueEntry, error) {
	if f.deskQFn == nil {
		return nil, nil
	}
	return f.deskQFn(ctx, deskID)
}

func (f fakeStore) ListPendingVisits(ctx context.Context, officeID string) ([]models.QueueEntry, error) {
	if f.pendingFn == nil {
		return nil, nil
	}
	return f.pendingFn(ctx, officeID)
}

func (f fakeStore) AcquireLock(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error) {
	if f.acquireFn == nil {
		return store.LockStatus{}, nil
	}
	return f.acquireFn(ctx, visitID, actor)
}

func (f fakeStore) ReleaseLock(ctx context.Context, visitID string, actor models.Actor) error {
	if f.releaseFn == nil {
		return nil
	}
	return f.releaseFn(ctx, visitID, actor)
}

func (f fakeStore) CheckLock(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error) {
	if f.checkLockFn == nil {
		return store.LockStatus{}, nil
	}
	return f.checkLockFn(ctx, visitID, actor)
}

func (f fakeStore) Track(ctx context.Context, query string) (store.TrackResult, error) {
	if f.trackFn == nil {
		return store.TrackResult{}, nil
	}
	return f.trackFn(ctx, query)
}

func (f fakeStore) CreateOfficeFile(ctx context.Context, input store.CreateFileInput) (models.OfficeFile, error) {
	if f.createFileFn == nil {
		return models.OfficeFile{}, nil
	}
	return f.createFileFn(ctx, input)
}

func (f fakeStore) GetOfficeFile(ctx context.Context, fileID string) (models.OfficeFile, error) {
	if f.getFileFn == nil {
		return models.OfficeFile{}, nil
	}
	return f.getFileFn(ctx, fileID)
}

func (f fakeStore) ListDesks(ctx context.Context, officeID string) ([]models.Desk, error) {
	if f.listDesksFn == nil {
		return nil, nil
	}
	return f.listDesksFn(ctx, officeID)
}

func (f fakeStore) ListPurposes(ctx context.Context) ([]models.Purpose, error) {
	if f.purposesFn == nil {
		return nil, nil
	}
	return f.purposesFn(ctx)
}

func (f fakeStore) GetSession(ctx context.Context, sessionID string) (store.Session, error) {
	if f.sessionFn == nil {
		return store.Session{}, store.ErrSessionNotFound
	}
	return f.sessionFn(ctx, sessionID)
}

const (
	testOfficeID  = "11111111-1111-1111-1111-111111111111"
	testPurposeID = "22222222-2222-2222-2222-222222222222"
	testVisitID   = "33333333-3333-3333-3333-333333333333"
	testDeskID    = "44444444-4444-4444-4444-444444444444"
)

func staffSession() store.Session {
	return store.Session{
		SessionID: "sess-1",
		UserID:    "55555555-5555-5555-5555-555555555555",
		Username:  "vo_clerk",
		OfficeID:  testOfficeID,
		DeskID:    testDeskID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func staffContext(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), authContextKey{}, staffSession())
	return r.WithContext(ctx)
}

func TestRegisterVisitSuccess(t *testing.T) {
	st := fakeStore{
		registerFn: func(ctx context.Context, input store.RegisterVisitInput) (models.Visit, error) {
			if input.Mode != models.ModeKiosk {
				t.Fatalf("expected default KIOSK mode, got %s", input.Mode)
			}
			return models.Visit{
				VisitID:  testVisitID,
				OfficeID: input.OfficeID,
				Token:    "KLM-20260901-001",
				Status:   models.StatusWaiting,
			}, nil
		},
	}
	h := NewHandler(st, Options{MobileStrictStaff: true})

	payload := map[string]string{
		"office_id":  testOfficeID,
		"purpose_id": testPurposeID,
		"name":       "Anitha",
		"mobile":     "9876543210",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/visits", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var visit models.Visit
	if err := json.NewDecoder(resp.Body).Decode(&visit); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if visit.Token != "KLM-20260901-001" || visit.Status != models.StatusWaiting {
		t.Fatalf("unexpected visit response: %+v", visit)
	}
}

func TestRegisterVisitInvalidMobile(t *testing.T) {
	h := NewHandler(fakeStore{}, Options{MobileStrictStaff: true})

	payload := map[string]string{
		"office_id":  testOfficeID,
		"purpose_id": testPurposeID,
		"name":       "Anitha",
		"mobile":     "12345",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/visits", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestRegisterQuickVisitWithoutIdentity(t *testing.T) {
	st := fakeStore{
		registerFn: func(ctx context.Context, input store.RegisterVisitInput) (models.Visit, error) {
			return models.Visit{VisitID: testVisitID, Token: "KLM-20260901-002", Status: models.StatusWaiting, Mode: input.Mode}, nil
		},
	}
	h := NewHandler(st, Options{})

	payload := map[string]string{
		"office_id":  testOfficeID,
		"purpose_id": testPurposeID,
		"mode":       "QUICK",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/visits", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestVisitActionRequiresSession(t *testing.T) {
	h := NewHandler(fakeStore{}, Options{})

	body := bytes.NewReader([]byte(`{}`))
	req := httptest.NewRequest(http.MethodPost, "/api/visits/"+testVisitID+"/actions/complete", body)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestCompleteClosedVisitConflict(t *testing.T) {
	st := fakeStore{
		completeFn: func(ctx context.Context, input store.VisitActionInput) (models.Visit, error) {
			return models.Visit{}, store.ErrVisitClosed
		},
	}
	h := NewHandler(st, Options{})

	body := bytes.NewReader([]byte(`{}`))
	req := httptest.NewRequest(http.MethodPost, "/api/visits/"+testVisitID+"/actions/complete", body)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, staffContext(req))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "visit_closed" {
		t.Fatalf("expected visit_closed code, got %s", errResp.Error.Code)
	}
}

func TestTransferMissingDesk(t *testing.T) {
	h := NewHandler(fakeStore{}, Options{})

	body := bytes.NewReader([]byte(`{"remarks":"send over"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/visits/"+testVisitID+"/actions/transfer", body)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, staffContext(req))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestAcquireLockDenied(t *testing.T) {
	expires := time.Now().Add(90 * time.Second)
	st := fakeStore{
		acquireFn: func(ctx context.Context, visitID string, actor models.Actor) (store.LockStatus, error) {
			return store.LockStatus{Granted: false, Locked: true, Holder: "other_clerk", ExpiresAt: expires}, nil
		},
	}
	h := NewHandler(st, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/visits/"+testVisitID+"/lock", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, staffContext(req))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	var status store.LockStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode lock status: %v", err)
	}
	if status.Granted || status.Holder != "other_clerk" {
		t.Fatalf("unexpected lock status: %+v", status)
	}
}

func TestTrackNotFound(t *testing.T) {
	st := fakeStore{
		trackFn: func(ctx context.Context, query string) (store.TrackResult, error) {
			return store.TrackResult{Found: false}, nil
		},
	}
	h := NewHandler(st, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/track?q=KLM-20260901-999", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var result store.TrackResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode track result: %v", err)
	}
	if result.Found {
		t.Fatalf("expected not found result")
	}
}

func TestTrackMultipleMatches(t *testing.T) {
	st := fakeStore{
		trackFn: func(ctx context.Context, query string) (store.TrackResult, error) {
			return store.TrackResult{
				Found: true,
				Type:  "Multiple Matches",
				Ref:   query,
				Count: 2,
				Matches: []store.TrackMatch{
					{Ref: "7/2026", Office: "Kalathil", Status: "Pending"},
					{Ref: "7/2026", Office: "Rainu", Status: "Closed"},
				},
			}, nil
		},
	}
	h := NewHandler(st, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/track?q=7/2026", nil)
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var result store.TrackResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode track result: %v", err)
	}
	if result.Type != "Multiple Matches" || result.Count != 2 || len(result.Matches) != 2 {
		t.Fatalf("unexpected track result: %+v", result)
	}
}

func TestAuthMiddlewareRejectsStaffEndpoint(t *testing.T) {
	handler := AuthMiddleware(fakeStore{}, NewHandler(fakeStore{}, Options{}).Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/queue/desk?desk_id="+testDeskID, nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestOfficeQueueRequiresSession(t *testing.T) {
	handler := AuthMiddleware(fakeStore{}, NewHandler(fakeStore{}, Options{}).Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/queue/office", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestOfficeQueueUsesSessionOffice(t *testing.T) {
	st := fakeStore{
		officeQFn: func(ctx context.Context, officeID string) ([]models.QueueEntry, error) {
			if officeID != testOfficeID {
				t.Fatalf("expected session office, got %s", officeID)
			}
			return []models.QueueEntry{}, nil
		},
	}
	h := NewHandler(st, Options{})

	req := staffContext(httptest.NewRequest(http.MethodGet, "/api/queue/office", nil))
	resp := httptest.NewRecorder()

	h.Routes().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthMiddlewareAllowsPublicRegistration(t *testing.T) {
	st := fakeStore{
		registerFn: func(ctx context.Context, input store.RegisterVisitInput) (models.Visit, error) {
			if !input.Actor.IsSystem() {
				t.Fatalf("expected system actor for anonymous registration")
			}
			return models.Visit{VisitID: testVisitID, Token: "KLM-20260901-003", Status: models.StatusWaiting}, nil
		},
	}
	handler := AuthMiddleware(st, NewHandler(st, Options{}).Routes())

	payload := map[string]string{
		"office_id":  testOfficeID,
		"purpose_id": testPurposeID,
		"name":       "Suresh",
		"mobile":     "9876501234",
		"mode":       "QR",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/visits", bytes.NewReader(body))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthMiddlewareResolvesSession(t *testing.T) {
	st := fakeStore{
		sessionFn: func(ctx context.Context, sessionID string) (store.Session, error) {
			if sessionID != "sess-1" {
				return store.Session{}, store.ErrSessionNotFound
			}
			return staffSession(), nil
		},
		deskQFn: func(ctx context.Context, deskID string) ([]models.QueueEntry, error) {
			if deskID != testDeskID {
				t.Fatalf("expected session desk, got %s", deskID)
			}
			return []models.QueueEntry{}, nil
		},
	}
	handler := AuthMiddleware(st, NewHandler(st, Options{}).Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/queue/desk", nil)
	req.Header.Set("Authorization", "Bearer sess-1")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}
