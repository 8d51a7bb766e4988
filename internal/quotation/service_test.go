package quotation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRepo is an in-memory Repo.
type fakeRepo struct {
	quotations []*Quotation
	nextID     int
}

func (f *fakeRepo) Create(ctx context.Context, q *Quotation) (*Quotation, error) {
	f.nextID++
	cp := *q
	cp.ID = "q-" + strconv.Itoa(f.nextID)
	cp.Status = StatusNew
	cp.CreatedAt = time.Now()
	f.quotations = append(f.quotations, &cp)
	out := cp
	return &out, nil
}

func (f *fakeRepo) List(ctx context.Context, status string) ([]Quotation, error) {
	out := []Quotation{}
	for _, q := range f.quotations {
		if status == "" || q.Status == status {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id, status string) (*Quotation, error) {
	for _, q := range f.quotations {
		if q.ID == id {
			q.Status = status
			cp := *q
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// recordingMailer captures sends and can be made to fail.
type recordingMailer struct {
	sent []struct{ To, Subject, Body string }
	err  error
}

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

func newTestHandler(repo *fakeRepo, mail *recordingMailer) chi.Router {
	svc := NewService(repo, mail, "admin@example.com", zap.NewNop())
	h := NewHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/quotations", h.Create)
	r.Get("/api/admin/quotations", h.List)
	r.Put("/api/admin/quotations/{id}/status", h.UpdateStatus)
	return r
}

func postQuotation(t *testing.T, router chi.Router, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/quotations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateQuotationNotifiesAdmin(t *testing.T) {
	repo, mail := &fakeRepo{}, &recordingMailer{}
	router := newTestHandler(repo, mail)

	rec := postQuotation(t, router, map[string]string{
		"userType": "buyer",
		"name":     "Jane Doe",
		"email":    "jane@x.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env struct {
		Data Quotation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, StatusNew, env.Data.Status)
	require.Equal(t, "Jane Doe", env.Data.Name)

	require.Len(t, mail.sent, 1)
	require.Equal(t, "admin@example.com", mail.sent[0].To)
	require.Contains(t, mail.sent[0].Subject, "Jane Doe")
	require.Contains(t, mail.sent[0].Body, "jane@x.com")
}

func TestCreateQuotationMailFailureIsNonFatal(t *testing.T) {
	repo := &fakeRepo{}
	mail := &recordingMailer{err: errors.New("relay down")}
	router := newTestHandler(repo, mail)

	rec := postQuotation(t, router, map[string]string{
		"userType": "seller",
		"name":     "Ravi",
		"email":    "ravi@x.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.quotations, 1)
}

func TestCreateQuotationValidation(t *testing.T) {
	router := newTestHandler(&fakeRepo{}, &recordingMailer{})

	cases := []map[string]string{
		{"userType": "reseller", "name": "Jane", "email": "jane@x.com"},
		{"userType": "buyer", "name": "", "email": "jane@x.com"},
		{"userType": "buyer", "name": "Jane", "email": "not-an-email"},
	}
	for _, payload := range cases {
		rec := postQuotation(t, router, payload)
		require.Equal(t, http.StatusBadRequest, rec.Code, "payload %v", payload)
	}
}

func TestListQuotationsByStatus(t *testing.T) {
	repo, mail := &fakeRepo{}, &recordingMailer{}
	router := newTestHandler(repo, mail)

	postQuotation(t, router, map[string]string{"userType": "buyer", "name": "A", "email": "a@x.com"})
	postQuotation(t, router, map[string]string{"userType": "buyer", "name": "B", "email": "b@x.com"})
	repo.quotations[0].Status = StatusCompleted

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/quotations?status=completed", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []Quotation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	require.Equal(t, "A", env.Data[0].Name)
}

func TestUpdateQuotationStatus(t *testing.T) {
	repo, mail := &fakeRepo{}, &recordingMailer{}
	router := newTestHandler(repo, mail)

	postQuotation(t, router, map[string]string{"userType": "buyer", "name": "A", "email": "a@x.com"})
	id := repo.quotations[0].ID

	body := bytes.NewReader([]byte(`{"status":"processing"}`))
	req := httptest.NewRequest(http.MethodPut, "/api/admin/quotations/"+id+"/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, StatusProcessing, repo.quotations[0].Status)
}

func TestUpdateQuotationStatusInvalidValue(t *testing.T) {
	router := newTestHandler(&fakeRepo{}, &recordingMailer{})

	body := bytes.NewReader([]byte(`{"status":"archived"}`))
	req := httptest.NewRequest(http.MethodPut, "/api/admin/quotations/q-1/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
