package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/funnelkit/leadmail/internal/api"
	"github.com/funnelkit/leadmail/internal/catalog"
	"github.com/funnelkit/leadmail/internal/leads"
	"github.com/funnelkit/leadmail/internal/mailer"
	"github.com/funnelkit/leadmail/internal/mailtmpl"
	"github.com/funnelkit/leadmail/pkg/environment"
	"github.com/funnelkit/leadmail/pkg/logger"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type testEnv struct {
	router   http.Handler
	sender   *mockSender
	leadsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.New(logger.WithOutput(io.Discard))

	cat, err := catalog.New([]catalog.Product{
		{Slug: "mitolyn", Name: "Mitolyn", EbookFilename: "mitolyn-guide.pdf", OfferURL: "https://example.com/mitolyn"},
		{Slug: "prostavive", Name: "ProStaVive", EbookFilename: "prostavive-guide.pdf", OfferURL: "https://example.com/prostavive"},
	})
	require.NoError(t, err)

	leadsDir := t.TempDir()
	recorder, err := leads.NewRecorder(leads.Config{Dir: leadsDir}, log)
	require.NoError(t, err)

	resolver := mailtmpl.NewResolver(mailtmpl.Config{Dir: t.TempDir()}, log)

	sender := &mockSender{}
	dispatcher := mailer.NewDispatcher(sender, mailer.Config{
		SenderEmail: "team@example.com",
		EbooksDir:   t.TempDir(),
	}, log)

	h := api.NewHandler(cat, recorder, resolver, dispatcher, environment.Development, log)
	router := api.NewRouter(h, api.RouterConfig{CORSOrigin: "*"}, nil)

	return &testEnv{router: router, sender: sender, leadsDir: leadsDir}
}

func (e *testEnv) submit(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/submit-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSubmitEmail_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mailer.Message) bool {
		return msg.To == "jane@example.com" &&
			msg.Subject == "🎁 Your Free Mitolyn Guide is Here!" &&
			msg.Tag == "mitolyn"
	})).Return(nil).Once()

	rec := env.submit(t, `{"name":"Jane","email":"jane@example.com","productSlug":"mitolyn"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Email sent successfully!", body["message"])
	assert.Equal(t, "Mitolyn", body["product"])
	env.sender.AssertExpectations(t)

	data, err := os.ReadFile(filepath.Join(env.leadsDir, "mitolyn-leads.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Jane","jane@example.com","mitolyn"`)
}

func TestSubmitEmail_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"jane@example.com","productSlug":"mitolyn"}`},
		{"missing email", `{"name":"Jane","productSlug":"mitolyn"}`},
		{"missing product slug", `{"name":"Jane","email":"jane@example.com"}`},
		{"blank name", `{"name":"   ","email":"jane@example.com","productSlug":"mitolyn"}`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			rec := env.submit(t, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "Name, email, and productSlug are required", body["message"])
			env.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitEmail_InvalidProduct(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.submit(t, `{"name":"Jane","email":"jane@example.com","productSlug":"unknown"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product", decodeEnvelope(t, rec)["message"])
	env.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSubmitEmail_InvalidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
	}{
		{"no at sign", "janeexample.com"},
		{"no tld", "jane@example"},
		{"whitespace", "jane doe@example.com"},
		{"empty domain", "jane@.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			rec := env.submit(t, `{"name":"Jane","email":"`+tt.email+`","productSlug":"mitolyn"}`)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Invalid email address", decodeEnvelope(t, rec)["message"])
		})
	}
}

func TestSubmitEmail_RejectsBadBody(t *testing.T) {
	t.Parallel()

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		rec := env.submit(t, `{"name":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeEnvelope(t, rec)["message"])
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/api/submit-email",
			bytes.NewReader([]byte("name=Jane")))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeEnvelope(t, rec)["message"])
	})
}

func TestSubmitEmail_SenderFailureKeepsLead(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.sender.On("Send", mock.Anything, mock.Anything).Return(mailer.ErrSendFailed).Once()

	rec := env.submit(t, `{"name":"Jane","email":"jane@example.com","productSlug":"mitolyn"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to process request. Please try again.", body["message"])

	// The lead was recorded before the send was attempted.
	data, err := os.ReadFile(filepath.Join(env.leadsDir, "mitolyn-leads.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "jane@example.com")
}

func TestSubmitEmail_StorageFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// A directory at the log path makes the append fail.
	require.NoError(t, os.Mkdir(filepath.Join(env.leadsDir, "mitolyn-leads.csv"), 0o755))

	rec := env.submit(t, `{"name":"Jane","email":"jane@example.com","productSlug":"mitolyn"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to process request. Please try again.", decodeEnvelope(t, rec)["message"])
	env.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status      string   `json:"status"`
		Timestamp   string   `json:"timestamp"`
		Products    []string `json:"products"`
		Environment string   `json:"environment"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Timestamp)
	assert.Equal(t, []string{"mitolyn", "prostavive"}, body.Products)
	assert.Equal(t, "development", body.Environment)
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success  bool `json:"success"`
		Products []struct {
			Slug string `json:"slug"`
			Name string `json:"name"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "mitolyn", body.Products[0].Slug)
	assert.Equal(t, "Mitolyn", body.Products[0].Name)
}
