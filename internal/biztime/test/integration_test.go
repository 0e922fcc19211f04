package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gartstein/biztime/internal/biztime/controller"
	"github.com/gartstein/biztime/internal/biztime/db"
	"github.com/gartstein/biztime/internal/biztime/events"
	"github.com/gartstein/biztime/internal/biztime/handlers"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type recordedEvent struct {
	Type events.EventType
	Key  string
}

// eventRecorder stands in for the Kafka producer.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) Produce(eventType events.EventType, key string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{Type: eventType, Key: key})
}

func (r *eventRecorder) recorded() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

type IntegrationTestSuite struct {
	suite.Suite
	repo     *db.Repository
	events   *eventRecorder
	server   *httptest.Server
	logger   *zap.Logger
	teardown []func()
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
}

// SetupTest gives every test its own SQLite file so no state leaks between tests.
func (s *IntegrationTestSuite) SetupTest() {
	cfg := &db.Config{
		Driver:         db.DriverSQLite,
		SQLitePath:     filepath.Join(s.T().TempDir(), "biztime_test.db"),
		ConnectRetries: 1,
		AutoMigrate:    true,
	}
	repo, err := db.NewRepository(context.Background(), cfg, s.logger)
	s.Require().NoError(err, "Database initialization failed")
	s.repo = repo
	s.events = &eventRecorder{}

	server := handlers.NewServer(0, 0, s.logger)
	s.Require().NoError(server.Register(
		handlers.NewCompanyHandler(controller.NewCompanyService(repo, s.events, s.logger), s.logger),
		handlers.NewInvoiceHandler(controller.NewInvoiceService(repo, s.events, s.logger), s.logger),
		handlers.NewIndustryHandler(controller.NewIndustryService(repo, s.events, s.logger), s.logger),
		handlers.NewHealthHandler(repo),
	))
	s.server = httptest.NewServer(server.Handler())

	s.teardown = append(s.teardown, s.server.Close, func() { _ = repo.Close() })
}

func (s *IntegrationTestSuite) TearDownTest() {
	for i := len(s.teardown) - 1; i >= 0; i-- {
		s.teardown[i]()
	}
	s.teardown = nil
}

// request sends a JSON request and decodes the JSON response body.
func (s *IntegrationTestSuite) request(method, path string, body interface{}) (int, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			s.Require().NoError(err)
			reader = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var out map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out), "%s %s returned a non-JSON body", method, path)
	return resp.StatusCode, out
}

func (s *IntegrationTestSuite) createCompany(name, description string) string {
	status, body := s.request(http.MethodPost, "/companies", map[string]string{"name": name, "description": description})
	s.Require().Equal(http.StatusCreated, status, body)
	return body["company"].(map[string]interface{})["code"].(string)
}

func (s *IntegrationTestSuite) createInvoice(compCode string, amt float64) int64 {
	status, body := s.request(http.MethodPost, "/invoices", map[string]interface{}{"comp_code": compCode, "amt": amt})
	s.Require().Equal(http.StatusCreated, status, body)
	return int64(body["invoice"].(map[string]interface{})["id"].(float64))
}

func (s *IntegrationTestSuite) TestCompanyLifecycle() {
	code := s.createCompany("IBM", "Big blue.")
	s.Equal("ibm", code)

	status, body := s.request(http.MethodGet, "/companies/ibm", nil)
	s.Equal(http.StatusOK, status)
	s.Equal(map[string]interface{}{
		"code":        "ibm",
		"name":        "IBM",
		"description": "Big blue.",
		"invoices":    []interface{}{},
		"industries":  []interface{}{},
	}, body["company"])

	status, body = s.request(http.MethodPut, "/companies/ibm", map[string]string{"name": "IBM Corp", "description": "Bigger blue."})
	s.Equal(http.StatusOK, status)
	s.Equal(map[string]interface{}{"code": "ibm", "name": "IBM Corp", "description": "Bigger blue."}, body["company"])

	status, body = s.request(http.MethodDelete, "/companies/ibm", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("IBM Corp deleted.", body["status"])

	status, _ = s.request(http.MethodGet, "/companies/ibm", nil)
	s.Equal(http.StatusNotFound, status)

	s.Equal([]recordedEvent{
		{Type: events.CompanyCreated, Key: "ibm"},
		{Type: events.CompanyUpdated, Key: "ibm"},
		{Type: events.CompanyDeleted, Key: "ibm"},
	}, s.events.recorded())
}

func (s *IntegrationTestSuite) TestCompaniesOrderedByCode() {
	s.createCompany("Microsoft", "")
	s.createCompany("Apple Computer", "")
	s.createCompany("IBM", "")

	status, body := s.request(http.MethodGet, "/companies", nil)
	s.Equal(http.StatusOK, status)
	s.Equal([]interface{}{
		map[string]interface{}{"code": "apple-computer", "name": "Apple Computer"},
		map[string]interface{}{"code": "ibm", "name": "IBM"},
		map[string]interface{}{"code": "microsoft", "name": "Microsoft"},
	}, body["companies"])
}

func (s *IntegrationTestSuite) TestDuplicateCompany() {
	s.createCompany("IBM", "")

	status, body := s.request(http.MethodPost, "/companies", map[string]string{"name": "ibm"})
	s.Equal(http.StatusConflict, status)
	s.Equal(float64(http.StatusConflict), body["error"].(map[string]interface{})["status"])
}

func (s *IntegrationTestSuite) TestNonexistentResources() {
	for _, tc := range []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/companies/nope", nil},
		{http.MethodPut, "/companies/nope", map[string]string{"name": "Nope"}},
		{http.MethodDelete, "/companies/nope", nil},
		{http.MethodGet, "/invoices/999", nil},
		{http.MethodPut, "/invoices/999", map[string]int{"amt": 10}},
		{http.MethodDelete, "/invoices/999", nil},
		{http.MethodGet, "/invoices/abc", nil},
	} {
		status, body := s.request(tc.method, tc.path, tc.body)
		s.Equal(http.StatusNotFound, status, "%s %s", tc.method, tc.path)
		s.Contains(body, "error")
	}

	_, body := s.request(http.MethodGet, "/companies", nil)
	s.Empty(body["companies"])
	s.Empty(s.events.recorded())
}

func (s *IntegrationTestSuite) TestInvoicePayment() {
	s.createCompany("IBM", "")
	id := s.createInvoice("ibm", 10000)

	status, body := s.request(http.MethodGet, "/companies/ibm", nil)
	s.Equal(http.StatusOK, status)
	s.Equal([]interface{}{float64(id)}, body["company"].(map[string]interface{})["invoices"])

	status, body = s.request(http.MethodPut, "/invoices/1", map[string]int{"amt": 500})
	s.Equal(http.StatusOK, status)
	invoice := body["invoice"].(map[string]interface{})
	s.Equal(float64(9500), invoice["amt"])
	s.Equal(false, invoice["paid"])
	s.Nil(invoice["paid_date"])

	// Rejected payments leave the invoice untouched.
	for _, bad := range []string{`{"amt":"abc"}`, `{"amt":-5}`, `{}`} {
		status, _ = s.request(http.MethodPut, "/invoices/1", bad)
		s.Equal(http.StatusBadRequest, status, bad)
	}
	_, body = s.request(http.MethodGet, "/invoices/1", nil)
	s.Equal(float64(9500), body["invoice"].(map[string]interface{})["amt"])

	status, body = s.request(http.MethodPut, "/invoices/1", map[string]int{"amt": 9500})
	s.Equal(http.StatusOK, status)
	invoice = body["invoice"].(map[string]interface{})
	s.Equal(float64(0), invoice["amt"])
	s.Equal(true, invoice["paid"])
	s.NotNil(invoice["paid_date"])

	_, body = s.request(http.MethodGet, "/invoices/1", nil)
	detail := body["invoice"].(map[string]interface{})
	s.Equal(true, detail["paid"])
	s.NotNil(detail["paid_date"])
	s.Equal("ibm", detail["company"].(map[string]interface{})["code"])
}

func (s *IntegrationTestSuite) TestInvoiceValidation() {
	s.createCompany("IBM", "")

	status, _ := s.request(http.MethodPost, "/invoices", map[string]interface{}{"comp_code": "ibm", "amt": -1})
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.request(http.MethodPost, "/invoices", map[string]interface{}{"comp_code": "ghost", "amt": 100})
	s.Equal(http.StatusConflict, status)

	status, body := s.request(http.MethodGet, "/invoices", nil)
	s.Equal(http.StatusOK, status)
	s.Empty(body["invoices"])
}

func (s *IntegrationTestSuite) TestInvoiceDelete() {
	s.createCompany("IBM", "")
	id := s.createInvoice("ibm", 250)

	status, body := s.request(http.MethodDelete, "/invoices/1", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("Invoice 1 deleted.", body["status"])
	s.Equal(int64(1), id)

	status, _ = s.request(http.MethodGet, "/invoices/1", nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestIndustryAssociation() {
	s.createCompany("IBM", "")

	status, _ := s.request(http.MethodPost, "/industries", map[string]string{"code": "tech", "industry": "Technology"})
	s.Require().Equal(http.StatusCreated, status)
	status, _ = s.request(http.MethodPost, "/industries", map[string]string{"code": "acct", "industry": "Accounting"})
	s.Require().Equal(http.StatusCreated, status)

	status, body := s.request(http.MethodPost, "/industries/nope", map[string]string{"code": "ibm"})
	s.Equal(http.StatusNotFound, status)
	s.Equal("Industry code (nope) does not exist!", body["error"].(map[string]interface{})["message"])

	status, body = s.request(http.MethodPost, "/industries/tech", map[string]string{"code": "ghost"})
	s.Equal(http.StatusNotFound, status)
	s.Equal("Company code (ghost) does not exist!", body["error"].(map[string]interface{})["message"])

	status, body = s.request(http.MethodPost, "/industries/tech", map[string]string{"code": "ibm"})
	s.Equal(http.StatusCreated, status)
	s.Equal(map[string]interface{}{"ind_code": "tech", "comp_code": "ibm"}, body["company_industry"])

	status, _ = s.request(http.MethodPost, "/industries/tech", map[string]string{"code": "ibm"})
	s.Equal(http.StatusConflict, status)

	_, body = s.request(http.MethodGet, "/companies/ibm", nil)
	s.Equal([]interface{}{"Technology"}, body["company"].(map[string]interface{})["industries"])

	_, body = s.request(http.MethodGet, "/industries", nil)
	s.Equal([]interface{}{
		map[string]interface{}{"industry": "Accounting", "code": nil},
		map[string]interface{}{"industry": "Technology", "code": "ibm"},
	}, body["industries"])
}

func (s *IntegrationTestSuite) TestDeleteCompanyCascades() {
	s.createCompany("IBM", "")
	s.createInvoice("ibm", 100)
	s.createInvoice("ibm", 200)
	status, _ := s.request(http.MethodPost, "/industries", map[string]string{"code": "tech", "industry": "Technology"})
	s.Require().Equal(http.StatusCreated, status)
	status, _ = s.request(http.MethodPost, "/industries/tech", map[string]string{"code": "ibm"})
	s.Require().Equal(http.StatusCreated, status)

	status, _ = s.request(http.MethodDelete, "/companies/ibm", nil)
	s.Equal(http.StatusOK, status)

	_, body := s.request(http.MethodGet, "/invoices", nil)
	s.Empty(body["invoices"])

	_, body = s.request(http.MethodGet, "/industries", nil)
	s.Equal([]interface{}{
		map[string]interface{}{"industry": "Technology", "code": nil},
	}, body["industries"])
}

func (s *IntegrationTestSuite) TestHealth() {
	status, body := s.request(http.MethodGet, "/healthz", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("ok", body["status"])

	status, body = s.request(http.MethodGet, "/unknown", nil)
	s.Equal(http.StatusNotFound, status)
	s.Equal("Not Found", body["error"].(map[string]interface{})["message"])
}
