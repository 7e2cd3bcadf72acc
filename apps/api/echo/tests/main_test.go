package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/assignment"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
	"github.com/darasahq/darasa/core/stats"
	emailsvc "github.com/darasahq/darasa/services/email"
	logsvc "github.com/darasahq/darasa/services/logger"
	inmemdb "github.com/darasahq/darasa/storage/database/inmem"
)

var (
	app Server

	db             *inmemdb.DB
	attendanceRepo attendance.Repository
	assignmentRepo assignment.Repository
	rosterRepo     roster.Repository

	rosterSvc     *roster.Service
	attendanceSvc *attendance.Service
	assignmentSvc *assignment.Service

	errMissingToken = httpErr{Success: false, Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Success: false, Error: "permission denied"}
)

func TestMain(m *testing.M) {
	// set up DB & repos
	db = inmemdb.Open()
	attendanceRepo = inmemdb.NewAttendanceRepository(db)
	assignmentRepo = inmemdb.NewAssignmentRepository(db)
	rosterRepo = inmemdb.NewRosterRepository(db)

	// set up services
	mailSvc := emailsvc.NewDummyService()
	rosterSvc = roster.NewService(rosterRepo)
	attendanceSvc = attendance.NewService(attendanceRepo)
	assignmentSvc = assignment.NewService(assignmentRepo, rosterSvc, mailSvc)
	statsSvc := stats.NewService(rosterSvc, attendanceSvc, assignmentSvc)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up server
	app = NewServer(&ServerDeps{
		DisableReqLogs: true,
		Logger:         logsvc.NewNopLogger(),
		AttendanceSvc:  attendanceSvc,
		AssignmentSvc:  assignmentSvc,
		StatsSvc:       statsSvc,
		Validate:       validate,
		Translator:     translator,
	})

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// resetDB empties every in-memory table between tests.
func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
}

type httpErr struct {
	Success bool        `json:"success"`
	Error   interface{} `json:"error"`
}

type httpOK struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, subject, name, role string) string {
	t.Helper()
	token, err := GenerateToken(NewClaims(subject, name, role))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

// marchallData wraps the payload in the success envelope before marshaling.
func marchallData(t *testing.T, data interface{}) []byte {
	return marchallObj(t, httpOK{Success: true, Data: data})
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.String(), tt.wantData)
	}
}

func createStudent(t *testing.T, name, class string) roster.Student {
	t.Helper()
	std, err := rosterSvc.AddStudent(context.Background(), roster.Student{Name: name, ClassName: class})
	if err != nil {
		t.Fatalf("createStudent(): %v", err)
	}
	return std
}
