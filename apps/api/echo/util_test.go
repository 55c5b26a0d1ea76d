package echoapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	echoapi "github.com/trezcool/classbook/apps/api/echo"
	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/report"
	"github.com/trezcool/classbook/services/logger"
	"github.com/trezcool/classbook/storage/database/inmem"
	"github.com/trezcool/classbook/tests"
)

var now = time.Date(2024, time.October, 16, 9, 30, 15, 0, time.UTC)

type testApp struct {
	echoapi.Server
	ds        classroom.Dataset
	svc       *classroom.Service
	reportSvc *report.Service
}

func testConfig() *core.Config {
	return &core.Config{
		Env:      "TEST",
		TestMode: true,
		AppName:  "Classbook",
		Backend:  core.BackendFixture,
		Server:   core.ServerConfig{Address: ":0", CORSOrigins: []string{"*"}},
	}
}

func newServer(t *testing.T, repo classroom.Repository) testApp {
	classroom.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { classroom.NowFunc = time.Now })

	conf := testConfig()
	validate, translator := classroom.NewValidator()
	svc := classroom.NewService(repo, validate, translator)
	reportSvc := report.NewService(svc)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf),
		ClassroomSvc:   svc,
		ReportSvc:      reportSvc,
		DisableReqLogs: true,
	})
	return testApp{Server: server, svc: svc, reportSvc: reportSvc}
}

// setup serves the test dataset from the fixture store.
func setup(t *testing.T) testApp {
	ds := testutil.Dataset()
	app := newServer(t, inmemdb.NewRepository(inmemdb.OpenWithDataset(inmemdb.Options{}, ds)))
	app.ds = ds
	return app
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func (app testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newRequest(method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
