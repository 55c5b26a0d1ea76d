package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/classbook/core/classroom"
	"github.com/trezcool/classbook/core/record"
	"github.com/trezcool/classbook/storage/recordsapi"
)

// RecordsAPI is an in-process fake of the hosted records API.
type RecordsAPI struct {
	*httptest.Server

	ProjectID string
	PublicKey string

	mu       sync.Mutex
	tables   map[string][]record.Raw
	failures map[string]string
	requests int
}

// NewRecordsAPI starts a fake records API holding ds; it is closed when the test ends.
func NewRecordsAPI(t *testing.T, ds classroom.Dataset) *RecordsAPI {
	api := &RecordsAPI{
		ProjectID: "test-project",
		PublicKey: "test-key",
		tables:    make(map[string][]record.Raw),
		failures:  make(map[string]string),
	}
	api.Load(ds)

	e := echo.New()
	e.HideBanner = true
	e.Use(api.authenticate)
	g := e.Group("/records/:collection")
	g.POST("/query", api.query)
	g.POST("/:id/query", api.get)
	g.POST("", api.create)
	g.PATCH("", api.update)
	g.DELETE("", api.remove)

	api.Server = httptest.NewServer(e)
	t.Cleanup(api.Close)
	return api
}

// Options returns the client options pointing at the fake.
func (api *RecordsAPI) Options() recordsapi.Options {
	return recordsapi.Options{BaseURL: api.URL, ProjectID: api.ProjectID, PublicKey: api.PublicKey}
}

// Load replaces every collection with ds, stored under backend names.
func (api *RecordsAPI) Load(ds classroom.Dataset) {
	api.mu.Lock()
	defer api.mu.Unlock()

	api.tables = map[string][]record.Raw{
		recordsapi.StudentCollection:    {},
		recordsapi.ClassCollection:      {},
		recordsapi.AssignmentCollection: {},
		recordsapi.GradeCollection:      {},
		recordsapi.AttendanceCollection: {},
	}
	for _, s := range ds.Students {
		api.tables[recordsapi.StudentCollection] = append(api.tables[recordsapi.StudentCollection], record.Suffixed(s.Record()))
	}
	for _, c := range ds.Classes {
		api.tables[recordsapi.ClassCollection] = append(api.tables[recordsapi.ClassCollection], record.Suffixed(c.Record()))
	}
	for _, a := range ds.Assignments {
		api.tables[recordsapi.AssignmentCollection] = append(api.tables[recordsapi.AssignmentCollection], record.Suffixed(a.Record()))
	}
	for _, g := range ds.Grades {
		api.tables[recordsapi.GradeCollection] = append(api.tables[recordsapi.GradeCollection], record.Suffixed(g.Record()))
	}
	for _, a := range ds.Attendance {
		api.tables[recordsapi.AttendanceCollection] = append(api.tables[recordsapi.AttendanceCollection], record.Suffixed(a.Record()))
	}
}

// Fail makes every call on collection answer success:false with msg; an empty msg clears it.
func (api *RecordsAPI) Fail(collection, msg string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if msg == "" {
		delete(api.failures, collection)
		return
	}
	api.failures[collection] = msg
}

// Requests returns the number of calls served so far.
func (api *RecordsAPI) Requests() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.requests
}

func (api *RecordsAPI) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		api.mu.Lock()
		api.requests++
		api.mu.Unlock()

		req := c.Request()
		if req.Header.Get("Authorization") != "Bearer "+api.PublicKey || req.Header.Get(recordsapi.ProjectHeader) != api.ProjectID {
			return c.JSON(http.StatusUnauthorized, recordsapi.Envelope{Message: "invalid credentials"})
		}
		return next(c)
	}
}

// table returns the collection; when it is unknown or failing, ok is false and the response is already written.
// The caller holds the lock.
func (api *RecordsAPI) table(c echo.Context) (rows []record.Raw, name string, ok bool, err error) {
	name = c.Param("collection")
	rows, ok = api.tables[name]
	if !ok {
		return nil, name, false, c.JSON(http.StatusNotFound, recordsapi.Envelope{Message: "unknown collection " + name})
	}
	if msg, failing := api.failures[name]; failing {
		return nil, name, false, c.JSON(http.StatusOK, recordsapi.Envelope{Success: false, Message: msg})
	}
	return rows, name, true, nil
}

func project(r record.Raw, fields []string) record.Raw {
	if len(fields) == 0 {
		return r
	}
	out := make(record.Raw, len(fields))
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

func find(rows []record.Raw, id int) int {
	for i, r := range rows {
		if rid, ok := r.ID(); ok && rid == id {
			return i
		}
	}
	return -1
}

func decodeBody(c echo.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	return dec.Decode(v)
}

func badRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, recordsapi.Envelope{Message: err.Error()})
}

func (api *RecordsAPI) query(c echo.Context) error {
	var req recordsapi.QueryRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	rows, _, ok, err := api.table(c)
	if !ok {
		return err
	}
	data := make([]record.Raw, 0, len(rows))
	for _, r := range rows {
		data = append(data, project(r, req.FieldNames()))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "", "data": data})
}

func (api *RecordsAPI) get(c echo.Context) error {
	var req recordsapi.QueryRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	rows, _, ok, err := api.table(c)
	if !ok {
		return err
	}
	var data interface{}
	if i := find(rows, id); i >= 0 {
		data = project(rows[i], req.FieldNames())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "", "data": data})
}

func mutationResponse(c echo.Context, r record.Raw) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "",
		"results": []map[string]interface{}{{"success": true, "message": "", "data": r}},
	})
}

func (api *RecordsAPI) create(c echo.Context) error {
	var req recordsapi.RecordsRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if len(req.Records) != 1 {
		return c.JSON(http.StatusBadRequest, recordsapi.Envelope{Message: "exactly one record expected"})
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	rows, name, ok, err := api.table(c)
	if !ok {
		return err
	}
	next := 1
	for _, r := range rows {
		if id, _ := r.ID(); id >= next {
			next = id + 1
		}
	}
	created := make(record.Raw, len(req.Records[0])+1)
	for k, v := range req.Records[0] {
		if !strings.HasSuffix(k, record.Suffix) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"success": true,
				"results": []map[string]interface{}{{"success": false, "message": "unknown field " + k}},
			})
		}
		created[k] = v
	}
	created[record.IDField] = next
	api.tables[name] = append(rows, created)
	return mutationResponse(c, created)
}

func (api *RecordsAPI) update(c echo.Context) error {
	var req recordsapi.RecordsRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if len(req.Records) != 1 {
		return c.JSON(http.StatusBadRequest, recordsapi.Envelope{Message: "exactly one record expected"})
	}
	id, ok := req.Records[0].ID()
	if !ok {
		return c.JSON(http.StatusBadRequest, recordsapi.Envelope{Message: "missing Id"})
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	rows, _, ok, err := api.table(c)
	if !ok {
		return err
	}
	i := find(rows, id)
	if i < 0 {
		return c.JSON(http.StatusNotFound, recordsapi.Envelope{Message: "record not found"})
	}
	updated := make(record.Raw, len(rows[i]))
	for k, v := range rows[i] {
		updated[k] = v
	}
	for k, v := range req.Records[0] {
		updated[k] = v
	}
	updated[record.IDField] = id
	rows[i] = updated
	return mutationResponse(c, updated)
}

func (api *RecordsAPI) remove(c echo.Context) error {
	var req recordsapi.DeleteRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if len(req.RecordIds) != 1 {
		return c.JSON(http.StatusBadRequest, recordsapi.Envelope{Message: "exactly one id expected"})
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	rows, name, ok, err := api.table(c)
	if !ok {
		return err
	}
	i := find(rows, req.RecordIds[0])
	if i < 0 {
		return c.JSON(http.StatusNotFound, recordsapi.Envelope{Message: "record not found"})
	}
	api.tables[name] = append(rows[:i:i], rows[i+1:]...)
	return mutationResponse(c, nil)
}
