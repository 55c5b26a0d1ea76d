package echoapi_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/classbook/core/classroom"
)

func Test_studentApi(t *testing.T) {
	app := setup(t)
	withClass := classroom.WithClassNames(app.ds.Students, app.ds.Classes)

	liam := app.ds.Students[1]
	liam.Status = classroom.StatusActive

	created := classroom.Student{
		ID: 4, FirstName: "Noah", LastName: "Davis", Email: "noah.davis@school.test", Grade: "10th Grade",
		ClassID: 2, EnrollmentDate: classroom.DateOf(now), Status: classroom.StatusActive,
	}

	app.run(t, []httpTest{
		{name: "list", path: "/v1/students", wantCode: http.StatusOK, wantData: marchallObj(t, withClass)},
		{
			name: "filter class & status", path: "/v1/students?class_id=1&status=active",
			wantCode: http.StatusOK, wantData: marchallObj(t, withClass[:1]),
		},
		{
			name: "search", path: "/v1/students?search=SMITH",
			wantCode: http.StatusOK, wantData: marchallObj(t, withClass[1:2]),
		},
		{
			name: "no match", path: "/v1/students?search=zzz",
			wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
		{name: "retrieve", path: "/v1/students/1", wantCode: http.StatusOK, wantData: marchallObj(t, withClass[0])},
		{
			name: "retrieve unknown", path: "/v1/students/99",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student 99 not found"}),
		},
		{
			name: "retrieve bad id", path: "/v1/students/abc",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "create invalid", method: http.MethodPost, path: "/v1/students", body: []byte(`{"email":"nope"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
				"firstName": "this field is required",
				"lastName":  "this field is required",
				"email":     "email must be a valid email address",
				"grade":     "this field is required",
			}),
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/students",
			body:     []byte(`{"firstName":"Noah","lastName":"Davis","email":"Noah.Davis@school.test","grade":"10th Grade","classId":2}`),
			wantCode: http.StatusCreated, wantData: marchallObj(t, created),
		},
		{
			name: "update", method: http.MethodPut, path: "/v1/students/2", body: []byte(`{"status":"Active"}`),
			wantCode: http.StatusOK, wantData: marchallObj(t, liam),
		},
		{
			name: "update invalid", method: http.MethodPut, path: "/v1/students/2", body: []byte(`{"status":"Expelled"}`),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{
				"status": "status must be one of Active, Inactive or Suspended",
			}),
		},
		{
			name: "delete", method: http.MethodDelete, path: "/v1/students/3",
			wantCode: http.StatusOK, wantData: marchallObj(t, app.ds.Students[2]),
		},
		{
			name: "delete again", method: http.MethodDelete, path: "/v1/students/3",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "student 3 not found"}),
		},
	})
}

func newImportRequest(t *testing.T, path string, rows [][]interface{}) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "students.xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Write(part))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, httptest.NewRecorder()
}

func Test_studentApi_import(t *testing.T) {
	app := setup(t)

	req, rec := newImportRequest(t, "/v1/students/import?class_id=1", [][]interface{}{
		{"First Name", "Last Name", "Email", "Grade", "Class ID"},
		{"Noah", "Davis", "noah@school.test", "10th Grade", ""},
		{"Mia", "Clark", "mia@school.test", "12th Grade", "abc"},
		{"Ghost", "", "ghost@school.test", "10th Grade", ""},
		{"Ava", "Brown", "ava.brown@school.test", "11th Grade", "2"},
	})
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: marchallObj(t, classroom.ImportResult{
			Created: []classroom.Student{
				{
					ID: 4, FirstName: "Noah", LastName: "Davis", Email: "noah@school.test", Grade: "10th Grade",
					ClassID: 1, EnrollmentDate: classroom.DateOf(now), Status: classroom.StatusActive,
				},
				{
					ID: 5, FirstName: "Ava", LastName: "Brown", Email: "ava.brown@school.test", Grade: "11th Grade",
					ClassID: 2, EnrollmentDate: classroom.DateOf(now), Status: classroom.StatusActive,
				},
			},
			Failed: []classroom.ImportFailure{
				{Row: 3, Error: `invalid class id "abc"`},
				{Row: 4, Error: "lastName: this field is required"},
			},
		}),
	}, rec)

	t.Run("missing file", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/students/import")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"file": "an xlsx file is required"}),
		}, rec)
	})

	t.Run("template", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/students/import-template")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		v, err := f.GetCellValue("Sheet1", "A1")
		require.NoError(t, err)
		require.Equal(t, "firstName", v)
	})
}
