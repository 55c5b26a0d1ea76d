// Package recordsapi is the hosted backend of the classroom gateway: it speaks the generic
// records API, where every custom field name carries the "_c" suffix.
package recordsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/classbook/core"
	"github.com/trezcool/classbook/core/record"
)

// Collections
const (
	StudentCollection    = "student_c"
	ClassCollection      = "class_c"
	AssignmentCollection = "assignment_c"
	GradeCollection      = "grade_c"
	AttendanceCollection = "attendance_c"
)

const ProjectHeader = "X-Project-Id"

var errNoRecord = errors.New("no record")

type Options struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// Client performs records API round trips. It never retries.
type Client struct {
	baseURL string
	headers map[string]string
	rest    *rest.Client
}

func NewClient(opts Options, httpClient ...*http.Client) *Client {
	hc := &http.Client{Timeout: opts.Timeout}
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if opts.PublicKey != "" {
		headers["Authorization"] = "Bearer " + opts.PublicKey
	}
	if opts.ProjectID != "" {
		headers[ProjectHeader] = opts.ProjectID
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		headers: headers,
		rest:    &rest.Client{HTTPClient: hc},
	}
}

// Wire format

type (
	fieldName struct {
		Name string `json:"Name"`
	}

	fieldSpec struct {
		Field fieldName `json:"field"`
	}

	QueryRequest struct {
		Fields []fieldSpec `json:"fields"`
	}

	RecordsRequest struct {
		Records []record.Raw `json:"records"`
	}

	DeleteRequest struct {
		RecordIds []int `json:"RecordIds"`
	}

	Result struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}

	Envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
		Results []Result        `json:"results,omitempty"`
	}
)

// NewQueryRequest projects the given canonical fields, under their backend names.
func NewQueryRequest(fields []string) QueryRequest {
	req := QueryRequest{Fields: make([]fieldSpec, 0, len(fields)+1)}
	req.Fields = append(req.Fields, fieldSpec{Field: fieldName{Name: record.IDField}})
	for _, f := range fields {
		req.Fields = append(req.Fields, fieldSpec{Field: fieldName{Name: record.SuffixedName(f)}})
	}
	return req
}

// FieldNames returns the requested backend field names.
func (q QueryRequest) FieldNames() []string {
	names := make([]string, 0, len(q.Fields))
	for _, f := range q.Fields {
		names = append(names, f.Field.Name)
	}
	return names
}

// decode unmarshals keeping numbers as json.Number.
func decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (c *Client) url(parts ...interface{}) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/records")
	for _, p := range parts {
		b.WriteString("/")
		b.WriteString(fmt.Sprint(p))
	}
	return b.String()
}

// do sends the request and decodes its envelope, mapping every failure to a core error.
func (c *Client) do(ctx context.Context, op string, method rest.Method, url string, body interface{}) (Envelope, error) {
	var env Envelope

	payload, err := json.Marshal(body)
	if err != nil {
		return env, errors.Wrapf(err, "%s: encoding request", op)
	}
	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:  method,
		BaseURL: url,
		Headers: c.headers,
		Body:    payload,
	})
	if err != nil {
		return env, errors.Wrap(err, op)
	}

	if resp.StatusCode == http.StatusNotFound {
		return env, errNoRecord
	}
	decodeErr := decode([]byte(resp.Body), &env)
	if resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(resp.Body)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return env, core.NewBackendError(op, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return env, errors.Wrapf(decodeErr, "%s: decoding response", op)
	}
	if !env.Success {
		return env, core.NewBackendError(op, resp.StatusCode, env.Message)
	}
	return env, nil
}

// firstResult unwraps the single result of a mutation.
func firstResult(op string, env Envelope) (record.Raw, error) {
	if len(env.Results) == 0 {
		return nil, nil
	}
	res := env.Results[0]
	if !res.Success {
		return nil, core.NewBackendError(op, http.StatusOK, res.Message)
	}
	if isNull(res.Data) {
		return nil, nil
	}
	var rec record.Raw
	if err := decode(res.Data, &rec); err != nil {
		return nil, errors.Wrapf(err, "%s: decoding result", op)
	}
	return rec, nil
}

// Query fetches every record of the collection.
func (c *Client) Query(ctx context.Context, collection string, fields []string) ([]record.Raw, error) {
	op := "querying " + collection
	env, err := c.do(ctx, op, rest.Post, c.url(collection, "query"), NewQueryRequest(fields))
	if err != nil {
		if err == errNoRecord {
			return nil, core.NewBackendError(op, http.StatusNotFound, "collection not found")
		}
		return nil, err
	}
	records := make([]record.Raw, 0)
	if isNull(env.Data) {
		return records, nil
	}
	if err = decode(env.Data, &records); err != nil {
		return nil, errors.Wrapf(err, "%s: decoding data", op)
	}
	return records, nil
}

// Get fetches one record; errNoRecord when the backend has none.
func (c *Client) Get(ctx context.Context, collection string, id int, fields []string) (record.Raw, error) {
	op := "getting " + collection + " " + strconv.Itoa(id)
	env, err := c.do(ctx, op, rest.Post, c.url(collection, id, "query"), NewQueryRequest(fields))
	if err != nil {
		return nil, err
	}
	if isNull(env.Data) {
		return nil, errNoRecord
	}
	var rec record.Raw
	if err = decode(env.Data, &rec); err != nil {
		return nil, errors.Wrapf(err, "%s: decoding data", op)
	}
	return rec, nil
}

// Create inserts one record and returns it as stored.
func (c *Client) Create(ctx context.Context, collection string, rec record.Raw) (record.Raw, error) {
	op := "creating " + collection
	env, err := c.do(ctx, op, rest.Post, c.url(collection), RecordsRequest{Records: []record.Raw{rec}})
	if err != nil {
		if err == errNoRecord {
			return nil, core.NewBackendError(op, http.StatusNotFound, "collection not found")
		}
		return nil, err
	}
	return firstResult(op, env)
}

// Update patches one record; rec must carry the identifier.
func (c *Client) Update(ctx context.Context, collection string, rec record.Raw) (record.Raw, error) {
	op := "updating " + collection
	env, err := c.do(ctx, op, rest.Patch, c.url(collection), RecordsRequest{Records: []record.Raw{rec}})
	if err != nil {
		return nil, err
	}
	return firstResult(op, env)
}

func (c *Client) Delete(ctx context.Context, collection string, id int) error {
	op := "deleting " + collection + " " + strconv.Itoa(id)
	env, err := c.do(ctx, op, rest.Delete, c.url(collection), DeleteRequest{RecordIds: []int{id}})
	if err != nil {
		return err
	}
	_, err = firstResult(op, env)
	return err
}
