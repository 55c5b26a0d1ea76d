package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRaw_Get(t *testing.T) {
	tests := []struct {
		name   string
		raw    Raw
		field  string
		want   interface{}
		wantOk bool
	}{
		{name: "plain", raw: Raw{"status": "Active"}, field: "status", want: "Active", wantOk: true},
		{name: "suffixed", raw: Raw{"status_c": "Active"}, field: "status", want: "Active", wantOk: true},
		{name: "canonical wins", raw: Raw{"status": "Inactive", "status_c": "Active"}, field: "status", want: "Inactive", wantOk: true},
		{name: "nil canonical falls back", raw: Raw{"status": nil, "status_c": "Active"}, field: "status", want: "Active", wantOk: true},
		{name: "asked by suffixed name", raw: Raw{"status": "Active"}, field: "status_c", want: "Active", wantOk: true},
		{name: "missing", raw: Raw{"name": "x"}, field: "status", wantOk: false},
		{name: "Id never suffixed", raw: Raw{"Id": 3.0}, field: "Id", want: 3.0, wantOk: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.raw.Get(tt.field)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRaw_Get_bothConventionsAgree(t *testing.T) {
	plain, _ := Raw{"status": "Active"}.String("status")
	suffixed, _ := Raw{"status_c": "Active"}.String("status")
	if plain != suffixed {
		t.Errorf("plain = %q; suffixed %q", plain, suffixed)
	}
	assert.Equal(t, Canonical(Raw{"status": "Active"}), Canonical(Raw{"status_c": "Active"}))
}

func TestRaw_Int(t *testing.T) {
	tests := []struct {
		name   string
		raw    Raw
		want   int
		wantOk bool
	}{
		{name: "float64", raw: Raw{"classId_c": 2.0}, want: 2, wantOk: true},
		{name: "int", raw: Raw{"classId": 4}, want: 4, wantOk: true},
		{name: "numeric string", raw: Raw{"classId": " 7 "}, want: 7, wantOk: true},
		{name: "json.Number", raw: Raw{"classId": json.Number("9")}, want: 9, wantOk: true},
		{name: "lookup object", raw: Raw{"classId_c": map[string]interface{}{"Id": 5.0, "Name": "Algebra"}}, want: 5, wantOk: true},
		{name: "fractional", raw: Raw{"classId": 1.5}, wantOk: false},
		{name: "garbage", raw: Raw{"classId": "lol"}, wantOk: false},
		{name: "missing", raw: Raw{}, wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.raw.Int("classId")
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("Int() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestRaw_String_lookup(t *testing.T) {
	got, ok := Raw{"classId_c": map[string]interface{}{"Id": 5.0, "Name": "Algebra"}}.String("classId")
	assert.True(t, ok)
	assert.Equal(t, "Algebra", got)
}

func TestRaw_DateAndTime(t *testing.T) {
	raw := Raw{
		"dueDate_c":       "2024-03-15",
		"date":            "2024-03-15T08:30:00Z",
		"submittedDate_c": "2024-03-14T10:00:00+02:00",
		"bad":             "yesterday",
	}

	d, ok := raw.Date("dueDate")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = raw.Date("date")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	ts, ok := raw.Time("submittedDate")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC), ts)

	_, ok = raw.Date("bad")
	assert.False(t, ok)
}

func TestCanonicalAndSuffixed(t *testing.T) {
	raw := Raw{"Id": 1.0, "firstName_c": "Emma", "email": "emma@school.edu"}

	canon := Canonical(raw)
	assert.Equal(t, Raw{"Id": 1.0, "firstName": "Emma", "email": "emma@school.edu"}, canon)

	projected := Canonical(raw, "firstName")
	assert.Equal(t, Raw{"firstName": "Emma"}, projected)

	assert.Equal(t, Raw{"Id": 1.0, "firstName_c": "Emma", "email_c": "emma@school.edu"}, Suffixed(canon))

	// inputs are left untouched
	assert.Equal(t, Raw{"Id": 1.0, "firstName_c": "Emma", "email": "emma@school.edu"}, raw)
}
