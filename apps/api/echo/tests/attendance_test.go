package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/roster"
)

func upsertRegister(t *testing.T, date, class, subject string, recs ...attendance.NewRecord) attendance.Entry {
	t.Helper()
	if recs == nil {
		recs = []attendance.NewRecord{}
	}
	ent, err := attendanceSvc.Upsert(context.Background(), attendance.NewEntry{
		Date:        date,
		ClassName:   class,
		Subject:     subject,
		TeacherID:   "t1",
		TeacherName: "Mr. Mutombo",
		Records:     recs,
	})
	if err != nil {
		t.Fatalf("upsertRegister(): %v", err)
	}
	return ent
}

func Test_attendanceApi_query(t *testing.T) {
	resetDB(t)

	ent1 := upsertRegister(t, "2026-03-02", "Form 1A", "Math",
		attendance.NewRecord{StudentID: "s1", Status: attendance.StatusPresent},
		attendance.NewRecord{StudentID: "s2", Status: attendance.StatusAbsent},
	)
	ent2 := upsertRegister(t, "2026-03-02", "Form 2B", "Math",
		attendance.NewRecord{StudentID: "s3", Status: attendance.StatusLate},
	)
	ent3 := upsertRegister(t, "2026-03-03", "Form 1A", "French",
		attendance.NewRecord{StudentID: "s1", Status: attendance.StatusPresent},
	)

	studentToken := getToken(t, "s1", "Amani", roster.RoleStudent)
	empty := marchallData(t, []attendance.Entry{})

	tests := []httpTest{
		{name: "Auth required", path: "/api/attendance", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Get all", path: "/api/attendance", token: studentToken, wantData: marchallData(t, []attendance.Entry{ent1, ent2, ent3})},
		{name: "by date", path: "/api/attendance?date=2026-03-02", token: studentToken, wantData: marchallData(t, []attendance.Entry{ent1, ent2})},
		{name: "by date (empty)", path: "/api/attendance?date=2026-03-04", token: studentToken, wantData: empty},
		{name: "by class substring", path: "/api/attendance?class=form+1", token: studentToken, wantData: marchallData(t, []attendance.Entry{ent1, ent3})},
		{name: "by student", path: "/api/attendance?studentId=s3", token: studentToken, wantData: marchallData(t, []attendance.Entry{ent2})},
		{name: "combo", path: "/api/attendance?date=2026-03-02&studentId=s1", token: studentToken, wantData: marchallData(t, []attendance.Entry{ent1})},
	}
	for _, tt := range tests {
		tt := tt
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_upsert(t *testing.T) {
	resetDB(t)

	teacherToken := getToken(t, "t1", "Mr. Mutombo", roster.RoleTeacher)
	studentToken := getToken(t, "s1", "Amani", roster.RoleStudent)

	body := marchallObj(t, attendance.NewEntry{
		Date:      "2026-03-02",
		ClassName: "Form 1A",
		Subject:   "Math",
		TeacherID: "t1",
		Records: []attendance.NewRecord{
			{StudentID: "s1", Status: attendance.StatusPresent},
			{StudentID: "s2"},
		},
	})

	t.Run("Teacher or admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", studentToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	var created attendance.Entry
	t.Run("Create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", teacherToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}

		var resp struct {
			Success bool             `json:"success"`
			Data    attendance.Entry `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		created = resp.Data
		if created.ID == "" {
			t.Error("no id assigned")
		}
		if len(created.Records) != 2 {
			t.Fatalf("len(Records) = %d, want 2", len(created.Records))
		}
		if created.Records[1].Status != attendance.StatusAbsent {
			t.Errorf("Records[1].Status = %s, want the absent default", created.Records[1].Status)
		}
	})

	t.Run("Same key replaces", func(t *testing.T) {
		smaller := marchallObj(t, attendance.NewEntry{
			Date:      "2026-03-02",
			ClassName: "Form 1A",
			Subject:   "Math",
			Records:   []attendance.NewRecord{{StudentID: "s1", Status: attendance.StatusLate}},
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", teacherToken, smaller)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Data attendance.Entry `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if resp.Data.ID != created.ID {
			t.Errorf("id = %s, want the existing %s", resp.Data.ID, created.ID)
		}
		if len(resp.Data.Records) != 1 {
			t.Errorf("len(Records) = %d, want 1; resending a subset drops the rest", len(resp.Data.Records))
		}
	})

	t.Run("Validation", func(t *testing.T) {
		invalid := marchallObj(t, attendance.NewEntry{Date: "02/03/2026", Records: []attendance.NewRecord{}})
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", teacherToken, invalid)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}

		var resp struct {
			Success bool              `json:"success"`
			Error   map[string]string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if resp.Success {
			t.Error("success = true on a validation error")
		}
		if _, ok := resp.Error["date"]; !ok {
			t.Errorf("no field error for date: %v", resp.Error)
		}
		if _, ok := resp.Error["class_name"]; !ok {
			t.Errorf("no field error for class_name: %v", resp.Error)
		}
	})

	t.Run("Missing records", func(t *testing.T) {
		invalid := []byte(`{"date": "2026-03-02", "class_name": "Form 1A", "subject": "Math"}`)
		req, rec := newAuthRequest(http.MethodPost, "/api/attendance", teacherToken, invalid)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v, want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_attendanceApi_updateAndDestroy(t *testing.T) {
	resetDB(t)

	teacherToken := getToken(t, "t1", "Mr. Mutombo", roster.RoleTeacher)
	ent := upsertRegister(t, "2026-03-02", "Form 1A", "Math",
		attendance.NewRecord{StudentID: "s1", Status: attendance.StatusPresent},
	)

	t.Run("Update", func(t *testing.T) {
		body := marchallObj(t, attendance.UpdateEntry{Subject: "Algebra"})
		req, rec := newAuthRequest(http.MethodPut, "/api/attendance/"+ent.ID, teacherToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Data attendance.Entry `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshaling response: %v", err)
		}
		if resp.Data.Subject != "Algebra" {
			t.Errorf("Subject = %s, want Algebra", resp.Data.Subject)
		}
		if resp.Data.ClassName != ent.ClassName || len(resp.Data.Records) != 1 {
			t.Errorf("update clobbered unset fields: %+v", resp.Data)
		}
	})

	t.Run("Update unknown id", func(t *testing.T) {
		body := marchallObj(t, attendance.UpdateEntry{Subject: "Algebra"})
		req, rec := newAuthRequest(http.MethodPut, "/api/attendance/nope", teacherToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Success: false, Error: "attendance entry not found"}),
		}, rec)
	})

	t.Run("Update onto taken key", func(t *testing.T) {
		french := upsertRegister(t, "2026-03-02", "Form 1A", "French",
			attendance.NewRecord{StudentID: "s1", Status: attendance.StatusPresent},
		)

		body := marchallObj(t, attendance.UpdateEntry{Subject: "Algebra"})
		req, rec := newAuthRequest(http.MethodPut, "/api/attendance/"+french.ID, teacherToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Success: false, Error: "an attendance entry for this date, class and subject already exists"}),
		}, rec)
	})

	t.Run("Destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/api/attendance/"+ent.ID, teacherToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodDelete, "/api/attendance/"+ent.ID, teacherToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v, want %v", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_attendanceApi_dailyStats(t *testing.T) {
	resetDB(t)

	upsertRegister(t, "2026-03-02", "Form 1A", "Math",
		attendance.NewRecord{StudentID: "s1", Status: attendance.StatusPresent},
		attendance.NewRecord{StudentID: "s2", Status: attendance.StatusPresent},
		attendance.NewRecord{StudentID: "s3", Status: attendance.StatusAbsent},
		attendance.NewRecord{StudentID: "s4", Status: attendance.StatusLate},
	)
	upsertRegister(t, "2026-03-03", "Form 1A", "Math",
		attendance.NewRecord{StudentID: "s1", Status: attendance.StatusAbsent},
	)

	token := getToken(t, "t1", "Mr. Mutombo", roster.RoleTeacher)

	tests := []httpTest{
		{name: "Auth required", path: "/api/attendance/stats?date=2026-03-02", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Tallies the day", path: "/api/attendance/stats?date=2026-03-02", token: token,
			wantData: marchallData(t, attendance.DailyStats{Date: "2026-03-02", Present: 2, Absent: 1, Late: 1, Total: 4, Percentage: 50}),
		},
		{
			name: "Empty day", path: "/api/attendance/stats?date=2026-03-04", token: token,
			wantData: marchallData(t, attendance.DailyStats{Date: "2026-03-04"}),
		},
		{name: "Bad date", path: "/api/attendance/stats?date=lol", token: token, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
