package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
	"github.com/alpha-aviation/enrollment-service/internal/services"
)

func financialStats(t *testing.T, srv *testServer, token string) models.FinancialStats {
	t.Helper()
	w := srv.do(t, http.MethodGet, "/api/admin/financial-stats", token, nil)
	expectStatus(t, w, http.StatusOK)

	var stats models.FinancialStats
	decodeData(t, decode(t, w), &stats)
	return stats
}

func TestListStudents(t *testing.T) {
	srv := newTestServer(t, fixture.New())
	admin := srv.token(t, fixture.SeedAdminID)

	w := srv.do(t, http.MethodGet, "/admin/students", admin, nil)
	expectStatus(t, w, http.StatusOK)

	env := decode(t, w)
	if env.Count == nil || *env.Count != 5 {
		t.Fatalf("expected count 5, got %v", env.Count)
	}

	var list services.StudentList
	decodeData(t, env, &list)
	for _, s := range list.Students {
		if s.Role != models.RoleStudent {
			t.Errorf("admin %s listed as student", s.ID)
		}
	}
	for i := 1; i < len(list.Students); i++ {
		if list.Students[i-1].CreatedAt.Before(list.Students[i].CreatedAt) {
			t.Errorf("students not sorted newest first at %d", i)
		}
	}
}

func TestAdminTestReportsCount(t *testing.T) {
	srv := newTestServer(t, fixture.New())

	w := srv.do(t, http.MethodGet, "/api/admin/test", srv.token(t, fixture.SeedAdminID), nil)
	expectStatus(t, w, http.StatusOK)

	var data struct {
		TotalStudents int64 `json:"totalStudents"`
	}
	decodeData(t, decode(t, w), &data)
	if data.TotalStudents != 5 {
		t.Errorf("expected 5 students, got %d", data.TotalStudents)
	}
}

func TestRevenueFollowsToggles(t *testing.T) {
	srv := newTestServer(t, fixture.New())
	admin := srv.token(t, fixture.SeedAdminID)

	stats := financialStats(t, srv, admin)
	if stats.TotalRevenue != 13000 || stats.RevenuePending != 18000 {
		t.Fatalf("unexpected seed stats: %+v", stats)
	}

	w := srv.do(t, http.MethodPatch, "/api/admin/students/mock1", admin, nil)
	expectStatus(t, w, http.StatusOK)
	if env := decode(t, w); env.Message != "Payment status updated successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}

	stats = financialStats(t, srv, admin)
	if stats.TotalRevenue != 18000 || stats.RevenuePending != 13000 {
		t.Errorf("expected 18000/13000 after toggle, got %+v", stats)
	}

	w = srv.do(t, http.MethodPatch, "/api/admin/students/mock1", admin, nil)
	expectStatus(t, w, http.StatusOK)

	var data struct {
		Student models.User `json:"student"`
	}
	decodeData(t, decode(t, w), &data)
	if data.Student.PaymentStatus != models.PaymentPending || data.Student.AmountDue != 5000 {
		t.Errorf("second toggle did not restore the student: %+v", data.Student)
	}
}

func TestToggleErrors(t *testing.T) {
	srv := newTestServer(t, fixture.New())
	admin := srv.token(t, fixture.SeedAdminID)

	tests := []struct {
		name    string
		id      string
		status  int
		message string
	}{
		{"unknown student", "missing", http.StatusNotFound, "Student not found"},
		{"admin target", fixture.SeedAdminID, http.StatusBadRequest, "User is not a student"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPatch, "/api/admin/students/"+tt.id, admin, nil)
			expectStatus(t, w, tt.status)
			if env := decode(t, w); env.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, env.Message)
			}
		})
	}
}

func TestBatchPayment(t *testing.T) {
	tests := []struct {
		name    string
		body    interface{}
		status  int
		count   int
		message string
	}{
		{"marks listed students", map[string]interface{}{"studentIds": []string{"mock1", "mock2", "missing"}}, http.StatusOK, 2, "Payment status updated for 2 students"},
		{"empty list", map[string]interface{}{"studentIds": []string{}}, http.StatusBadRequest, 0, "Please provide an array of student IDs"},
		{"missing list", map[string]interface{}{}, http.StatusBadRequest, 0, "Please provide an array of student IDs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, fixture.New())
			admin := srv.token(t, fixture.SeedAdminID)

			w := srv.do(t, http.MethodPatch, "/api/admin/students/batch-payment", admin, tt.body)
			expectStatus(t, w, tt.status)

			env := decode(t, w)
			if env.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, env.Message)
			}
			if tt.status != http.StatusOK {
				return
			}
			var data struct {
				Count int `json:"count"`
			}
			decodeData(t, env, &data)
			if data.Count != tt.count {
				t.Errorf("expected count %d, got %d", tt.count, data.Count)
			}
		})
	}
}

func TestSetCourseAndClearance(t *testing.T) {
	srv := newTestServer(t, fixture.New())
	admin := srv.token(t, fixture.SeedAdminID)

	w := srv.do(t, http.MethodPatch, "/api/admin/students/mock2/course", admin, map[string]string{
		"enrolledCourse": "Travel & Tourism Management",
	})
	expectStatus(t, w, http.StatusOK)
	if env := decode(t, w); env.Message != "Student course updated successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}

	w = srv.do(t, http.MethodPatch, "/api/admin/students/mock2/course", admin, map[string]string{"enrolledCourse": " "})
	expectStatus(t, w, http.StatusBadRequest)

	w = srv.do(t, http.MethodPatch, "/api/admin/students/mock2/clearance", admin, map[string]bool{"adminClearance": true})
	expectStatus(t, w, http.StatusOK)

	var data struct {
		Student models.User `json:"student"`
	}
	decodeData(t, decode(t, w), &data)
	if !data.Student.AdminClearance || data.Student.EnrolledCourse != "Travel & Tourism Management" {
		t.Errorf("unexpected student after updates: %+v", data.Student)
	}

	w = srv.do(t, http.MethodPatch, "/api/admin/students/mock2/clearance", admin, map[string]string{})
	expectStatus(t, w, http.StatusBadRequest)
}

func TestExportStudents(t *testing.T) {
	srv := newTestServer(t, fixture.New())

	w := srv.do(t, http.MethodGet, "/api/admin/students/export", srv.token(t, fixture.SeedAdminID), nil)
	expectStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "students-") || !strings.HasSuffix(cd, `.xlsx"`) {
		t.Errorf("unexpected content disposition %q", cd)
	}

	f, err := excelize.OpenReader(w.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 6 {
		t.Errorf("expected header plus 5 students, got %d rows", len(rows))
	}
}

func TestDegradedStoreReturns503(t *testing.T) {
	srv := newTestServer(t, downStore{liveStore{fixture.New()}})
	admin := srv.token(t, fixture.SeedAdminID)

	for _, path := range []string{"/api/admin/students", "/api/admin/financial-stats"} {
		t.Run(path, func(t *testing.T) {
			w := srv.do(t, http.MethodGet, path, admin, nil)
			expectStatus(t, w, http.StatusServiceUnavailable)

			env := decode(t, w)
			if !env.Degraded || env.Error != "store_unavailable" {
				t.Errorf("expected degraded body, got %+v", env)
			}
		})
	}

	w := srv.do(t, http.MethodGet, "/api/health", "", nil)
	expectStatus(t, w, http.StatusOK)
	var body HealthResponse
	decodeBody(t, w, &body)
	if body.DBConnected || body.Mode != repositories.ModeDatabase {
		t.Errorf("expected disconnected database mode, got %+v", body)
	}
}
