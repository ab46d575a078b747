package report_test

import (
	"bytes"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/report"
	"github.com/rahadianw/siteops/internal/task"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

type mockReportRepository struct {
	overview     report.Overview
	activities   []task.DailyActivity
	summaryRows  []report.AttendanceSummaryRow
	progressRows []report.TaskProgressRow
	usageRows    []report.MaterialUsageRow
	statusRows   []report.EquipmentStatusRow

	lastScope        report.TaskScope
	lastFeedUserID   *int64
	lastFeedLimit    int
	lastUsageFilter  report.UsageFilter
	lastSummaryCalls int
}

func (m *mockReportRepository) Overview(scope report.TaskScope) (*report.Overview, error) {
	m.lastScope = scope
	copy := m.overview
	return &copy, nil
}

func (m *mockReportRepository) TodayActivities(userID *int64, limit int) ([]task.DailyActivity, error) {
	m.lastFeedUserID = userID
	m.lastFeedLimit = limit
	return m.activities, nil
}

func (m *mockReportRepository) TaskProgress(filter report.ProgressFilter) ([]report.TaskProgressRow, error) {
	return m.progressRows, nil
}

func (m *mockReportRepository) MaterialUsage(filter report.UsageFilter) ([]report.MaterialUsageRow, error) {
	m.lastUsageFilter = filter
	return m.usageRows, nil
}

func (m *mockReportRepository) AttendanceSummary(filter report.SummaryFilter) ([]report.AttendanceSummaryRow, error) {
	m.lastSummaryCalls++
	return m.summaryRows, nil
}

func (m *mockReportRepository) EquipmentStatus() ([]report.EquipmentStatusRow, error) {
	return m.statusRows, nil
}

var _ = Describe("Report Service", func() {
	var (
		repo    *mockReportRepository
		service *report.Service

		admin      *auth.Account
		supervisor *auth.Account
		worker     *auth.Account
	)

	BeforeEach(func() {
		repo = &mockReportRepository{
			overview: report.Overview{ActiveProjects: 2, PendingTasks: 5, PresentToday: 7},
		}
		service = report.NewService(repo, slog.Default())

		admin = &auth.Account{ID: 1, Username: "admin", Role: auth.RoleAdmin}
		supervisor = &auth.Account{ID: 3, Username: "supervisor", Role: auth.RoleSupervisor}
		worker = &auth.Account{ID: 2, Username: "worker", Role: auth.RoleWorker}
	})

	Describe("Dashboard", func() {
		It("should give admins an unscoped overview with a capped feed", func() {
			// When
			d, err := service.Dashboard(admin)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(d.Overview.ActiveProjects).To(Equal(int64(2)))
			Expect(repo.lastScope.AssignedTo).To(BeNil())
			Expect(repo.lastScope.SupervisorID).To(BeNil())
			Expect(repo.lastFeedUserID).To(BeNil())
			Expect(repo.lastFeedLimit).To(Equal(10))
		})

		It("should scope workers to their own tasks and activities", func() {
			// When
			_, err := service.Dashboard(worker)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastScope.AssignedTo).ToNot(BeNil())
			Expect(*repo.lastScope.AssignedTo).To(Equal(worker.ID))
			Expect(repo.lastFeedUserID).ToNot(BeNil())
			Expect(*repo.lastFeedUserID).To(Equal(worker.ID))
			Expect(repo.lastFeedLimit).To(Equal(0))
		})

		It("should scope supervisors to their sites", func() {
			// When
			_, err := service.Dashboard(supervisor)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastScope.SupervisorID).ToNot(BeNil())
			Expect(*repo.lastScope.SupervisorID).To(Equal(supervisor.ID))
			Expect(repo.lastFeedLimit).To(Equal(10))
		})
	})

	Describe("MaterialUsage", func() {
		It("should require a site", func() {
			// When
			_, err := service.MaterialUsage(report.UsageFilter{})

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should pass the filter through", func() {
			// When
			_, err := service.MaterialUsage(report.UsageFilter{SiteID: 10})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastUsageFilter.SiteID).To(Equal(int64(10)))
		})
	})

	Describe("ExportAttendanceSummary", func() {
		It("should write an XLSX workbook", func() {
			// Given
			hours := 42.5
			repo.summaryRows = []report.AttendanceSummaryRow{
				{UserID: 2, FullName: "Jane Doe", PresentDays: 5, AbsentDays: 1, LateDays: 0, TotalHours: &hours},
				{UserID: 4, FullName: "John Smith", PresentDays: 4, AbsentDays: 2, LateDays: 1, TotalHours: nil},
			}
			var buf bytes.Buffer

			// When
			err := service.ExportAttendanceSummary(report.SummaryFilter{}, &buf)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastSummaryCalls).To(Equal(1))
			// XLSX is a zip container
			Expect(buf.Len()).To(BeNumerically(">", 4))
			Expect(buf.Bytes()[:2]).To(Equal([]byte("PK")))
		})

		It("should write a workbook even with no rows", func() {
			// Given
			var buf bytes.Buffer

			// When
			err := service.ExportAttendanceSummary(report.SummaryFilter{}, &buf)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(buf.Bytes()[:2]).To(Equal([]byte("PK")))
		})
	})
})
