package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/attendance"
)

func TestAttendanceRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AttendanceRepository Suite")
}

type SQLiteUser struct {
	ID       int64  `gorm:"primaryKey"`
	FullName string `gorm:"column:full_name;not null"`
	Role     string `gorm:"not null"`
}

func (SQLiteUser) TableName() string {
	return "users"
}

type SQLiteSite struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (SQLiteSite) TableName() string {
	return "sites"
}

type SQLiteAttendance struct {
	ID             int64      `gorm:"primaryKey"`
	UserID         int64      `gorm:"column:user_id;not null;uniqueIndex:idx_user_date_site"`
	SiteID         int64      `gorm:"column:site_id;not null;uniqueIndex:idx_user_date_site"`
	AttendanceDate string     `gorm:"column:attendance_date;not null;uniqueIndex:idx_user_date_site"`
	ClockIn        *time.Time `gorm:"column:clock_in"`
	ClockOut       *time.Time `gorm:"column:clock_out"`
	HoursWorked    *float64   `gorm:"column:hours_worked"`
	Status         string     `gorm:"default:present"`
	Notes          *string
	MarkedBy       *int64     `gorm:"column:marked_by"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at"`
}

func (SQLiteAttendance) TableName() string {
	return "attendance"
}

type SQLiteLeaveRequest struct {
	ID         int64  `gorm:"primaryKey"`
	UserID     int64  `gorm:"column:user_id;not null"`
	LeaveType  string `gorm:"column:leave_type;not null"`
	StartDate  string `gorm:"column:start_date;not null"`
	EndDate    string `gorm:"column:end_date;not null"`
	Reason     string `gorm:"not null"`
	Status     string `gorm:"default:pending"`
	ApprovedBy *int64 `gorm:"column:approved_by"`
	ApprovedAt *time.Time `gorm:"column:approved_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  *time.Time `gorm:"column:updated_at"`
}

func (SQLiteLeaveRequest) TableName() string {
	return "leave_requests"
}

var _ = Describe("AttendanceRepository", func() {
	var (
		db   *gorm.DB
		repo attendance.Repository

		day internal.Date
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteUser{}, &SQLiteSite{}, &SQLiteAttendance{}, &SQLiteLeaveRequest{})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&SQLiteUser{ID: 1, FullName: "Alice Admin", Role: "admin"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&SQLiteUser{ID: 2, FullName: "Wendy Worker", Role: "worker"}).Error).NotTo(HaveOccurred())
		Expect(db.Create(&SQLiteSite{ID: 10, Name: "Tower A Foundation"}).Error).NotTo(HaveOccurred())

		day, err = internal.ParseDate("2025-03-10")
		Expect(err).NotTo(HaveOccurred())

		repo = NewAttendanceRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("FindForDay", func() {
		It("should return nil when the day has no record", func() {
			a, err := repo.FindForDay(2, 10, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(BeNil())
		})

		It("should find the created record", func() {
			clockIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
			created := &attendance.Attendance{
				UserID:         2,
				SiteID:         10,
				AttendanceDate: day,
				ClockIn:        &clockIn,
				Status:         attendance.StatusPresent,
			}
			Expect(repo.Create(created)).To(Succeed())

			a, err := repo.FindForDay(2, 10, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).NotTo(BeNil())
			Expect(a.ID).To(Equal(created.ID))
			Expect(a.Status).To(Equal(attendance.StatusPresent))
			Expect(a.ClockIn).NotTo(BeNil())
		})
	})

	Describe("Mark", func() {
		It("should insert a fresh record", func() {
			markedBy := int64(1)
			a := &attendance.Attendance{
				UserID:         2,
				SiteID:         10,
				AttendanceDate: day,
				Status:         attendance.StatusAbsent,
				MarkedBy:       &markedBy,
			}
			Expect(repo.Mark(a)).To(Succeed())
			Expect(a.ID).To(BeNumerically(">", 0))
		})

		It("should overwrite the same day instead of duplicating it", func() {
			markedBy := int64(1)
			first := &attendance.Attendance{
				UserID:         2,
				SiteID:         10,
				AttendanceDate: day,
				Status:         attendance.StatusAbsent,
				MarkedBy:       &markedBy,
			}
			Expect(repo.Mark(first)).To(Succeed())

			second := &attendance.Attendance{
				UserID:         2,
				SiteID:         10,
				AttendanceDate: day,
				Status:         attendance.StatusLate,
				MarkedBy:       &markedBy,
			}
			Expect(repo.Mark(second)).To(Succeed())

			var count int64
			Expect(db.Model(&SQLiteAttendance{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			a, err := repo.FindForDay(2, 10, day)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Status).To(Equal(attendance.StatusLate))
		})
	})

	Describe("Update", func() {
		It("should apply clock-out changes", func() {
			clockIn := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
			a := &attendance.Attendance{
				UserID:         2,
				SiteID:         10,
				AttendanceDate: day,
				ClockIn:        &clockIn,
				Status:         attendance.StatusPresent,
			}
			Expect(repo.Create(a)).To(Succeed())

			clockOut := clockIn.Add(8 * time.Hour)
			updated, err := repo.Update(a.ID, map[string]interface{}{
				"clock_out":    clockOut,
				"hours_worked": 8.0,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ClockOut).NotTo(BeNil())
			Expect(updated.HoursWorked).NotTo(BeNil())
			Expect(*updated.HoursWorked).To(BeNumerically("~", 8.0, 0.001))
		})
	})

	Describe("List", func() {
		It("should resolve joined user and site names", func() {
			a := &attendance.Attendance{
				UserID:         2,
				SiteID:         10,
				AttendanceDate: day,
				Status:         attendance.StatusPresent,
			}
			Expect(repo.Create(a)).To(Succeed())

			userID := int64(2)
			list, err := repo.List(attendance.Filter{UserID: &userID})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].UserName).NotTo(BeNil())
			Expect(*list[0].UserName).To(Equal("Wendy Worker"))
			Expect(list[0].SiteName).NotTo(BeNil())
			Expect(*list[0].SiteName).To(Equal("Tower A Foundation"))
		})

		It("should filter by date range", func() {
			other, err := internal.ParseDate("2025-03-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.Create(&attendance.Attendance{
				UserID: 2, SiteID: 10, AttendanceDate: day, Status: attendance.StatusPresent,
			})).To(Succeed())
			Expect(repo.Create(&attendance.Attendance{
				UserID: 2, SiteID: 10, AttendanceDate: other, Status: attendance.StatusPresent,
			})).To(Succeed())

			start, err := internal.ParseDate("2025-03-05")
			Expect(err).NotTo(HaveOccurred())
			end, err := internal.ParseDate("2025-03-15")
			Expect(err).NotTo(HaveOccurred())

			list, err := repo.List(attendance.Filter{StartDate: &start, EndDate: &end})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})
	})

	Describe("Leave requests", func() {
		It("should create and decide a request", func() {
			start, err := internal.ParseDate("2025-03-17")
			Expect(err).NotTo(HaveOccurred())
			end, err := internal.ParseDate("2025-03-19")
			Expect(err).NotTo(HaveOccurred())

			lr := &attendance.LeaveRequest{
				UserID:    2,
				LeaveType: attendance.LeaveSick,
				StartDate: start,
				EndDate:   end,
				Reason:    "flu",
				Status:    attendance.LeavePending,
			}
			Expect(repo.CreateLeaveRequest(lr)).To(Succeed())
			Expect(lr.ID).To(BeNumerically(">", 0))

			decided, err := repo.DecideLeaveRequest(lr.ID, attendance.LeaveApproved, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.Status).To(Equal(attendance.LeaveApproved))
			Expect(decided.ApprovedBy).NotTo(BeNil())
			Expect(*decided.ApprovedBy).To(Equal(int64(1)))
			Expect(decided.ApprovedAt).NotTo(BeNil())
		})

		It("should return nil for an unknown request", func() {
			decided, err := repo.DecideLeaveRequest(404, attendance.LeaveApproved, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(decided).To(BeNil())
		})
	})

	Describe("AdminManagerIDs", func() {
		It("should only return admins and managers", func() {
			ids, err := repo.AdminManagerIDs()
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(int64(1)))
		})
	})
})
