package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahadianw/siteops/internal/notification"
)

func TestNotificationRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "NotificationRepository Suite")
}

type SQLiteNotification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Title     string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	Type      string    `gorm:"not null"`
	IsRead    bool      `gorm:"column:is_read;default:false"`
	RelatedID *int64    `gorm:"column:related_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLiteNotification) TableName() string {
	return "notifications"
}

var _ = Describe("NotificationRepository", func() {
	var (
		db   *gorm.DB
		repo notification.Repository
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteNotification{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewNotificationRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	seed := func(userID int64, title string, read bool) *notification.Notification {
		n := &notification.Notification{
			UserID:  userID,
			Title:   title,
			Message: "message",
			Type:    notification.TypeSystem,
			IsRead:  read,
		}
		Expect(repo.Create(n)).To(Succeed())
		return n
	}

	Describe("ListForUser", func() {
		It("should only return the user's notifications", func() {
			seed(1, "mine", false)
			seed(2, "theirs", false)

			list, err := repo.ListForUser(1, notification.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Title).To(Equal("mine"))
		})

		It("should filter by read state", func() {
			seed(1, "unread", false)
			seed(1, "read", true)

			unread := false
			list, err := repo.ListForUser(1, notification.Filter{IsRead: &unread})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Title).To(Equal("unread"))
		})
	})

	Describe("UnreadCount", func() {
		It("should count only unread rows", func() {
			seed(1, "a", false)
			seed(1, "b", false)
			seed(1, "c", true)
			seed(2, "d", false)

			count, err := repo.UnreadCount(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})
	})

	Describe("MarkRead", func() {
		It("should mark the user's own notification", func() {
			n := seed(1, "a", false)

			ok, err := repo.MarkRead(n.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			count, err := repo.UnreadCount(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("should not touch another user's notification", func() {
			n := seed(1, "a", false)

			ok, err := repo.MarkRead(n.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			count, err := repo.UnreadCount(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("MarkAllRead", func() {
		It("should clear the user's unread backlog", func() {
			seed(1, "a", false)
			seed(1, "b", false)
			seed(2, "c", false)

			Expect(repo.MarkAllRead(1)).To(Succeed())

			count, err := repo.UnreadCount(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			other, err := repo.UnreadCount(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(other).To(Equal(int64(1)))
		})
	})

	Describe("Delete", func() {
		It("should delete the user's own notification", func() {
			n := seed(1, "a", false)

			ok, err := repo.Delete(n.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			list, err := repo.ListForUser(1, notification.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("should refuse to delete across users", func() {
			n := seed(1, "a", false)

			ok, err := repo.Delete(n.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
