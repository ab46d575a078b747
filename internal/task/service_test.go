package task_test

import (
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/notification"
	"github.com/rahadianw/siteops/internal/task"
)

func TestTask(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Task Suite")
}

type mockTaskRepository struct {
	tasks      map[int64]*task.Task
	updates    map[int64][]task.Update
	activities []task.DailyActivity
	nextID     int64

	lastNotification   *notification.Notification
	lastCompleteParent bool
	lastListFilter     task.Filter
	lastActivityFilter task.ActivityFilter

	createError error
	updateError error
	appendError error
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:   make(map[int64]*task.Task),
		updates: make(map[int64][]task.Update),
		nextID:  1,
	}
}

func (m *mockTaskRepository) List(filter task.Filter) ([]task.Task, error) {
	m.lastListFilter = filter
	var out []task.Task
	for _, t := range m.tasks {
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTaskRepository) FindByID(id int64) (*task.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copy := *t
	return &copy, nil
}

func (m *mockTaskRepository) ListUpdates(taskID int64) ([]task.Update, error) {
	return m.updates[taskID], nil
}

func (m *mockTaskRepository) Create(t *task.Task, notify *notification.Notification) error {
	if m.createError != nil {
		return m.createError
	}
	t.ID = m.nextID
	m.nextID++
	stored := *t
	m.tasks[t.ID] = &stored
	m.lastNotification = notify
	return nil
}

func (m *mockTaskRepository) Update(id int64, changes map[string]interface{}) (*task.Task, error) {
	if m.updateError != nil {
		return nil, m.updateError
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	if v, ok := changes["title"]; ok {
		t.Title = v.(string)
	}
	if v, ok := changes["status"]; ok {
		t.Status = v.(string)
	}
	if v, ok := changes["priority"]; ok {
		t.Priority = v.(string)
	}
	if v, ok := changes["assigned_to"]; ok {
		t.AssignedTo = v.(int64)
	}
	copy := *t
	return &copy, nil
}

func (m *mockTaskRepository) AppendUpdate(u *task.Update, completeParent bool) error {
	if m.appendError != nil {
		return m.appendError
	}
	u.ID = m.nextID
	m.nextID++
	m.updates[u.TaskID] = append(m.updates[u.TaskID], *u)
	m.lastCompleteParent = completeParent
	if completeParent {
		if t, ok := m.tasks[u.TaskID]; ok {
			t.Status = task.StatusCompleted
		}
	}
	return nil
}

func (m *mockTaskRepository) ListDailyActivities(filter task.ActivityFilter) ([]task.DailyActivity, error) {
	m.lastActivityFilter = filter
	return m.activities, nil
}

func (m *mockTaskRepository) CreateDailyActivity(a *task.DailyActivity) error {
	a.ID = m.nextID
	m.nextID++
	m.activities = append(m.activities, *a)
	return nil
}

var _ = Describe("Task Service", func() {
	var (
		repo    *mockTaskRepository
		service *task.Service

		manager *auth.Account
		worker  *auth.Account
	)

	BeforeEach(func() {
		repo = newMockTaskRepository()
		service = task.NewService(repo, slog.Default())

		manager = &auth.Account{ID: 1, Username: "manager", Role: auth.RoleManager}
		worker = &auth.Account{ID: 2, Username: "worker", Role: auth.RoleWorker}
	})

	Describe("Create", func() {
		It("should create a pending task and notify the assignee", func() {
			// Given
			dto := task.CreateDTO{
				SiteID:     10,
				Title:      "Pour foundation slab",
				AssignedTo: worker.ID,
			}

			// When
			created, err := service.Create(manager, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(created.ID).ToNot(BeZero())
			Expect(created.Status).To(Equal(task.StatusPending))
			Expect(created.Priority).To(Equal(task.PriorityMedium))
			Expect(created.AssignedBy).To(Equal(manager.ID))

			Expect(repo.lastNotification).ToNot(BeNil())
			Expect(repo.lastNotification.UserID).To(Equal(worker.ID))
			Expect(repo.lastNotification.Title).To(Equal("New Task Assigned"))
			Expect(repo.lastNotification.Message).To(Equal("You have been assigned a new task: Pour foundation slab"))
			Expect(repo.lastNotification.Type).To(Equal(notification.TypeTask))
		})

		It("should reject a task without a title", func() {
			// Given
			dto := task.CreateDTO{SiteID: 10, AssignedTo: worker.ID}

			// When
			_, err := service.Create(manager, dto)

			// Then
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an invalid priority", func() {
			// Given
			dto := task.CreateDTO{SiteID: 10, Title: "Inspect scaffolding", AssignedTo: worker.ID, Priority: "extreme"}

			// When
			_, err := service.Create(manager, dto)

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should propagate repository failures", func() {
			// Given
			repo.createError = errors.New("connection refused")
			dto := task.CreateDTO{SiteID: 10, Title: "Pour foundation slab", AssignedTo: worker.ID}

			// When
			_, err := service.Create(manager, dto)

			// Then
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("connection refused"))
		})
	})

	Describe("List", func() {
		It("should scope workers to their own tasks", func() {
			// When
			_, err := service.List(worker, task.Filter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastListFilter.AssignedTo).ToNot(BeNil())
			Expect(*repo.lastListFilter.AssignedTo).To(Equal(worker.ID))
		})

		It("should not scope elevated roles", func() {
			// When
			_, err := service.List(manager, task.Filter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastListFilter.AssignedTo).To(BeNil())
		})

		It("should reject an invalid status filter", func() {
			// When
			_, err := service.List(manager, task.Filter{Status: "stalled"})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		var existing *task.Task

		BeforeEach(func() {
			created, err := service.Create(manager, task.CreateDTO{
				SiteID:     10,
				Title:      "Install rebar",
				AssignedTo: worker.ID,
			})
			Expect(err).ToNot(HaveOccurred())
			existing = created
		})

		It("should let the assignee update status", func() {
			// Given
			status := task.StatusInProgress

			// When
			updated, err := service.Update(worker, existing.ID, task.UpdateDTO{Status: &status})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(task.StatusInProgress))
		})

		It("should forbid a worker updating someone else's task", func() {
			// Given
			other := &auth.Account{ID: 99, Role: auth.RoleWorker}
			status := task.StatusInProgress

			// When
			_, err := service.Update(other, existing.ID, task.UpdateDTO{Status: &status})

			// Then
			Expect(err).To(Equal(internal.ErrInsufficientPermissions))
		})

		It("should silently skip reassignment for non-elevated actors", func() {
			// Given
			newAssignee := int64(99)
			status := task.StatusInProgress

			// When
			updated, err := service.Update(worker, existing.ID, task.UpdateDTO{
				Status:     &status,
				AssignedTo: &newAssignee,
			})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.AssignedTo).To(Equal(worker.ID))
		})

		It("should allow reassignment by elevated roles", func() {
			// Given
			newAssignee := int64(99)

			// When
			updated, err := service.Update(manager, existing.ID, task.UpdateDTO{AssignedTo: &newAssignee})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.AssignedTo).To(Equal(newAssignee))
		})

		It("should reject an empty change set", func() {
			// When
			_, err := service.Update(manager, existing.ID, task.UpdateDTO{})

			// Then
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("No fields to update"))
		})

		It("should return not found for an unknown task", func() {
			// Given
			status := task.StatusInProgress

			// When
			_, err := service.Update(manager, 404, task.UpdateDTO{Status: &status})

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("AddProgress", func() {
		var existing *task.Task

		BeforeEach(func() {
			created, err := service.Create(manager, task.CreateDTO{
				SiteID:     10,
				Title:      "Install rebar",
				AssignedTo: worker.ID,
			})
			Expect(err).ToNot(HaveOccurred())
			existing = created
		})

		It("should append a progress update", func() {
			// Given
			notes := "half of the grid tied"
			dto := task.ProgressDTO{ProgressPercentage: 50, Notes: &notes}

			// When
			update, err := service.AddProgress(worker, existing.ID, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(update.TaskID).To(Equal(existing.ID))
			Expect(update.UpdatedBy).To(Equal(worker.ID))
			Expect(repo.lastCompleteParent).To(BeFalse())
		})

		It("should complete the parent task at 100 percent", func() {
			// When
			_, err := service.AddProgress(worker, existing.ID, task.ProgressDTO{ProgressPercentage: 100})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastCompleteParent).To(BeTrue())
			Expect(repo.tasks[existing.ID].Status).To(Equal(task.StatusCompleted))
		})

		It("should reject progress outside 0..100", func() {
			// When
			_, err := service.AddProgress(worker, existing.ID, task.ProgressDTO{ProgressPercentage: 120})

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should forbid workers reporting on tasks they do not own", func() {
			// Given
			other := &auth.Account{ID: 99, Role: auth.RoleWorker}

			// When
			_, err := service.AddProgress(other, existing.ID, task.ProgressDTO{ProgressPercentage: 10})

			// Then
			Expect(err).To(Equal(internal.ErrInsufficientPermissions))
		})
	})

	Describe("Daily activities", func() {
		It("should default the listing to today and scope workers", func() {
			// When
			_, err := service.ListDailyActivities(worker, task.ActivityFilter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastActivityFilter.ActivityDate).ToNot(BeNil())
			Expect(repo.lastActivityFilter.UserID).ToNot(BeNil())
			Expect(*repo.lastActivityFilter.UserID).To(Equal(worker.ID))
		})

		It("should record an activity for the actor", func() {
			// Given
			hours := 7.5
			dto := task.ActivityDTO{SiteID: 10, Description: "formwork stripped on level 2", HoursWorked: &hours}

			// When
			activity, err := service.CreateDailyActivity(worker, dto)

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(activity.UserID).To(Equal(worker.ID))
			Expect(activity.ActivityDate).ToNot(BeZero())
		})

		It("should reject an activity without a description", func() {
			// When
			_, err := service.CreateDailyActivity(worker, task.ActivityDTO{SiteID: 10})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})
})
