package project_test

import (
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rahadianw/siteops/internal"
	"github.com/rahadianw/siteops/internal/auth"
	"github.com/rahadianw/siteops/internal/project"
)

func TestProject(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Suite")
}

type mockProjectRepository struct {
	projects map[int64]*project.Project
	nextID   int64

	lastListFilter project.Filter
	createError    error
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		projects: make(map[int64]*project.Project),
		nextID:   1,
	}
}

func (m *mockProjectRepository) List(filter project.Filter) ([]project.Project, error) {
	m.lastListFilter = filter
	var out []project.Project
	for _, p := range m.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockProjectRepository) FindByID(id int64) (*project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copy := *p
	return &copy, nil
}

func (m *mockProjectRepository) Create(p *project.Project) error {
	if m.createError != nil {
		return m.createError
	}
	p.ID = m.nextID
	m.nextID++
	stored := *p
	m.projects[p.ID] = &stored
	return nil
}

func (m *mockProjectRepository) Update(id int64, changes map[string]interface{}) (*project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	if name, ok := changes["name"].(string); ok {
		p.Name = name
	}
	if status, ok := changes["status"].(string); ok {
		p.Status = status
	}
	copy := *p
	return &copy, nil
}

var _ = Describe("Project Service", func() {
	var (
		repo    *mockProjectRepository
		service *project.Service

		manager *auth.Account
		worker  *auth.Account
	)

	BeforeEach(func() {
		repo = newMockProjectRepository()
		service = project.NewService(repo, slog.Default())

		manager = &auth.Account{ID: 2, Role: auth.RoleManager}
		worker = &auth.Account{ID: 5, Role: auth.RoleWorker}
	})

	Describe("Create", func() {
		It("should default the status and fall back to the creating manager", func() {
			// When
			p, err := service.Create(manager, project.CreateDTO{Name: "Riverside Tower"})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(p.Status).To(Equal(project.StatusActive))
			Expect(p.ManagerID).ToNot(BeNil())
			Expect(*p.ManagerID).To(Equal(manager.ID))
		})

		It("should keep an explicitly named manager", func() {
			// Given
			other := int64(9)

			// When
			p, err := service.Create(manager, project.CreateDTO{Name: "Riverside Tower", ManagerID: &other})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(*p.ManagerID).To(Equal(other))
		})

		It("should reject a missing name", func() {
			// When
			_, err := service.Create(manager, project.CreateDTO{})

			// Then
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject an unknown status", func() {
			// When
			_, err := service.Create(manager, project.CreateDTO{Name: "Riverside Tower", Status: "paused"})

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should propagate repository failures", func() {
			// Given
			repo.createError = errors.New("db down")

			// When
			_, err := service.Create(manager, project.CreateDTO{Name: "Riverside Tower"})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should scope workers to their assigned sites", func() {
			// When
			_, err := service.List(worker, project.Filter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastListFilter.WorkerID).ToNot(BeNil())
			Expect(*repo.lastListFilter.WorkerID).To(Equal(worker.ID))
		})

		It("should leave elevated roles unscoped", func() {
			// When
			_, err := service.List(manager, project.Filter{})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastListFilter.WorkerID).To(BeNil())
		})

		It("should reject an invalid status filter", func() {
			// When
			_, err := service.List(manager, project.Filter{Status: "paused"})

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Get", func() {
		It("should return a not found error for an unknown project", func() {
			// When
			_, err := service.Get(404)

			// Then
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})

	Describe("Update", func() {
		It("should apply status changes", func() {
			// Given
			p, err := service.Create(manager, project.CreateDTO{Name: "Riverside Tower"})
			Expect(err).ToNot(HaveOccurred())

			// When
			status := project.StatusCompleted
			updated, err := service.Update(p.ID, project.UpdateDTO{Status: &status})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Status).To(Equal(project.StatusCompleted))
		})

		It("should reject an empty change set", func() {
			// When
			_, err := service.Update(1, project.UpdateDTO{})

			// Then
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("No fields to update"))
		})

		It("should return a not found error for an unknown project", func() {
			// When
			status := project.StatusCompleted
			_, err := service.Update(404, project.UpdateDTO{Status: &status})

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeNotFound))
		})
	})
})
