package auth_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/rahadianw/siteops/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

type mockAuthRepository struct {
	accounts map[int64]*auth.Account
	nextID   int64

	createError error
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		accounts: make(map[int64]*auth.Account),
		nextID:   1,
	}
}

func (m *mockAuthRepository) FindByLogin(login string) (*auth.Account, error) {
	for _, a := range m.accounts {
		if a.Username == login || a.Email == login {
			copy := *a
			return &copy, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockAuthRepository) FindByID(id int64) (*auth.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copy := *a
	return &copy, nil
}

func (m *mockAuthRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	for _, a := range m.accounts {
		if a.Username == username || a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAuthRepository) Create(account *auth.Account) error {
	if m.createError != nil {
		return m.createError
	}
	account.ID = m.nextID
	m.nextID++
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo    *mockAuthRepository
		service *auth.Service
	)

	registerDTO := func() auth.RegisterDTO {
		return auth.RegisterDTO{
			Username: "jdoe",
			Email:    "jdoe@example.com",
			Password: "secret123",
			Role:     auth.RoleWorker,
			FullName: "Jane Doe",
		}
	}

	BeforeEach(func() {
		repo = newMockAuthRepository()
		tokenGen := auth.NewJWTTokenGenerator("test-secret-at-least-32-characters!", time.Hour)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost, slog.Default())
	})

	Describe("Register", func() {
		It("should create an active account and issue a token", func() {
			// When
			account, token, err := service.Register(registerDTO())

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(account.ID).ToNot(BeZero())
			Expect(account.IsActive).To(BeTrue())
			Expect(account.PasswordHash).ToNot(Equal("secret123"))
			Expect(token).ToNot(BeEmpty())

			claims, err := service.ValidateAccessToken(token)
			Expect(err).ToNot(HaveOccurred())
			Expect(claims.UserID).To(Equal(account.ID))
			Expect(claims.Role).To(Equal(auth.RoleWorker))
		})

		It("should reject a duplicate username or email", func() {
			// Given
			_, _, err := service.Register(registerDTO())
			Expect(err).ToNot(HaveOccurred())

			// When
			_, _, err = service.Register(registerDTO())

			// Then
			Expect(err).To(Equal(auth.ErrDuplicateUser))
		})

		It("should reject a short password", func() {
			// Given
			dto := registerDTO()
			dto.Password = "abc"

			// When
			_, _, err := service.Register(dto)

			// Then
			Expect(err).To(HaveOccurred())
		})

		It("should reject an unknown role", func() {
			// Given
			dto := registerDTO()
			dto.Role = "root"

			// When
			_, _, err := service.Register(dto)

			// Then
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			_, _, err := service.Register(registerDTO())
			Expect(err).ToNot(HaveOccurred())
		})

		It("should accept the username", func() {
			// When
			account, token, err := service.Authenticate(auth.LoginDTO{Username: "jdoe", Password: "secret123"})

			// Then
			Expect(err).ToNot(HaveOccurred())
			Expect(account.Username).To(Equal("jdoe"))
			Expect(token).ToNot(BeEmpty())
		})

		It("should accept the email as login", func() {
			// When
			_, _, err := service.Authenticate(auth.LoginDTO{Username: "jdoe@example.com", Password: "secret123"})

			// Then
			Expect(err).ToNot(HaveOccurred())
		})

		It("should reject a wrong password", func() {
			// When
			_, _, err := service.Authenticate(auth.LoginDTO{Username: "jdoe", Password: "wrong"})

			// Then
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown login", func() {
			// When
			_, _, err := service.Authenticate(auth.LoginDTO{Username: "ghost", Password: "secret123"})

			// Then
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject a deactivated account", func() {
			// Given
			for _, a := range repo.accounts {
				a.IsActive = false
			}

			// When
			_, _, err := service.Authenticate(auth.LoginDTO{Username: "jdoe", Password: "secret123"})

			// Then
			Expect(err).To(Equal(auth.ErrUserInactive))
		})
	})

	Describe("Token validation", func() {
		It("should reject a token signed with another secret", func() {
			// Given
			other := auth.NewJWTTokenGenerator("another-secret-also-32-characters!!", time.Hour)
			token, err := other.GenerateToken(&auth.Account{ID: 1, Username: "jdoe", Role: auth.RoleWorker})
			Expect(err).ToNot(HaveOccurred())

			// When
			_, err = service.ValidateAccessToken(token)

			// Then
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})

		It("should reject an expired token", func() {
			// Given
			expired := auth.NewJWTTokenGenerator("test-secret-at-least-32-characters!", time.Nanosecond)
			token, err := expired.GenerateToken(&auth.Account{ID: 1, Username: "jdoe", Role: auth.RoleWorker})
			Expect(err).ToNot(HaveOccurred())

			// When
			_, err = expired.ValidateToken(token)

			// Then
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("should reject garbage", func() {
			// When
			_, err := service.ValidateAccessToken("not-a-token")

			// Then
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("RBAC", func() {
		It("should let admins do everything", func() {
			Expect(auth.Can(auth.RoleAdmin, auth.CapManageUsers)).To(BeTrue())
			Expect(auth.Can(auth.RoleAdmin, auth.CapViewAuditLogs)).To(BeTrue())
		})

		It("should keep workers out of management capabilities", func() {
			Expect(auth.Can(auth.RoleWorker, auth.CapManageUsers)).To(BeFalse())
			Expect(auth.Can(auth.RoleWorker, auth.CapAssignTasks)).To(BeFalse())
			Expect(auth.Can(auth.RoleWorker, auth.CapViewAuditLogs)).To(BeFalse())
		})

		It("should let supervisors assign tasks but not approve requisitions", func() {
			Expect(auth.Can(auth.RoleSupervisor, auth.CapAssignTasks)).To(BeTrue())
			Expect(auth.Can(auth.RoleSupervisor, auth.CapApproveRequisitions)).To(BeFalse())
		})
	})
})
