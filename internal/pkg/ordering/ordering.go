package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shvarc/provider/app/models"
	"github.com/shvarc/provider/app/repository"
	"github.com/shvarc/provider/internal/pkg/catalog"
	"github.com/shvarc/provider/internal/pkg/notification"
)

var (
	ErrOrderedPlanNotFound = errors.New("ordered plan not found")
	ErrServiceInUse        = errors.New("service already in use")
	ErrCartMissing         = errors.New("customer has no ordered plans list")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrUsernameTaken       = errors.New("username already taken")
)

// Notifier is told about every committed order.
type Notifier interface {
	OrderPlaced(ctx context.Context, notice notification.OrderNotice) error
}

// Profile is the contact data stored on the customer.
type Profile struct {
	Phone        string
	City         string
	Street       string
	HouseNum     int
	ApartmentNum int
}

// Submission is a validated order form.
type Submission struct {
	FirstName string
	LastName  string
	Email     string
	Profile
}

// PlanState tells the plan page which order affordance to show.
type PlanState struct {
	ServiceInUse bool
	IsOrdered    bool
}

// OrderedPlanView is an order line with its plan resolved.
type OrderedPlanView struct {
	Line models.OrderedPlan
	Plan models.Planner
}

// OrderLineView is an order line with its owner. Plan is nil when the
// line points at a plan that no longer exists.
type OrderLineView struct {
	Line     models.OrderedPlan
	Plan     models.Planner
	Customer *models.Customer
}

// Service manages customers, their carts and order lines.
type Service struct {
	repos    *repository.Repositories
	catalog  *catalog.Service
	notifier Notifier
}

func NewService(repos *repository.Repositories, catalog *catalog.Service, notifier Notifier) *Service {
	return &Service{repos: repos, catalog: catalog, notifier: notifier}
}

// Register stores the user together with its customer profile and an empty
// ordered plans list.
func (s *Service) Register(ctx context.Context, user *models.User) (*models.Customer, error) {
	var customer *models.Customer
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.User.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
			}
			return fmt.Errorf("create user: %w", err)
		}

		c, err := s.registerCustomer(ctx, tx, user)
		if err != nil {
			return err
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// RegisterCustomer creates the customer profile and empty ordered plans
// list of an existing user.
func (s *Service) RegisterCustomer(ctx context.Context, user *models.User) (*models.Customer, error) {
	var customer *models.Customer
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		c, err := s.registerCustomer(ctx, tx, user)
		customer = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) registerCustomer(ctx context.Context, tx *repository.Repositories, user *models.User) (*models.Customer, error) {
	customer := &models.Customer{UserID: user.ID}
	if err := tx.Customer.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	if err := tx.Order.CreateList(ctx, &models.OrderedPlansList{OwnerID: customer.ID}); err != nil {
		return nil, fmt.Errorf("create ordered plans list: %w", err)
	}
	customer.User = *user
	return customer, nil
}

// CustomerForUser loads the customer profile of a logged-in user.
func (s *Service) CustomerForUser(ctx context.Context, userID uint) (*models.Customer, error) {
	customer, err := s.repos.Customer.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrCustomerNotFound, userID)
		}
		return nil, fmt.Errorf("get customer of user %d: %w", userID, err)
	}
	return customer, nil
}

// EnsureCustomer returns the customer of a user, creating the profile and
// list for users that were stored without one.
func (s *Service) EnsureCustomer(ctx context.Context, userID uint) (*models.Customer, error) {
	customer, err := s.CustomerForUser(ctx, userID)
	if !errors.Is(err, ErrCustomerNotFound) {
		return customer, err
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	log.Warnf("user %d has no customer profile, creating one", userID)
	return s.RegisterCustomer(ctx, user)
}

// IsServiceInUse reports whether the customer holds any plan of the service.
func (s *Service) IsServiceInUse(ctx context.Context, serviceID uint, customer *models.Customer) (bool, error) {
	inUse, err := s.repos.Order.ExistsForService(ctx, customer.ID, serviceID)
	if err != nil {
		return false, fmt.Errorf("check service %d in use: %w", serviceID, err)
	}
	return inUse, nil
}

// IsOrdered reports whether the customer holds exactly this plan.
func (s *Service) IsOrdered(ctx context.Context, plan models.Planner, customer *models.Customer) (bool, error) {
	_, err := s.repos.Order.FindLine(ctx, customer.ID, models.RefOf(plan))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("check plan %s ordered: %w", models.RefOf(plan), err)
}

// PlanState combines IsServiceInUse and IsOrdered. A nil customer is an
// anonymous visitor and gets the zero state.
func (s *Service) PlanState(ctx context.Context, plan models.Planner, customer *models.Customer) (PlanState, error) {
	if customer == nil {
		return PlanState{}, nil
	}

	inUse, err := s.IsServiceInUse(ctx, plan.Base().ServiceID, customer)
	if err != nil {
		return PlanState{}, err
	}
	if !inUse {
		return PlanState{}, nil
	}

	ordered, err := s.IsOrdered(ctx, plan, customer)
	if err != nil {
		return PlanState{}, err
	}
	return PlanState{ServiceInUse: true, IsOrdered: ordered}, nil
}

// CreateOrderedPlan adds the plan to the customer's list. A customer already
// holding a plan of the same service gets ErrServiceInUse.
func (s *Service) CreateOrderedPlan(ctx context.Context, plan models.Planner, customer *models.Customer) (*models.OrderedPlan, error) {
	return createOrderedPlan(ctx, s.repos, plan, customer)
}

func createOrderedPlan(ctx context.Context, repos *repository.Repositories, plan models.Planner, customer *models.Customer) (*models.OrderedPlan, error) {
	list, err := repos.Order.GetListByOwner(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %d", ErrCartMissing, customer.ID)
		}
		return nil, fmt.Errorf("get ordered plans list: %w", err)
	}

	line := &models.OrderedPlan{
		Reference:     uuid.New(),
		Plan:          models.RefOf(plan),
		ServiceID:     plan.Base().ServiceID,
		OwnerID:       customer.ID,
		RelatedListID: list.ID,
	}
	if err := repos.Order.Create(ctx, line); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: service %d", ErrServiceInUse, line.ServiceID)
		}
		return nil, fmt.Errorf("create ordered plan: %w", err)
	}
	return line, nil
}

// DeleteOrderedPlan removes the customer's order line for the plan.
func (s *Service) DeleteOrderedPlan(ctx context.Context, plan models.Planner, customer *models.Customer) error {
	ref := models.RefOf(plan)
	line, err := s.repos.Order.FindLine(ctx, customer.ID, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderedPlanNotFound, ref)
		}
		return fmt.Errorf("find ordered plan %s: %w", ref, err)
	}

	if err := s.repos.Order.Delete(ctx, line.ID); err != nil {
		return fmt.Errorf("delete ordered plan %s: %w", ref, err)
	}
	return nil
}

// UpdateCustomerProfile overwrites the stored contact data with p.
func (s *Service) UpdateCustomerProfile(ctx context.Context, customer *models.Customer, p Profile) error {
	return updateCustomerProfile(ctx, s.repos, customer, p)
}

func updateCustomerProfile(ctx context.Context, repos *repository.Repositories, customer *models.Customer, p Profile) error {
	updated := *customer
	updated.Phone = p.Phone
	updated.City = p.City
	updated.Street = p.Street
	updated.HouseNum = p.HouseNum
	updated.ApartmentNum = p.ApartmentNum

	if err := repos.Customer.UpdateProfile(ctx, &updated); err != nil {
		return fmt.Errorf("update customer %d profile: %w", customer.ID, err)
	}
	*customer = updated
	return nil
}

// SubmitOrder stores the submitted profile and the order line in one
// transaction, then notifies admin and customer. Notification failures are
// logged and do not fail the order.
func (s *Service) SubmitOrder(ctx context.Context, plan models.Planner, customer *models.Customer, sub Submission) (*models.OrderedPlan, error) {
	var line *models.OrderedPlan
	updated := *customer
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := updateCustomerProfile(ctx, tx, &updated, sub.Profile); err != nil {
			return err
		}
		l, err := createOrderedPlan(ctx, tx, plan, &updated)
		if err != nil {
			return err
		}
		line = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	*customer = updated

	if s.notifier != nil {
		notice := notification.OrderNotice{
			Reference:    line.Reference.String(),
			PlanName:     plan.Base().Name,
			FirstName:    sub.FirstName,
			LastName:     sub.LastName,
			Email:        sub.Email,
			Phone:        sub.Phone,
			City:         sub.City,
			Street:       sub.Street,
			HouseNum:     sub.HouseNum,
			ApartmentNum: sub.ApartmentNum,
		}
		if err := s.notifier.OrderPlaced(ctx, notice); err != nil {
			log.Errorf("order %s: notification failed: %v", line.Reference, err)
		}
	}

	return line, nil
}

// OrderedPlans lists the customer's order lines with their plans. Lines
// whose plan no longer exists are skipped.
func (s *Service) OrderedPlans(ctx context.Context, customer *models.Customer) ([]OrderedPlanView, error) {
	lines, err := s.repos.Order.ListByOwner(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("list ordered plans: %w", err)
	}

	views := make([]OrderedPlanView, 0, len(lines))
	for _, line := range lines {
		plan, err := s.catalog.ResolvePlan(ctx, line.Plan)
		if err != nil {
			if errors.Is(err, catalog.ErrPlanNotFound) {
				log.Warnf("ordered plan %s points at missing plan %s", line.Reference, line.Plan)
				continue
			}
			return nil, err
		}
		views = append(views, OrderedPlanView{Line: line, Plan: plan})
	}
	return views, nil
}

// AllOrderLines lists the order lines of every customer, newest first.
func (s *Service) AllOrderLines(ctx context.Context) ([]OrderLineView, error) {
	lines, err := s.repos.Order.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}

	customers := make(map[uint]*models.Customer)
	views := make([]OrderLineView, 0, len(lines))
	for _, line := range lines {
		customer, ok := customers[line.OwnerID]
		if !ok {
			customer, err = s.repos.Customer.GetByID(ctx, line.OwnerID)
			if err != nil {
				return nil, fmt.Errorf("owner of order line %s: %w", line.Reference, err)
			}
			customers[line.OwnerID] = customer
		}

		plan, err := s.catalog.ResolvePlan(ctx, line.Plan)
		if err != nil && !errors.Is(err, catalog.ErrPlanNotFound) {
			return nil, err
		}
		views = append(views, OrderLineView{Line: line, Plan: plan, Customer: customer})
	}
	return views, nil
}
