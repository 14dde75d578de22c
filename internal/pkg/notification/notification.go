package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shvarc/provider/internal/pkg/mail"
)

const (
	AdminSubject    = "New order request"
	CustomerSubject = "Order Plan in Shvarc"
)

// OrderNotice carries the submitted order data both messages are built from.
type OrderNotice struct {
	Reference    string
	PlanName     string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	City         string
	Street       string
	HouseNum     int
	ApartmentNum int
}

func (n OrderNotice) address() string {
	addr := fmt.Sprintf("%s %s %d", n.City, n.Street, n.HouseNum)
	if n.ApartmentNum > 0 {
		addr += fmt.Sprintf(", apt. %d", n.ApartmentNum)
	}
	return addr
}

// Service sends order notifications to the shop admin and the customer.
type Service struct {
	sender     mail.Sender
	adminEmail string
}

func NewService(sender mail.Sender, adminEmail string) *Service {
	return &Service{sender: sender, adminEmail: adminEmail}
}

// AdminOrderMessage is sent to the fixed admin address.
func (s *Service) AdminOrderMessage(n OrderNotice) mail.Message {
	var b strings.Builder
	b.WriteString("New order request was sent!\n")
	fmt.Fprintf(&b, "Address: %s\n", n.address())
	fmt.Fprintf(&b, "Name: %s %s\n", n.FirstName, n.LastName)
	fmt.Fprintf(&b, "Phone: %s\n", n.Phone)
	fmt.Fprintf(&b, "Plan name: %s\n", n.PlanName)
	fmt.Fprintf(&b, "Reference: %s\n", n.Reference)

	return mail.Message{To: []string{s.adminEmail}, Subject: AdminSubject, Body: b.String()}
}

// CustomerOrderMessage acknowledges the order to the submitted email.
func (s *Service) CustomerOrderMessage(n OrderNotice) mail.Message {
	body := fmt.Sprintf("Hello, %s.\n"+
		"Your order for %q was sent to our manager, we will contact you soon.\n"+
		"Order reference: %s\n"+
		"Good day!\n", n.FirstName, n.PlanName, n.Reference)

	return mail.Message{To: []string{n.Email}, Subject: CustomerSubject, Body: body}
}

// OrderPlaced sends both messages. Both are attempted; the returned error
// joins every failed send.
func (s *Service) OrderPlaced(ctx context.Context, n OrderNotice) error {
	var errs []error
	if err := s.sender.Send(ctx, s.AdminOrderMessage(n)); err != nil {
		errs = append(errs, fmt.Errorf("admin notification: %w", err))
	}
	if err := s.sender.Send(ctx, s.CustomerOrderMessage(n)); err != nil {
		errs = append(errs, fmt.Errorf("customer notification: %w", err))
	}
	return errors.Join(errs...)
}
