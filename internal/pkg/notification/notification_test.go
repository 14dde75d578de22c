package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/shvarc/provider/internal/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []mail.Message
	fail map[string]error
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.sent = append(r.sent, msg)
	if err, ok := r.fail[msg.Subject]; ok {
		return err
	}
	return nil
}

var notice = OrderNotice{
	Reference:    "3f1c",
	PlanName:     "net5",
	FirstName:    "Test",
	LastName:     "Testovich",
	Email:        "test@email.com",
	Phone:        "+380994445566",
	City:         "Kharkiv",
	Street:       "Teststreet",
	HouseNum:     13,
	ApartmentNum: 58,
}

func TestOrderPlacedSendsBothMessages(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, "admin@shvarc.test")

	require.NoError(t, svc.OrderPlaced(context.Background(), notice))
	require.Len(t, sender.sent, 2)

	admin := sender.sent[0]
	assert.Equal(t, []string{"admin@shvarc.test"}, admin.To)
	assert.Equal(t, AdminSubject, admin.Subject)
	assert.Contains(t, admin.Body, "Address: Kharkiv Teststreet 13, apt. 58")
	assert.Contains(t, admin.Body, "Name: Test Testovich")
	assert.Contains(t, admin.Body, "Phone: +380994445566")
	assert.Contains(t, admin.Body, "Plan name: net5")
	assert.Contains(t, admin.Body, "Reference: 3f1c")

	customer := sender.sent[1]
	assert.Equal(t, []string{"test@email.com"}, customer.To)
	assert.Equal(t, CustomerSubject, customer.Subject)
	assert.Contains(t, customer.Body, "Hello, Test.")
}

func TestOrderPlacedAttemptsCustomerMailAfterAdminFailure(t *testing.T) {
	boom := errors.New("smtp down")
	sender := &recordingSender{fail: map[string]error{AdminSubject: boom}}
	svc := NewService(sender, "admin@shvarc.test")

	err := svc.OrderPlaced(context.Background(), notice)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "admin notification")
	assert.Len(t, sender.sent, 2)
}
