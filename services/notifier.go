package services

import (
	"context"
	"sync"
	"time"

	"storefront/libs"
	"storefront/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const notifyTimeout = 30 * time.Second

// Notifier sends emails and publishes events in the background. Callers never
// wait and never see failures; those are only logged.
type Notifier struct {
	mailer libs.Mailer
	events libs.EventPublisher
	log    logrus.FieldLogger
	wg     sync.WaitGroup
}

func NewNotifier(mailer libs.Mailer, events libs.EventPublisher, log logrus.FieldLogger) *Notifier {
	if mailer == nil {
		mailer = libs.NopMailer{}
	}
	if events == nil {
		events = libs.NopPublisher{}
	}
	return &Notifier{mailer: mailer, events: events, log: log}
}

type orderEvent struct {
	OrderID        int                  `json:"order_id"`
	OrderNumber    string               `json:"order_number"`
	UserID         int                  `json:"user_id"`
	OrderStatus    models.OrderStatus   `json:"order_status"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	TrackingNumber string               `json:"tracking_number,omitempty"`
	TotalAmount    decimal.Decimal      `json:"total_amount"`
}

func newOrderEvent(o models.Order) orderEvent {
	return orderEvent{
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		OrderStatus:    o.OrderStatus,
		PaymentStatus:  o.PaymentStatus,
		TrackingNumber: o.TrackingNumber,
		TotalAmount:    o.TotalAmount,
	}
}

func (n *Notifier) OrderConfirmed(order models.Order) {
	n.dispatch(libs.EventOrderConfirmed, libs.OrderConfirmationEmail(order), newOrderEvent(order),
		logrus.Fields{"order_id": order.ID})
}

func (n *Notifier) OrderStatusChanged(order models.Order) {
	n.dispatch(libs.EventOrderStatusChanged, libs.OrderStatusEmail(order), newOrderEvent(order),
		logrus.Fields{"order_id": order.ID, "status": order.OrderStatus})
}

func (n *Notifier) Welcome(user models.User) {
	payload := map[string]any{"user_id": user.ID, "email": user.Email}
	n.dispatch(libs.EventUserRegistered, libs.WelcomeEmail(user), payload, logrus.Fields{"user_id": user.ID})
}

// Wait blocks until in-flight notifications finish. Used on shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(kind string, email libs.Email, payload any, fields logrus.Fields) {
	log := n.log.WithFields(fields).WithField("notification", kind)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Notification panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if email.To != "" {
			if err := n.mailer.Send(ctx, email); err != nil {
				log.WithError(err).Error("Failed to send email")
			}
		}

		if err := n.events.Publish(ctx, kind, payload); err != nil {
			log.WithError(err).Error("Failed to publish event")
		}
	}()
}
