package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fleetbook/internal/db"
	"fleetbook/internal/repository"
)

// NotifyService fans booking events out to the owners' registered
// channels. Everything here is best-effort: sends run off the request
// goroutine and failures are logged, never returned.
type NotifyService struct {
	users   repository.UserRepository
	devices repository.DeviceRepository
	email   EmailSender
	sms     SMSSender
	push    PushSender
}

func NewNotifyService(users repository.UserRepository, devices repository.DeviceRepository,
	email EmailSender, sms SMSSender, push PushSender) *NotifyService {
	return &NotifyService{users: users, devices: devices, email: email, sms: sms, push: push}
}

func (n *NotifyService) BookingRequested(b *db.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		admins, err := n.users.ListAdminIDs(ctx)
		if err != nil {
			logrus.WithError(err).Warn("notify: could not resolve admins")
			return
		}
		body := fmt.Sprintf("Booking requested for %s - %s",
			b.StartsAt.Format("02 Jan 15:04"), b.EndsAt.Format("02 Jan 15:04"))
		n.dispatch(ctx, admins, "New booking request", body, map[string]string{
			"booking_id": b.ID.String(),
			"vehicle_id": b.VehicleID.String(),
		})
	}()
}

func (n *NotifyService) BookingStatusChanged(b *db.Booking, from, to db.BookingStatus) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var title, body string
		switch to {
		case db.BookingApproved:
			title, body = "Booking approved", "Your booking request has been approved."
		case db.BookingCanceled:
			title, body = "Booking canceled", "Your booking has been canceled."
		case db.BookingCompleted:
			title, body = "Booking completed", "Your booking has been completed."
		default:
			title, body = "Booking updated", fmt.Sprintf("Status: %s", to)
		}
		n.dispatch(ctx, []uuid.UUID{b.UserID}, title, body, map[string]string{
			"booking_id": b.ID.String(),
			"from":       string(from),
			"to":         string(to),
		})
	}()
}

// dispatch resolves contact details and device tokens for the recipients
// and pushes through every configured channel.
func (n *NotifyService) dispatch(ctx context.Context, userIDs []uuid.UUID, title, body string, data map[string]string) {
	if len(userIDs) == 0 {
		return
	}

	users, err := n.users.ContactsForUsers(ctx, userIDs)
	if err != nil {
		logrus.WithError(err).Warn("notify: could not resolve recipients")
		users = nil
	}
	for _, u := range users {
		if err := n.email.SendEmail(u.Email, u.FullName, title, body); err != nil {
			logrus.WithError(err).WithField("user", u.ID).Warn("notify: email failed")
		}
		if u.Phone != "" {
			if err := n.sms.SendSMS(u.Phone, title+": "+body); err != nil {
				logrus.WithError(err).WithField("user", u.ID).Warn("notify: sms failed")
			}
		}
	}

	tokens, err := n.devices.TokensForUsers(ctx, userIDs)
	if err != nil {
		logrus.WithError(err).Warn("notify: could not resolve device tokens")
		return
	}
	if len(tokens) == 0 {
		return
	}
	if err := n.push.SendPush(tokens, title, body, data); err != nil {
		logrus.WithError(err).Warn("notify: push failed")
	}
}
