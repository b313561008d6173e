package services

import (
	"bytes"
	"context"
	"html/template"

	"github.com/sirupsen/logrus"
	"github.com/staybook/hotel-reservation-backend/internal/models"
	"github.com/staybook/hotel-reservation-backend/pkg/mailer"
)

// Notifier sends best-effort notifications. Implementations log failures
// and never return them.
type Notifier interface {
	Welcome(ctx context.Context, user *models.User)
	ReservationCreated(ctx context.Context, reservation *models.Reservation)
	ReservationCancelled(ctx context.Context, reservation *models.Reservation)
}

var (
	welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h1>Welcome {{.FirstName}}!</h1>
<p>Thank you for registering with StayBook.</p>
<p>You can now start making reservations and managing your bookings.</p>
`))

	reservationCreatedTemplate = template.Must(template.New("created").Parse(`
<h1>Reservation Received</h1>
<p>Dear {{.GuestName}},</p>
<p>Your reservation has been received and is awaiting confirmation by the hotel:</p>
<ul>
  <li>Hotel: {{.HotelName}}</li>
  <li>Room: {{.RoomNumber}}</li>
  <li>Check-in: {{.CheckIn}}</li>
  <li>Check-out: {{.CheckOut}}</li>
  <li>Guests: {{.GuestCount}}</li>
  <li>Total Price: ${{.TotalPrice}}</li>
</ul>
<p>Thank you for choosing StayBook!</p>
`))

	reservationCancelledTemplate = template.Must(template.New("cancelled").Parse(`
<h1>Reservation Cancelled</h1>
<p>Dear {{.GuestName}},</p>
<p>Your reservation has been cancelled:</p>
<ul>
  <li>Hotel: {{.HotelName}}</li>
  <li>Room: {{.RoomNumber}}</li>
  <li>Check-in: {{.CheckIn}}</li>
  <li>Check-out: {{.CheckOut}}</li>
</ul>
<p>If you did not request this cancellation, please contact us immediately.</p>
`))
)

type reservationEmail struct {
	GuestName  string
	HotelName  string
	RoomNumber string
	CheckIn    string
	CheckOut   string
	GuestCount int
	TotalPrice string
}

func newReservationEmail(r *models.Reservation) reservationEmail {
	return reservationEmail{
		GuestName:  r.GuestName,
		HotelName:  r.HotelName,
		RoomNumber: r.RoomNumber,
		CheckIn:    models.FormatDate(r.CheckIn),
		CheckOut:   models.FormatDate(r.CheckOut),
		GuestCount: r.GuestCount,
		TotalPrice: r.TotalPrice.StringFixed(2),
	}
}

// NotificationService renders and sends guest emails
type NotificationService struct {
	sender mailer.Sender
	logger *logrus.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(sender mailer.Sender, logger *logrus.Logger) *NotificationService {
	return &NotificationService{sender: sender, logger: logger}
}

// Welcome greets a newly registered user
func (s *NotificationService) Welcome(ctx context.Context, user *models.User) {
	s.send(ctx, user.Email, "Welcome to StayBook", welcomeTemplate, user)
}

// ReservationCreated tells the guest their booking was received
func (s *NotificationService) ReservationCreated(ctx context.Context, reservation *models.Reservation) {
	s.send(ctx, reservation.GuestEmail, "Reservation Confirmation", reservationCreatedTemplate, newReservationEmail(reservation))
}

// ReservationCancelled tells the guest their booking was cancelled
func (s *NotificationService) ReservationCancelled(ctx context.Context, reservation *models.Reservation) {
	s.send(ctx, reservation.GuestEmail, "Reservation Cancelled", reservationCancelledTemplate, newReservationEmail(reservation))
}

func (s *NotificationService) send(ctx context.Context, to, subject string, tmpl *template.Template, data interface{}) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		s.logger.WithError(err).WithField("template", tmpl.Name()).Error("Failed to render email")
		return
	}

	err := s.sender.Send(ctx, mailer.Message{To: to, Subject: subject, HTML: body.String()})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Warn("Failed to send email")
	}
}
