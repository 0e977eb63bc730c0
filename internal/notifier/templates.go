package notifier

import (
	"fmt"
	"html/template"
	"strings"

	"apnastay/pkg/model"
)

// mailView is what the HTML templates render. Dates and money are
// pre-formatted so templates stay free of logic.
type mailView struct {
	ListingTitle     string
	CheckIn          string
	CheckOut         string
	Nights           int
	Rooms            int
	Price            string
	CounterpartyName string
	CancelURL        string
	BookingID        string
}

func viewFor(data model.NotificationData) mailView {
	nights := int(data.CheckOut.Sub(data.CheckIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return mailView{
		ListingTitle:     data.ListingTitle,
		CheckIn:          data.CheckIn.Format("Mon, 02 Jan 2006"),
		CheckOut:         data.CheckOut.Format("Mon, 02 Jan 2006"),
		Nights:           nights,
		Rooms:            data.Rooms,
		Price:            fmt.Sprintf("₹%d", data.Price),
		CounterpartyName: data.CounterpartyName,
		CancelURL:        data.CancelURL,
		BookingID:        data.BookingID,
	}
}

const stayDetails = `{{define "stay"}}<table cellpadding="4">
<tr><td>Listing</td><td><strong>{{.ListingTitle}}</strong></td></tr>
<tr><td>Check-in</td><td>{{.CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
<tr><td>Nights</td><td>{{.Nights}}</td></tr>
<tr><td>Rooms</td><td>{{.Rooms}}</td></tr>
<tr><td>Total</td><td>{{.Price}}</td></tr>
</table>{{end}}`

var templateBodies = map[model.NotificationTemplate]string{
	model.TemplateBookingConfirmed: `<h2>Your booking is confirmed</h2>
<p>Your stay at <strong>{{.ListingTitle}}</strong>, hosted by {{.CounterpartyName}}, is confirmed.</p>
{{template "stay" .}}
{{if .CancelURL}}<p>Plans changed? You can cancel this booking any time using
<a href="{{.CancelURL}}">this secure link</a>. The link works once and expires 48 hours after booking.</p>{{end}}
<p>Booking reference: {{.BookingID}}</p>`,

	model.TemplateNewBooking: `<h2>You have a new booking</h2>
<p>{{.CounterpartyName}} just booked <strong>{{.ListingTitle}}</strong>.</p>
{{template "stay" .}}
<p>Booking reference: {{.BookingID}}</p>`,

	model.TemplateGuestCancelledGuest: `<h2>Your booking is cancelled</h2>
<p>You cancelled your stay at <strong>{{.ListingTitle}}</strong>. No further action is needed.</p>
{{template "stay" .}}`,

	model.TemplateGuestCancelledHost: `<h2>A booking was cancelled</h2>
<p>{{.CounterpartyName}} cancelled their stay at <strong>{{.ListingTitle}}</strong>.
The rooms are available again for these dates.</p>
{{template "stay" .}}`,

	model.TemplateHostCancelledGuest: `<h2>Your booking was cancelled by the host</h2>
<p>We are sorry: {{.CounterpartyName}} had to cancel your stay at <strong>{{.ListingTitle}}</strong>.</p>
{{template "stay" .}}
<p>Booking reference: {{.BookingID}}</p>`,

	model.TemplateHostCancelledHost: `<h2>Booking cancelled</h2>
<p>You cancelled {{.CounterpartyName}}'s stay at <strong>{{.ListingTitle}}</strong>.
The guest has been notified.</p>
{{template "stay" .}}`,
}

var templates = func() map[model.NotificationTemplate]*template.Template {
	parsed := make(map[model.NotificationTemplate]*template.Template, len(templateBodies))
	for name, body := range templateBodies {
		parsed[name] = template.Must(
			template.New(string(name)).Parse(stayDetails + body))
	}
	return parsed
}()

// Render produces the HTML body for one notification event. Unknown
// templates are an error so the caller can decide to drop the event.
func Render(name model.NotificationTemplate, data model.NotificationData) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown notification template %q", name)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, viewFor(data)); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return buf.String(), nil
}
