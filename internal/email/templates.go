package email

import "fmt"

func bookingRequestedHTML(name string, d BookingDetails) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #333;">Service Request Received</h2>
		<p>Dear %s,</p>
		<p>We received your request for <strong>%s</strong> on <strong>%s</strong>.</p>
		<p>Our staff will review it shortly. You will get another email once your appointment is confirmed.</p>
		<p>Best regards,<br><strong>%s</strong></p>
	</div>`, name, d.ServiceName, d.DateTime, d.ShopName)
}

func bookingAcceptedHTML(name string, d BookingDetails) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
		<h2 style="color: #333;">Appointment Confirmed</h2>
		<p>Dear %s,</p>
		<p>Your appointment for <strong>%s</strong> on <strong>%s</strong> is confirmed.</p>
		<p>Please arrive a few minutes early. If you need to reschedule, contact us as soon as possible.</p>
		<p>Best regards,<br><strong>%s</strong></p>
	</div>`, name, d.ServiceName, d.DateTime, d.ShopName)
}
