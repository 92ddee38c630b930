package notifications

import (
	"bytes"
	"html/template"
)

const patientConfirmationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h2>MediLink - Appointment Confirmed!</h2>
  <p>Hello {{.PatientName}},</p>
  <p>Your appointment has been successfully booked. Here are the details:</p>
  <ul>
    <li>Doctor: {{.DoctorName}}</li>
    <li>Date: {{.AppointmentDate}}</li>
    <li>Time: {{.AppointmentTime}}</li>
    <li>Consultation Fee: &#8377;{{.ConsultationFee}}</li>
  </ul>
  <p>Important notes:</p>
  <ul>
    <li>Please arrive 15 minutes before your scheduled appointment</li>
    <li>Bring a valid ID and any relevant medical documents</li>
    <li>If you need to reschedule, please contact us at least 24 hours in advance</li>
  </ul>
  <p>We look forward to seeing you at your appointment.</p>
  <p>Best regards,<br/>The MediLink Team</p>
</body>
</html>`

const adminNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h2>MediLink Admin - New Appointment Booked</h2>
  <p>A new appointment has been booked. Details:</p>
  <ul>
    <li>Patient Name: {{.PatientName}}</li>
    <li>Patient Email: {{.PatientEmail}}</li>
    <li>Doctor: {{.DoctorName}}</li>
    <li>Date: {{.AppointmentDate}}</li>
    <li>Time: {{.AppointmentTime}}</li>
    <li>Consultation Fee: &#8377;{{.ConsultationFee}}</li>
  </ul>
  <p>MediLink Admin Notification System</p>
</body>
</html>`

var (
	patientConfirmationTmpl = template.Must(template.New("patient_confirmation").Parse(patientConfirmationTemplate))
	adminNotificationTmpl   = template.Must(template.New("admin_notification").Parse(adminNotificationTemplate))
)

func buildPatientConfirmationHTML(req ConfirmationRequest) (string, error) {
	var buf bytes.Buffer
	if err := patientConfirmationTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildAdminNotificationHTML(req ConfirmationRequest) (string, error) {
	var buf bytes.Buffer
	if err := adminNotificationTmpl.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
