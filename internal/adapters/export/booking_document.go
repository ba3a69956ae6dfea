// Package export renders printable booking documents.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

const notAvailable = "N/A"

// DocumentField is one labelled line of the appointment slip
type DocumentField struct {
	Label string
	Value string
}

// BookingDocument is a rendered appointment slip
type BookingDocument struct {
	FileName    string
	ContentType string
	Body        []byte
}

var documentTemplate = template.Must(template.New("booking").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Appointment {{.Reference}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 24mm; color: #222; }
h1 { font-size: 20pt; margin-bottom: 4mm; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 2mm 0; border-bottom: 1px solid #ddd; }
th { width: 45mm; font-weight: bold; }
footer { margin-top: 10mm; font-size: 9pt; color: #666; }
</style>
</head>
<body>
<h1>ChikitsaMitra Appointment</h1>
<table>
{{- range .Fields}}
<tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
<footer>Please carry this slip to the hospital reception.</footer>
</body>
</html>
`))

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Fields returns the slip lines in print order. Blank values print as N/A.
func Fields(b *entities.Booking) []DocumentField {
	return []DocumentField{
		{Label: "Reference", Value: orNA(b.Reference)},
		{Label: "Name", Value: orNA(b.Name)},
		{Label: "Phone", Value: orNA(b.Phone)},
		{Label: "Date of Birth", Value: orNA(b.DOB)},
		{Label: "Hospital", Value: orNA(b.Hospital)},
		{Label: "Department", Value: orNA(b.Department)},
		{Label: "Date", Value: orNA(b.Date)},
		{Label: "Time Slot", Value: orNA(b.Timeslot)},
	}
}

// FileName returns Appointment_<reference>.html, or the patient name when
// the booking has no reference
func FileName(b *entities.Booking) string {
	id := b.Reference
	if id == "" {
		id = b.Name
	}
	id = strings.Trim(unsafeFileChars.ReplaceAllString(id, "_"), "_")
	if id == "" {
		id = "booking"
	}
	return "Appointment_" + id + ".html"
}

// RenderBooking renders the printable slip for b
func RenderBooking(b *entities.Booking) (*BookingDocument, error) {
	var buf bytes.Buffer
	data := struct {
		Reference string
		Fields    []DocumentField
	}{
		Reference: orNA(b.Reference),
		Fields:    Fields(b),
	}
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render booking document: %w", err)
	}

	return &BookingDocument{
		FileName:    FileName(b),
		ContentType: "text/html; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return notAvailable
	}
	return v
}
