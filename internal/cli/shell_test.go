package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/storage"
	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/cli"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/knowledge"
)

var shellNow = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

type stubDirectory struct{}

func (stubDirectory) ListStates(ctx context.Context) []string {
	return []string{"Kerala", "Tamil Nadu"}
}

func (stubDirectory) ListDistricts(ctx context.Context, state string) []string {
	if state == "Kerala" {
		return []string{"Ernakulam"}
	}
	return []string{}
}

func (stubDirectory) ListHospitals(ctx context.Context, state, district string) []string {
	if state == "Kerala" && district == "Ernakulam" {
		return []string{"General Hospital"}
	}
	return []string{}
}

func (stubDirectory) ListSchemeAudiences(ctx context.Context) []string {
	return []string{entities.SentinelAudience, "Kerala"}
}

func (stubDirectory) ListSchemes(ctx context.Context, audience string) []entities.Scheme {
	return []entities.Scheme{{TargetAudience: entities.SentinelAudience, Title: "PM-JAY", Description: "Health cover"}}
}

func (stubDirectory) SearchFAQs(ctx context.Context, query string) []entities.FAQ {
	return []entities.FAQ{{Question: "What is " + query + "?", Answer: "An answer"}}
}

func newServices(t *testing.T) (cli.Services, *services.ResponseResolver) {
	t.Helper()

	table, err := knowledge.Default()
	require.NoError(t, err)
	resolver := services.NewResponseResolver(table)

	dir := stubDirectory{}
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	verification := services.NewPhoneVerification(func() (string, error) { return "123456", nil }, nil)
	appointment := services.NewSelectorController(services.SelectorGroupAppointment, services.AppointmentSelectorLayout, dir, nil)

	return cli.Services{
		Chat:        services.NewChatService(resolver, nil, nil, nil),
		Directory:   dir,
		Appointment: appointment,
		Finder:      services.NewSelectorController(services.SelectorGroupFinder, services.FinderSelectorLayout, dir, nil),
		Bookings: services.NewBookingService(
			storage.NewBookingAdapter(store, "cm_bookings_v1"),
			verification,
			30,
			services.WithClock(func() time.Time { return shellNow }),
			services.WithBookingSelector(appointment),
		),
	}, resolver
}

func run(t *testing.T, svc cli.Services, input string, opts ...cli.Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]cli.Option{cli.WithClock(func() time.Time { return shellNow })}, opts...)
	shell := cli.NewShell(svc, strings.NewReader(input), &out, opts...)
	require.NoError(t, shell.Run(context.Background()))
	return out.String()
}

func TestShell_GreetsAndChats(t *testing.T) {
	svc, resolver := newServices(t)

	out := run(t, svc, "hello\nchat I have a fever\n\nquit\n")

	assert.Contains(t, out, "bot> "+services.Greeting)
	assert.Contains(t, out, "bot> "+resolver.Resolve("hello"))
	assert.Contains(t, out, "bot> "+resolver.Resolve("I have a fever"))
	assert.Contains(t, out, "Goodbye.")
}

func TestShell_ListenWithoutSpeech(t *testing.T) {
	svc, _ := newServices(t)

	out := run(t, svc, "listen\n")

	assert.Contains(t, out, "! "+services.SpeechUnavailableMessage)
}

func TestShell_DirectoryCommands(t *testing.T) {
	svc, _ := newServices(t)

	out := run(t, svc, strings.Join([]string{
		"states",
		"districts Kerala",
		"districts Goa",
		"hospitals Kerala | Ernakulam",
		"hospitals",
		"schemes",
		"schemes All India",
		"faq a",
		"faq fever",
	}, "\n")+"\n")

	assert.Contains(t, out, "  1. Kerala\n  2. Tamil Nadu\n")
	assert.Contains(t, out, "  1. Ernakulam\n")
	assert.Contains(t, out, "  (none)\n")
	assert.Contains(t, out, "  1. General Hospital\n")
	assert.Contains(t, out, "! usage: hospitals <state> [| <district>]")
	assert.Contains(t, out, "Audiences:\n  1. All India\n  2. Kerala\n")
	assert.Contains(t, out, "- PM-JAY (All India)\n  Health cover\n")
	assert.Contains(t, out, "! type at least 2 characters")
	assert.Contains(t, out, "Q: What is fever?\nA: An answer\n")
}

func TestShell_SelectorCommands(t *testing.T) {
	svc, _ := newServices(t)

	out := run(t, svc, strings.Join([]string{
		"select finder",
		"select finder state Goa",
		"select finder state Kerala",
		"select nowhere",
		"select finder county Kerala",
	}, "\n")+"\n")

	assert.Contains(t, out, "[finder]\n  state    Select state: Kerala, Tamil Nadu\n")
	assert.Contains(t, out, "  district Select district: Ernakulam\n")
	assert.Contains(t, out, "! unknown selector group")
	assert.Contains(t, out, "! level must be state, district or hospital")
	assert.Equal(t, "Kerala", svc.Finder.Snapshot().State.Selected)
	assert.Empty(t, svc.Appointment.Snapshot().State.Selected)
}

func TestShell_BookingFlowAndExport(t *testing.T) {
	svc, _ := newServices(t)
	exportDir := t.TempDir()

	input := strings.Join([]string{
		"select appointment",
		"select appointment state Kerala",
		"select appointment district Ernakulam",
		"select appointment hospital General Hospital",
		"verify send 9876543210",
		"verify code 000000",
		"verify code 123456",
		"book",
		"Asha Menon",
		"",
		"1990-01-01",
		"Female",
		"OPD",
		"",
		"",
		"",
		"Cardiology",
		"2026-10-25",
		"10:00 AM",
		"bookings",
	}, "\n") + "\n"

	out := run(t, svc, input, cli.WithExportDir(exportDir))

	assert.Contains(t, out, "Simulated OTP sent to 9876543210. Use: 123456")
	assert.Contains(t, out, "! "+services.MsgInvalidCode)
	assert.Contains(t, out, services.MsgPhoneVerified)
	assert.Contains(t, out, "Phone [9876543210]: ")
	assert.Contains(t, out, "Hospital [General Hospital]: ")
	assert.Contains(t, out, "Date (2026-10-19 to 2026-11-18): ")
	assert.Contains(t, out, services.MsgBookingSuccessful+" Reference: CM-")

	views, err := svc.Bookings.List(context.Background(), shellNow)
	require.NoError(t, err)
	require.Len(t, views, 1)
	booking := views[0].Booking
	assert.Equal(t, "Asha Menon", booking.Name)
	assert.Equal(t, "9876543210", booking.Phone)
	assert.Equal(t, "Kerala", booking.State)
	assert.Equal(t, "General Hospital", booking.Hospital)
	assert.Contains(t, out, "- "+booking.Reference+"  2026-10-25 10:00 AM  General Hospital, Ernakulam  [upcoming]")

	snap := svc.Appointment.Snapshot()
	assert.Empty(t, snap.State.Selected, "a stored booking clears the form selections")
	assert.Empty(t, snap.District.Selected)
	assert.Empty(t, snap.Hospital.Selected)
	assert.Equal(t, entities.SelectorPhaseEmpty, snap.District.Phase)

	out = run(t, svc, "export "+booking.Reference+"\nexport CM-000000\n", cli.WithExportDir(exportDir))

	path := filepath.Join(exportDir, "Appointment_"+booking.Reference+".html")
	assert.Contains(t, out, "Saved "+path)
	assert.Contains(t, out, "! booking not found")
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Asha Menon")
}

func TestShell_BookRequiresVerification(t *testing.T) {
	svc, _ := newServices(t)

	input := "book\nAsha\n9876543210\n\n\n\nKerala\nErnakulam\nGeneral Hospital\n\n2026-10-25\n10:00 AM\nbookings\n"
	out := run(t, svc, input)

	assert.Contains(t, out, "! Please verify your phone number first")
	assert.Contains(t, out, "No bookings yet.")
}

func TestShell_BookCancelledAtEndOfInput(t *testing.T) {
	svc, _ := newServices(t)

	out := run(t, svc, "book\nAsha\n")

	assert.Contains(t, out, "! booking cancelled")
}
