// Package cli is the line-oriented terminal front end of the assistant.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/chikitsamitra/internal/adapters/export"
	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	apperrors "github.com/zatekoja/chikitsamitra/pkg/errors"
)

const prompt = "you> "

// Directory is the read side of the directory used by the shell
type Directory interface {
	ListStates(ctx context.Context) []string
	ListDistricts(ctx context.Context, state string) []string
	ListHospitals(ctx context.Context, state, district string) []string
	ListSchemeAudiences(ctx context.Context) []string
	ListSchemes(ctx context.Context, audience string) []entities.Scheme
	SearchFAQs(ctx context.Context, query string) []entities.FAQ
}

// Services are the application services the shell drives
type Services struct {
	Chat        *services.ChatService
	Directory   Directory
	Appointment *services.SelectorController
	Finder      *services.SelectorController
	Bookings    *services.BookingService
}

// Shell reads commands line by line and prints results
type Shell struct {
	svc       Services
	in        *bufio.Scanner
	out       io.Writer
	exportDir string
	now       func() time.Time
}

// Option configures a Shell
type Option func(*Shell)

// WithExportDir sets where exported appointment slips are written
func WithExportDir(dir string) Option {
	return func(s *Shell) { s.exportDir = dir }
}

// WithClock overrides the time used to classify bookings
func WithClock(now func() time.Time) Option {
	return func(s *Shell) { s.now = now }
}

// NewShell creates a shell reading from in and writing to out
func NewShell(svc Services, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		svc:       svc,
		in:        bufio.NewScanner(in),
		out:       out,
		exportDir: ".",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type command func(ctx context.Context, args string) error

func (s *Shell) commands() map[string]command {
	return map[string]command{
		"chat":      s.chat,
		"listen":    s.listen,
		"states":    s.states,
		"districts": s.districts,
		"hospitals": s.hospitals,
		"schemes":   s.schemes,
		"faq":       s.faq,
		"select":    s.selectCmd,
		"verify":    s.verify,
		"book":      s.book,
		"bookings":  s.bookings,
		"export":    s.export,
		"help":      s.help,
	}
}

// Run greets the user and processes commands until quit, end of input or
// ctx is done. Text that is not a command is sent to the chat.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("bot> %s\n", s.svc.Chat.Greet(ctx))

	cmds := s.commands()
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, ok := s.readLine(prompt)
		if !ok {
			return s.in.Err()
		}
		if line == "" {
			continue
		}

		name, args, _ := strings.Cut(line, " ")
		name = strings.ToLower(name)
		args = strings.TrimSpace(args)

		if name == "quit" || name == "exit" {
			s.printf("Goodbye.\n")
			return nil
		}

		cmd, known := cmds[name]
		if !known {
			cmd, args = s.chat, line
		}
		if err := cmd(ctx, args); err != nil {
			s.report(err)
		}
	}
}

func (s *Shell) chat(ctx context.Context, args string) error {
	reply, ok := s.svc.Chat.Reply(ctx, args)
	if !ok {
		return nil
	}
	s.printf("bot> %s\n", reply)
	return nil
}

func (s *Shell) listen(ctx context.Context, _ string) error {
	s.printf("(listening...)\n")
	transcript, reply, err := s.svc.Chat.Listen(ctx)
	if err != nil {
		return err
	}
	s.printf("you> %s\nbot> %s\n", transcript, reply)
	return nil
}

func (s *Shell) states(ctx context.Context, _ string) error {
	s.printList(s.svc.Directory.ListStates(ctx))
	return nil
}

func (s *Shell) districts(ctx context.Context, args string) error {
	if args == "" {
		return apperrors.NewValidationError("state", "usage: districts <state>")
	}
	s.printList(s.svc.Directory.ListDistricts(ctx, args))
	return nil
}

// hospitals takes "<state>" or "<state> | <district>"
func (s *Shell) hospitals(ctx context.Context, args string) error {
	state, district, _ := strings.Cut(args, "|")
	state, district = strings.TrimSpace(state), strings.TrimSpace(district)
	if state == "" {
		return apperrors.NewValidationError("state", "usage: hospitals <state> [| <district>]")
	}
	s.printList(s.svc.Directory.ListHospitals(ctx, state, district))
	return nil
}

func (s *Shell) schemes(ctx context.Context, args string) error {
	if args == "" {
		s.printf("Audiences:\n")
		s.printList(s.svc.Directory.ListSchemeAudiences(ctx))
		return nil
	}

	schemes := s.svc.Directory.ListSchemes(ctx, args)
	if len(schemes) == 0 {
		s.printf("  No schemes found.\n")
		return nil
	}
	for _, sc := range schemes {
		s.printf("- %s (%s)\n  %s\n", sc.Title, sc.TargetAudience, sc.Description)
	}
	return nil
}

func (s *Shell) faq(ctx context.Context, args string) error {
	if utf8.RuneCountInString(args) < services.MinFAQQueryLength {
		return apperrors.NewValidationError("query", fmt.Sprintf("type at least %d characters", services.MinFAQQueryLength))
	}
	faqs := s.svc.Directory.SearchFAQs(ctx, args)
	if len(faqs) == 0 {
		s.printf("  No FAQs match.\n")
		return nil
	}
	for _, f := range faqs {
		s.printf("Q: %s\nA: %s\n", f.Question, f.Answer)
	}
	return nil
}

// selectCmd takes "<group>" or "<group> <level> <value>"
func (s *Shell) selectCmd(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return apperrors.NewValidationError("group", "usage: select <appointment|finder> [state|district|hospital <value>]")
	}

	ctl := s.controller(fields[0])
	if ctl == nil {
		return apperrors.NewNotFoundError("unknown selector group")
	}

	if len(fields) == 1 {
		snap := ctl.Snapshot()
		if snap.State.Phase == entities.SelectorPhaseEmpty {
			snap = ctl.Mount(ctx)
		}
		s.printSelector(snap)
		return nil
	}
	if len(fields) < 3 {
		return apperrors.NewValidationError("value", "usage: select <group> <level> <value>")
	}

	value := strings.Join(fields[2:], " ")
	var (
		snap entities.SelectorGroup
		err  error
	)
	switch strings.ToLower(fields[1]) {
	case entities.SelectorLevelState:
		snap, err = ctl.SelectState(ctx, value)
	case entities.SelectorLevelDistrict:
		snap, err = ctl.SelectDistrict(ctx, value)
	case entities.SelectorLevelHospital:
		snap, err = ctl.SelectHospital(ctx, value)
	default:
		return apperrors.NewValidationError("level", "level must be state, district or hospital")
	}
	if err != nil {
		return err
	}
	s.printSelector(snap)
	return nil
}

// verify takes "", "send <phone>" or "code <code>"
func (s *Shell) verify(ctx context.Context, args string) error {
	v := s.svc.Bookings.Verification()
	action, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)

	switch strings.ToLower(action) {
	case "":
		s.printVerification(v.State())
	case "send":
		delivery, err := v.SendCode(ctx, value)
		if err != nil {
			return err
		}
		s.printf("%s\n", delivery.Message)
	case "code":
		state, err := v.Verify(ctx, value)
		if err != nil {
			return err
		}
		s.printf("%s\n", services.MsgPhoneVerified)
		s.printVerification(state)
	default:
		return apperrors.NewValidationError("action", "usage: verify [send <phone> | code <code>]")
	}
	return nil
}

type formField struct {
	label string
	def   string
	dst   *string
}

// book collects the form field by field. Location fields default to the
// appointment selector and the phone defaults to the verified one.
func (s *Shell) book(ctx context.Context, _ string) error {
	sel := s.svc.Appointment.Snapshot()
	verification := s.svc.Bookings.Verification().State()
	minDate, maxDate := s.svc.Bookings.DateWindow()

	var form entities.BookingForm
	fields := []formField{
		{"Full name", "", &form.Name},
		{"Phone", verification.Phone, &form.Phone},
		{"Date of birth (YYYY-MM-DD)", "", &form.DOB},
		{"Gender", "", &form.Gender},
		{"Appointment type", "", &form.AppointmentType},
		{"State", sel.State.Selected, &form.State},
		{"District", sel.District.Selected, &form.District},
		{"Hospital", sel.Hospital.Selected, &form.Hospital},
		{"Department", "", &form.Department},
		{fmt.Sprintf("Date (%s to %s)", minDate, maxDate), "", &form.Date},
		{"Timeslot", "", &form.Timeslot},
	}

	for _, f := range fields {
		label := f.label
		if f.def != "" {
			label = fmt.Sprintf("%s [%s]", label, f.def)
		}
		line, ok := s.readLine(label + ": ")
		if !ok {
			return apperrors.NewValidationError("form", "booking cancelled")
		}
		if line == "" {
			line = f.def
		}
		*f.dst = line
	}

	booking, err := s.svc.Bookings.Submit(ctx, form)
	if err != nil {
		return err
	}
	s.printf("%s Reference: %s\n", services.MsgBookingSuccessful, booking.DisplayID())
	return nil
}

func (s *Shell) bookings(ctx context.Context, _ string) error {
	views, err := s.svc.Bookings.List(ctx, s.now())
	if err != nil {
		return err
	}
	if len(views) == 0 {
		s.printf("  No bookings yet.\n")
		return nil
	}
	for _, v := range views {
		b := v.Booking
		s.printf("- %s  %s %s  %s, %s  [%s]\n", b.DisplayID(), b.Date, b.Timeslot, b.Hospital, b.District, v.Status)
	}
	return nil
}

func (s *Shell) export(ctx context.Context, args string) error {
	if args == "" {
		return apperrors.NewValidationError("reference", "usage: export <reference>")
	}
	booking, err := s.svc.Bookings.Find(ctx, args)
	if err != nil {
		return err
	}
	doc, err := export.RenderBooking(booking)
	if err != nil {
		return apperrors.NewInternalError("failed to render appointment slip", err)
	}

	path := filepath.Join(s.exportDir, doc.FileName)
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return apperrors.NewInternalError("failed to write appointment slip", err)
	}
	s.printf("Saved %s\n", path)
	return nil
}

func (s *Shell) help(context.Context, string) error {
	s.printf(`Commands:
  chat <message>                       ask the assistant (plain text works too)
  listen                               speak a question
  states | districts <state> | hospitals <state> [| <district>]
  schemes [audience]                   list audiences or schemes for one
  faq <query>                          search frequently asked questions
  select <appointment|finder> [state|district|hospital <value>]
  verify [send <phone> | code <code>]  simulated phone verification
  book                                 book an appointment
  bookings                             list your bookings
  export <reference>                   save an appointment slip
  help | quit
`)
	return nil
}

func (s *Shell) controller(group string) *services.SelectorController {
	switch strings.ToLower(group) {
	case services.SelectorGroupAppointment:
		return s.svc.Appointment
	case services.SelectorGroupFinder:
		return s.svc.Finder
	}
	return nil
}

func (s *Shell) readLine(p string) (string, bool) {
	s.printf("%s", p)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Shell) report(err error) {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Type == apperrors.ErrorTypeInternal || appErr.Type == apperrors.ErrorTypeExternal {
			log.Error().Err(err).Msg("command failed")
		}
		s.printf("! %s\n", appErr.Message)
		return
	}
	log.Error().Err(err).Msg("command failed")
	s.printf("! something went wrong\n")
}

func (s *Shell) printList(items []string) {
	if len(items) == 0 {
		s.printf("  (none)\n")
		return
	}
	for i, item := range items {
		s.printf("  %d. %s\n", i+1, item)
	}
}

func (s *Shell) printSelector(g entities.SelectorGroup) {
	s.printf("[%s]\n", g.Name)
	for _, row := range []struct {
		level string
		state entities.SelectorState
	}{
		{entities.SelectorLevelState, g.State},
		{entities.SelectorLevelDistrict, g.District},
		{entities.SelectorLevelHospital, g.Hospital},
	} {
		st := row.state
		switch {
		case st.Selected != "":
			s.printf("  %-8s %s\n", row.level, st.Selected)
		case st.Disabled:
			s.printf("  %-8s (%s)\n", row.level, st.Placeholder)
		default:
			s.printf("  %-8s %s: %s\n", row.level, st.Placeholder, strings.Join(st.Options, ", "))
		}
	}
}

func (s *Shell) printVerification(st entities.VerificationState) {
	phone := st.Phone
	if phone == "" {
		phone = "-"
	}
	s.printf("phone %s: %s\n", phone, st.Status)
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
