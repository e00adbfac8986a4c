package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/njume/signbook/internal/config"
	"github.com/njume/signbook/internal/database/repository"
	"github.com/njume/signbook/internal/service"
)

// App ties together views.
type App struct {
	ctx           context.Context
	cfg           config.Config
	repo          *repository.RegistrationRepo
	signup        *service.SignupService
	deviceID      string
	registrations []repository.Registration
	filters       service.Filters
	cursor        int
	status        string
	state         appState
	modal         modalState
	dateFormat    string
	confirmDelay  time.Duration

	// roster input modes
	searchMode  bool
	inputBuffer string

	// form state
	form       formState
	saving     bool
	pendingReg repository.Registration

	// delete flow
	deleteTarget repository.Registration
}

type appState string

const (
	viewRoster appState = "roster"
	viewForm   appState = "form"
)

type modalState string

const (
	modalNone          modalState = ""
	modalConfirmDelete modalState = "confirmDelete"
	modalFilterCode    modalState = "filterCode"
)

// formState holds the in-progress sign-up form. trackIdx/levelIdx of -1 mean
// nothing selected yet.
type formState struct {
	name     string
	phone    string
	trackIdx int
	levelIdx int
	cursor   int // 0 name, 1 track, 2 level, 3 phone
}

const formFieldCount = 4

func newFormState() formState {
	return formState{trackIdx: -1, levelIdx: -1}
}

func (f formState) track() repository.Track {
	if f.trackIdx < 0 {
		return ""
	}
	return repository.Tracks[f.trackIdx]
}

func (f formState) level() repository.Level {
	if f.levelIdx < 0 {
		return ""
	}
	return repository.Levels[f.levelIdx]
}

func New(ctx context.Context, cfg config.Config, repo *repository.RegistrationRepo, signup *service.SignupService, deviceID string) *App {
	delay := time.Duration(cfg.UI.ConfirmDelayMs) * time.Millisecond
	return &App{
		ctx:          ctx,
		cfg:          cfg,
		repo:         repo,
		signup:       signup,
		deviceID:     deviceID,
		state:        viewRoster,
		form:         newFormState(),
		dateFormat:   cfg.UI.DateFormat,
		confirmDelay: delay,
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadRoster()
}

func (a *App) loadRoster() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repo.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return rosterMsg(list)
	}
}

func (a *App) submitCmd(form service.SignupForm) tea.Cmd {
	return func() tea.Msg {
		reg, err := a.signup.Submit(a.ctx, form)
		if err != nil {
			return errMsg{err}
		}
		return submitDoneMsg{reg}
	}
}

func (a *App) deleteCmd(reg repository.Registration) tea.Cmd {
	return func() tea.Msg {
		if err := a.signup.Delete(a.ctx, reg.ID); err != nil {
			return errMsg{err}
		}
		return deleteDoneMsg{reg}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.saving {
			// swallow input during the brief save confirmation window
			return a, nil
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		if a.state == viewForm {
			return a.handleFormKey(m)
		}
		return a.handleRosterKey(m)

	case rosterMsg:
		a.registrations = m
		a.clampCursor()
		return a, nil

	case submitDoneMsg:
		a.saving = true
		a.pendingReg = m.Registration
		a.status = "saving…"
		return a, tea.Tick(a.confirmDelay, func(time.Time) tea.Msg { return confirmTickMsg{} })

	case confirmTickMsg:
		a.saving = false
		a.form = newFormState()
		a.state = viewRoster
		a.status = fmt.Sprintf("registered %s ✓", a.pendingReg.FullName)
		return a, a.loadRoster()

	case deleteDoneMsg:
		a.status = fmt.Sprintf("removed %s", m.Registration.FullName)
		return a, a.loadRoster()

	case statusMsg:
		a.status = string(m)
		return a, nil

	case errMsg:
		a.status = userFacing(m.error)
		return a, nil
	}
	return a, nil
}

func (a *App) handleRosterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.searchMode {
		switch m.Type {
		case tea.KeyEsc:
			a.searchMode = false
			a.filters.Search = ""
		case tea.KeyEnter:
			a.searchMode = false
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.filters.Search) > 0 {
				a.filters.Search = a.filters.Search[:len(a.filters.Search)-1]
			}
		case tea.KeySpace:
			a.filters.Search += " "
		case tea.KeyRunes:
			a.filters.Search += string(m.Runes)
		}
		a.clampCursor()
		return a, nil
	}

	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "n":
		a.state = viewForm
		a.form = newFormState()
		a.status = ""
	case "/":
		a.searchMode = true
		a.filters.Search = ""
		a.status = ""
	case "c":
		a.modal = modalFilterCode
		a.inputBuffer = ""
		a.status = ""
	case "t":
		a.filters.Track = nextTrackFilter(a.filters.Track)
		a.clampCursor()
	case "y":
		a.filters.Level = nextLevelFilter(a.filters.Level)
		a.clampCursor()
	case "esc":
		a.filters = service.Filters{}
		a.clampCursor()
		a.status = ""
	case "r":
		return a, a.loadRoster()
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.visible())-1 {
			a.cursor++
		}
	case "backspace", "delete", "x":
		visible := a.visible()
		if len(visible) == 0 {
			a.status = "nothing to remove"
			return a, nil
		}
		a.deleteTarget = visible[a.cursor]
		a.modal = modalConfirmDelete
	}
	return a, nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.state = viewRoster
		a.form = newFormState()
		a.status = ""
		return a, nil
	case tea.KeyEnter:
		return a, a.submitCmd(service.SignupForm{
			FullName: a.form.name,
			Track:    a.form.track(),
			Level:    a.form.level(),
			Phone:    a.form.phone,
		})
	case tea.KeyTab, tea.KeyDown:
		a.form.cursor = (a.form.cursor + 1) % formFieldCount
		return a, nil
	case tea.KeyShiftTab, tea.KeyUp:
		a.form.cursor = (a.form.cursor + formFieldCount - 1) % formFieldCount
		return a, nil
	}

	switch a.form.cursor {
	case 1: // track selector
		switch m.String() {
		case "left", "h":
			a.form.trackIdx = cycleIdx(a.form.trackIdx, len(repository.Tracks), -1)
		case "right", "l", " ":
			a.form.trackIdx = cycleIdx(a.form.trackIdx, len(repository.Tracks), +1)
		}
	case 2: // level selector
		switch m.String() {
		case "left", "h":
			a.form.levelIdx = cycleIdx(a.form.levelIdx, len(repository.Levels), -1)
		case "right", "l", " ":
			a.form.levelIdx = cycleIdx(a.form.levelIdx, len(repository.Levels), +1)
		}
	case 0: // name
		a.form.name = editText(a.form.name, m)
	case 3: // phone
		a.form.phone = editText(a.form.phone, m)
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirmDelete:
		switch m.String() {
		case "y", "enter":
			a.modal = modalNone
			target := a.deleteTarget
			a.deleteTarget = repository.Registration{}
			return a, a.deleteCmd(target)
		case "n", "esc":
			a.modal = modalNone
			a.deleteTarget = repository.Registration{}
		}
	case modalFilterCode:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
		case tea.KeyEnter:
			code := strings.ToLower(strings.TrimSpace(a.inputBuffer))
			a.modal = modalNone
			a.inputBuffer = ""
			a.applyFilterCode(code)
		case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
			if len(a.inputBuffer) > 0 {
				a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
			}
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	}
	return a, nil
}

// applyFilterCode interprets a typed track or level code, falling back to a
// "did you mean" hint for near misses.
func (a *App) applyFilterCode(code string) {
	if code == "" {
		a.filters.Track = ""
		a.filters.Level = ""
		a.clampCursor()
		a.status = "track/level filters cleared"
		return
	}
	if t := repository.Track(code); t.Valid() {
		a.filters.Track = t
		a.clampCursor()
		a.status = fmt.Sprintf("track filter: %s", t.Label())
		return
	}
	if l := repository.Level(code); l.Valid() {
		a.filters.Level = l
		a.clampCursor()
		a.status = fmt.Sprintf("level filter: %s", l.Label())
		return
	}
	if t, ok := service.SuggestTrack(code); ok {
		a.status = fmt.Sprintf("unknown code %q — did you mean track %q?", code, t)
		return
	}
	if l, ok := service.SuggestLevel(code); ok {
		a.status = fmt.Sprintf("unknown code %q — did you mean level %q?", code, l)
		return
	}
	a.status = fmt.Sprintf("unknown code %q", code)
}

func (a *App) visible() []repository.Registration {
	return service.FilterRoster(a.registrations, a.filters)
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) View() string {
	if a.modal != modalNone {
		return a.renderModal()
	}
	if a.state == viewForm {
		return a.renderForm()
	}
	return a.renderRoster()
}

// messages
type rosterMsg []repository.Registration

type statusMsg string

type errMsg struct{ error }

type submitDoneMsg struct {
	Registration repository.Registration
}

type deleteDoneMsg struct {
	Registration repository.Registration
}

type confirmTickMsg struct{}

// styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (a *App) renderRoster() string {
	title := titleStyle.Render(fmt.Sprintf("Signbook — %d/%d spots", len(a.registrations), service.MaxRegistrations))

	filterLine := "filter: "
	if a.filters.Empty() && !a.searchMode {
		filterLine += "(none)"
	} else {
		var parts []string
		if a.searchMode {
			parts = append(parts, fmt.Sprintf("search: %s▌", a.filters.Search))
		} else if a.filters.Search != "" {
			parts = append(parts, fmt.Sprintf("search: %s", a.filters.Search))
		}
		if a.filters.Track != "" {
			parts = append(parts, "track: "+a.filters.Track.Label())
		}
		if a.filters.Level != "" {
			parts = append(parts, "level: "+a.filters.Level.Label())
		}
		filterLine += strings.Join(parts, "  ")
	}

	out := title + "\n" + dimStyle.Render(filterLine) + "\n"
	visible := a.visible()
	if len(visible) == 0 {
		out += "  (no registrations)\n"
	}
	for i, reg := range visible {
		marker := " "
		if i == a.cursor {
			marker = "▶"
		}
		mine := " "
		if reg.OwnerID == a.deviceID {
			mine = "*"
		}
		out += fmt.Sprintf("%s%s %-24s %-24s %-10s %-13s %s\n",
			marker, mine, reg.FullName, reg.Track.Label(), reg.Level.Label(), reg.Phone,
			reg.CreatedAt.Local().Format(a.dateFormat))
	}
	out += dimStyle.Render("* created on this device") + "\n"
	out += "[n] New sign-up  [/] Search  [t] Track  [y] Level  [c] Code filter  [esc] Clear  [x] Remove  [r] Reload  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderForm() string {
	title := titleStyle.Render("New Sign-up")

	trackVal := "(choose with ←/→)"
	if a.form.trackIdx >= 0 {
		trackVal = a.form.track().Label()
	}
	levelVal := "(choose with ←/→)"
	if a.form.levelIdx >= 0 {
		levelVal = a.form.level().Label()
	}

	rows := []struct {
		label string
		value string
	}{
		{"Full name", a.form.name},
		{"Track", trackVal},
		{"Level", levelVal},
		{"Phone (Cameroon mobile)", a.form.phone},
	}
	out := title + "\n"
	for i, row := range rows {
		marker := " "
		value := row.value
		if i == a.form.cursor {
			marker = "▶"
			if i == 0 || i == 3 {
				value += "▌"
			}
		}
		out += fmt.Sprintf("%s %-24s %s\n", marker, row.label+":", value)
	}
	out += "[tab/↑↓] Field  [enter] Submit  [esc] Cancel"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalConfirmDelete:
		return titleStyle.Render("Remove registration?") +
			fmt.Sprintf("\n%s (%s, %s)\n[y] Yes  [n] No", a.deleteTarget.FullName, a.deleteTarget.Track.Label(), a.deleteTarget.Level.Label())
	case modalFilterCode:
		return titleStyle.Render("Filter by track/level code (e.g. iw, m1; blank clears)") +
			fmt.Sprintf("\n%s▌\n[enter] Apply  [esc] Cancel", a.inputBuffer)
	default:
		return ""
	}
}

// userFacing turns service errors into status-line text. Validation and
// permission failures read as written; anything else is prefixed.
func userFacing(err error) string {
	for _, known := range []error{
		service.ErrEmptyName, service.ErrTrackRequired, service.ErrLevelRequired,
		service.ErrBadPhone, service.ErrDuplicatePhone, service.ErrCapacityReached,
		service.ErrNotOwner, repository.ErrNotFound,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return "error: " + err.Error()
}

func cycleIdx(cur, n, dir int) int {
	if cur < 0 {
		if dir > 0 {
			return 0
		}
		return n - 1
	}
	return (cur + n + dir) % n
}

func nextTrackFilter(cur repository.Track) repository.Track {
	if cur == "" {
		return repository.Tracks[0]
	}
	for i, t := range repository.Tracks {
		if t == cur {
			if i == len(repository.Tracks)-1 {
				return ""
			}
			return repository.Tracks[i+1]
		}
	}
	return ""
}

func nextLevelFilter(cur repository.Level) repository.Level {
	if cur == "" {
		return repository.Levels[0]
	}
	for i, l := range repository.Levels {
		if l == cur {
			if i == len(repository.Levels)-1 {
				return ""
			}
			return repository.Levels[i+1]
		}
	}
	return ""
}

func editText(cur string, m tea.KeyMsg) string {
	switch m.Type {
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(cur) > 0 {
			return cur[:len(cur)-1]
		}
	case tea.KeySpace:
		return cur + " "
	case tea.KeyRunes:
		return cur + string(m.Runes)
	}
	return cur
}
