package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/denifrahman/deni-crm/internal/api"
	"github.com/denifrahman/deni-crm/internal/cli/formatter"
	"github.com/denifrahman/deni-crm/internal/domain"
	"github.com/denifrahman/deni-crm/internal/list"
)

// searchDebounce is how long typing must pause before the search term is
// committed and a server fetch issued.
const searchDebounce = 500 * time.Millisecond

// recordsLoadedMsg carries a completed page fetch back to the list view,
// tagged with the fetch sequence that issued it.
type recordsLoadedMsg[T any] struct {
	seq     uint64
	records []T
	count   int
	err     error
}

// searchDebounceMsg fires when a search pause elapses. Stale generations
// are ignored by the controller.
type searchDebounceMsg struct {
	id  ViewID
	gen int
}

// exportDoneMsg reports a finished export download.
type exportDoneMsg struct {
	path string
	err  error
}

// writeDoneMsg reports a finished form write so the list can toast and
// refetch.
type writeDoneMsg struct {
	message string
	err     error
}

// dateRangeFilter is the payload a date-filter form submits back to its
// owning list view.
type dateRangeFilter struct {
	start string
	end   string
}

// listConfig wires one record kind into the generic list view: how to
// fetch a page, how to render a row, and which forms edit records.
type listConfig[T any] struct {
	id      ViewID
	kind    domain.RecordKind
	title   string
	headers []string
	row     func(T) []string

	fetch func(ctx context.Context, f domain.Filter) (api.ListResult[T], error)

	editView func(state *SharedState, rec T) View
	newView  func(state *SharedState) View

	// submit performs the write for a redelivered form submission.
	submit func(ctx context.Context, app *App, payload, intent any) (string, error)

	// extraKey handles kind-specific keys; nil-safe.
	extraKey  func(v *recordListView[T], msg tea.KeyMsg) (tea.Cmd, bool)
	extraHelp []key.Binding
}

// recordListView is the shared paged, searchable record table. Each record
// kind supplies a listConfig; deals additionally share their controller
// with the kanban board through SharedState.
type recordListView[T any] struct {
	state   *SharedState
	cfg     listConfig[T]
	ctrl    *list.Controller[T]
	cursor  int
	loading bool
	err     error

	searching bool
	search    string
}

func newRecordListView[T any](state *SharedState, cfg listConfig[T], ctrl *list.Controller[T]) *recordListView[T] {
	if ctrl == nil {
		ctrl = list.New[T](state.App.Cfg.PageSize)
	}
	return &recordListView[T]{
		state:   state,
		cfg:     cfg,
		ctrl:    ctrl,
		loading: true,
	}
}

func (v *recordListView[T]) ID() ViewID    { return v.cfg.id }
func (v *recordListView[T]) Title() string { return v.cfg.title }

func (v *recordListView[T]) capturingInput() bool { return v.searching }

func (v *recordListView[T]) ShortHelp() []key.Binding {
	base := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		key.NewBinding(key.WithKeys("h", "l"), key.WithHelp("h/l", "page")),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "dates")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
	}
	return append(base, v.cfg.extraHelp...)
}

func (v *recordListView[T]) Init() tea.Cmd {
	return v.load()
}

// load issues a page fetch tagged with a fresh sequence number. A result
// arriving after a newer fetch was issued is dropped on receipt.
func (v *recordListView[T]) load() tea.Cmd {
	v.loading = true
	seq := v.ctrl.BeginFetch()
	filter := v.ctrl.Filter()
	fetch := v.cfg.fetch
	app := v.state.App
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(app.Cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
		res, err := fetch(ctx, filter)
		return recordsLoadedMsg[T]{seq: seq, records: res.Records, count: res.Count, err: err}
	}
}

func (v *recordListView[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg[T]:
		if msg.err != nil {
			// Keep the last good page on a failed fetch. A superseded
			// fetch that errors late is dropped like any stale result.
			if v.ctrl.IsLatest(msg.seq) {
				v.loading = false
				v.err = msg.err
			}
			return v, nil
		}
		if v.ctrl.Apply(msg.seq, msg.records, msg.count) {
			v.loading = false
			v.err = nil
			if v.cursor >= len(msg.records) {
				v.cursor = 0
			}
		}
		return v, nil

	case searchDebounceMsg:
		if msg.id != v.cfg.id {
			return v, nil
		}
		if v.ctrl.CommitSearch(msg.gen) {
			v.cursor = 0
			return v, v.load()
		}
		return v, nil

	case exportDoneMsg:
		if msg.err != nil {
			return v, toast("export failed: "+api.UpstreamMessage(msg.err), true)
		}
		return v, toast("saved "+msg.path, false)

	case writeDoneMsg:
		if msg.err != nil {
			return v, toast(api.UpstreamMessage(msg.err), true)
		}
		return v, tea.Batch(toast(msg.message, false), v.load())

	case formSubmittedMsg:
		return v, v.handleSubmission(msg)

	case tea.KeyMsg:
		if v.searching {
			return v.updateSearch(msg)
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

// handleSubmission routes a redelivered form payload: date-range filters
// are applied locally, record payloads go through the kind's write path.
func (v *recordListView[T]) handleSubmission(msg formSubmittedMsg) tea.Cmd {
	if dr, ok := msg.payload.(dateRangeFilter); ok {
		v.ctrl.SetDateRange(dr.start, dr.end)
		v.cursor = 0
		return v.load()
	}

	if v.cfg.submit == nil {
		return nil
	}
	app := v.state.App
	submit := v.cfg.submit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(app.Cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
		out, err := submit(ctx, app, msg.payload, msg.intent)
		return writeDoneMsg{message: out, err: err}
	}
}

func (v *recordListView[T]) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.cfg.extraKey != nil {
		if cmd, handled := v.cfg.extraKey(v, msg); handled {
			return v, cmd
		}
	}

	records := v.ctrl.Records()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(records)-1 {
			v.cursor++
		}
	case "left", "h":
		if p := v.ctrl.Filter().Page; p > 1 {
			v.ctrl.SetPage(p - 1)
			v.cursor = 0
			return v, v.load()
		}
	case "right", "l":
		if p := v.ctrl.Filter().Page; p < v.ctrl.TotalPages() {
			v.ctrl.SetPage(p + 1)
			v.cursor = 0
			return v, v.load()
		}
	case "enter", "e":
		if v.cursor < len(records) && v.cfg.editView != nil {
			return v, pushView(v.cfg.editView(v.state, records[v.cursor]))
		}
	case "n":
		if v.cfg.newView != nil {
			return v, pushView(v.cfg.newView(v.state))
		}
	case "/":
		v.searching = true
		v.search = v.ctrl.Filter().Search
	case "f":
		return v, pushView(newDateFilterView(v.state, v.ctrl.Filter()))
	case "r":
		return v, v.load()
	case "x":
		return v, v.export()
	}
	return v, nil
}

// updateSearch captures keystrokes into the search box. Every change bumps
// the debounce generation; the fetch fires only after a quiet period.
func (v *recordListView[T]) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		v.searching = false
		return v, nil
	case tea.KeyBackspace:
		if len(v.search) > 0 {
			v.search = v.search[:len(v.search)-1]
			return v, v.scheduleSearch()
		}
		return v, nil
	case tea.KeyRunes, tea.KeySpace:
		v.search += msg.String()
		return v, v.scheduleSearch()
	}
	return v, nil
}

func (v *recordListView[T]) scheduleSearch() tea.Cmd {
	gen := v.ctrl.TypeSearch(v.search)
	id := v.cfg.id
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{id: id, gen: gen}
	})
}

func (v *recordListView[T]) export() tea.Cmd {
	app := v.state.App
	kind := v.cfg.kind
	filter := v.ctrl.Filter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(app.Cfg.TimeoutMs)*time.Millisecond)
		defer cancel()
		path, err := app.Exports.Download(ctx, kind, filter, ".")
		return exportDoneMsg{path: path, err: err}
	}
}

func (v *recordListView[T]) View() string {
	var b strings.Builder
	b.WriteString("\n")

	if v.searching {
		b.WriteString("  " + formatter.StyleYellow.Render("/") + " " + v.search + "█\n\n")
	} else if s := v.ctrl.Filter().Search; s != "" {
		b.WriteString("  " + formatter.Dim("search: "+s) + "\n\n")
	}

	if v.loading && len(v.ctrl.Records()) == 0 {
		b.WriteString("  " + formatter.Dim("Loading...") + "\n")
		return b.String()
	}
	if v.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+api.UpstreamMessage(v.err)) + "\n\n")
	}

	records := v.ctrl.Records()
	if len(records) == 0 {
		b.WriteString("  " + formatter.Dim("No records found.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		cells := v.cfg.row(rec)
		marker := "  "
		if i == v.cursor {
			marker = formatter.StyleGreen.Render("▸ ")
		}
		cells[0] = marker + cells[0]
		rows = append(rows, cells)
	}
	b.WriteString(formatter.RenderTable(v.cfg.headers, rows))

	b.WriteString("\n  " + formatter.RenderPagination(v.ctrl.Filter().Page, v.ctrl.TotalPages()))
	b.WriteString("  " + formatter.Dim(fmt.Sprintf("%d records", v.ctrl.Count())) + "\n")

	return b.String()
}
