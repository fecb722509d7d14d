package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/EinAeffchen/smoltui/internal/domain"
	"github.com/EinAeffchen/smoltui/internal/history"
	"github.com/EinAeffchen/smoltui/internal/service"
	"github.com/EinAeffchen/smoltui/internal/tui/components"
	"github.com/EinAeffchen/smoltui/internal/tui/styles"
)

// inputMode says what the text prompt at the bottom is collecting
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputAssign
	inputMergeDest
	inputRename
)

// sentinelThreshold is how many rows before the end of the loaded list the
// next page fetch is triggered
const sentinelThreshold = 10

// Chrome outside the list: tab bar and status line
const chromeHeight = 2

// Model is the main Bubble Tea model for the application
type Model struct {
	keys KeyMap

	// Services (injected; the model owns no cache state of its own)
	library    *service.LibraryService
	people     *service.PeopleService
	duplicates *service.DuplicateService
	search     *service.SearchService
	client     domain.Client
	hist       *history.Store
	logger     *slog.Logger

	view     View
	list     *components.List
	sentinel components.Sentinel

	// Text prompt state
	input  textinput.Model
	mode   inputMode
	recent []string

	// Person detail context
	personID   string
	personName string

	// Pending prompt context
	pendingFaceID  string
	pendingListKey string
	mergeSourceID  string
	confirmDelete  string

	mediaSort string

	width  int
	height int

	statusMsg   string
	statusIsErr bool
}

// NewModel creates the application model. startView comes from history (or
// the config default); mediaSort is the configured media sort field.
func NewModel(library *service.LibraryService, people *service.PeopleService, duplicates *service.DuplicateService, search *service.SearchService, client domain.Client, hist *history.Store, startView View, mediaSort string, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.CharLimit = 200

	return Model{
		keys:       DefaultKeyMap(),
		library:    library,
		people:     people,
		duplicates: duplicates,
		search:     search,
		client:     client,
		hist:       hist,
		logger:     logger,
		view:       startView,
		list:       components.NewList(startView.Title()),
		sentinel:   components.NewSentinel(sentinelThreshold),
		input:      input,
		mediaSort:  mediaSort,
	}
}

// Init starts the health probe and the first page load for the start view
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		HealthCheckCmd(m.client),
		m.loadCmd(m.view),
		LoadRecentSearchesCmd(m.hist),
		spinnerTick(),
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-chromeHeight)
		return m, nil

	case spinnerTickMsg:
		m.list.AdvanceSpinner()
		return m, spinnerTick()

	case PageLoadedMsg:
		if msg.View == m.view {
			m.refreshList()
		}
		return m, nil

	case SearchPageMsg:
		if m.search.Commit(msg.Gen, msg.Page, msg.Err) && msg.Err != nil {
			m.setStatus("search failed: "+msg.Err.Error(), true)
		}
		if m.view == ViewSearch {
			m.refreshList()
		}
		return m, nil

	case ActionDoneMsg:
		m.setStatus(msg.Info, false)
		m.refreshList()
		// Mutations clear derived listings; re-initializing is a no-op
		// for lists the cache still holds
		return m, m.loadCmd(m.view)

	case ErrMsg:
		m.setStatus(msg.Error(), true)
		m.refreshList()
		return m, nil

	case HealthMsg:
		if msg.Err != nil {
			m.setStatus("server unreachable: "+msg.Err.Error(), true)
		}
		return m, nil

	case RecentSearchesMsg:
		m.recent = msg.Queries
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updatePrompt(msg)
		}
		if m.confirmDelete != "" {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Navigation
	case key.Matches(msg, m.keys.Up):
		m.list.CursorUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.list.CursorDown()
		return m, m.maybeAdvance()
	case key.Matches(msg, m.keys.HalfUp):
		m.list.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.HalfDown):
		m.list.HalfPageDown()
		return m, m.maybeAdvance()
	case key.Matches(msg, m.keys.Home):
		m.list.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.End):
		m.list.GotoBottom()
		return m, m.maybeAdvance()

	// View switching
	case key.Matches(msg, m.keys.Photos):
		return m.switchView(ViewPhotos)
	case key.Matches(msg, m.keys.Videos):
		return m.switchView(ViewVideos)
	case key.Matches(msg, m.keys.People):
		return m.switchView(ViewPeople)
	case key.Matches(msg, m.keys.Orphans):
		return m.switchView(ViewOrphanFaces)
	case key.Matches(msg, m.keys.Duplicates):
		return m.switchView(ViewDuplicates)

	case key.Matches(msg, m.keys.Search):
		m.mode = inputSearch
		m.input.Prompt = "search: "
		m.input.SetValue("")
		if len(m.recent) > 0 {
			m.input.Placeholder = m.recent[0]
		}
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.openSelected()

	case key.Matches(msg, m.keys.Back):
		if m.view == ViewPersonDetail {
			return m.switchView(ViewPeople)
		}
		if m.view == ViewSearch {
			return m.switchView(ViewPhotos)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.refreshCurrent()
	}

	return m.updateActionKeys(msg)
}

func (m Model) updateActionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected := m.list.Selected()
	if selected == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Delete):
		if !m.viewShowsMedia() {
			return m, nil
		}
		m.confirmDelete = selected.GetID()
		m.setStatus("delete "+selected.GetTitle()+"? (y/n)", false)
		return m, nil

	case key.Matches(msg, m.keys.Favorite):
		if !m.viewShowsMedia() {
			return m, nil
		}
		item := m.selectedMedia()
		if item == nil {
			return m, nil
		}
		return m, ToggleFavoriteCmd(m.library, m.mediaFilter(m.view), item.ID, !item.Favorite, m.view)

	case key.Matches(msg, m.keys.Assign):
		listKey, ok := m.faceListKey()
		if !ok {
			return m, nil
		}
		m.pendingFaceID = selected.GetID()
		m.pendingListKey = listKey
		m.mode = inputAssign
		m.input.Prompt = "assign to person id: "
		m.input.Placeholder = ""
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Detach):
		if m.view != ViewPersonDetail {
			return m, nil
		}
		return m, DetachFaceCmd(m.people, m.personID, selected.GetID())

	case key.Matches(msg, m.keys.Merge):
		if m.view != ViewPeople {
			return m, nil
		}
		m.mergeSourceID = selected.GetID()
		m.mode = inputMergeDest
		m.input.Prompt = "merge " + selected.GetTitle() + " into person id: "
		m.input.Placeholder = ""
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		if m.view != ViewPeople {
			return m, nil
		}
		m.personID = selected.GetID()
		m.mode = inputRename
		m.input.Prompt = "name: "
		m.input.Placeholder = ""
		m.input.SetValue("")
		m.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.KeepLargest):
		if m.view != ViewDuplicates {
			return m, nil
		}
		return m, ResolveGroupCmd(m.duplicates, selected.GetID(), domain.ResolutionKeepLargest)

	case key.Matches(msg, m.keys.KeepOldest):
		if m.view != ViewDuplicates {
			return m, nil
		}
		return m, ResolveGroupCmd(m.duplicates, selected.GetID(), domain.ResolutionKeepOldest)

	case key.Matches(msg, m.keys.Ignore):
		if m.view != ViewDuplicates {
			return m, nil
		}
		return m, ResolveGroupCmd(m.duplicates, selected.GetID(), domain.ResolutionIgnore)
	}

	return m, nil
}

// updatePrompt handles keys while the text prompt is active
func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.closePrompt()
		return m.submitPrompt(mode, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt(mode inputMode, value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return m, nil
	}

	switch mode {
	case inputSearch:
		m.view = ViewSearch
		m.list.SetTitle("Search: " + value)
		var cmds []tea.Cmd
		cmds = append(cmds, SaveSearchCmd(m.hist, value), SaveLastViewCmd(m.hist, m.view))
		if m.search.SetQuery(value) {
			m.refreshList()
			if gen, query, cursor, ok := m.search.Begin(); ok {
				cmds = append(cmds, SearchPageCmd(m.search, gen, query, cursor))
			}
		}
		m.refreshList()
		return m, tea.Batch(cmds...)

	case inputAssign:
		return m, AssignFaceCmd(m.people, m.pendingListKey, m.pendingFaceID, value, m.view)

	case inputMergeDest:
		return m, MergePeopleCmd(m.people, m.mergeSourceID, value)

	case inputRename:
		return m, RenamePersonCmd(m.people, m.personID, value)
	}
	return m, nil
}

func (m *Model) closePrompt() {
	m.mode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// updateConfirm handles the delete confirmation. Only an explicit confirm
// or deny resolves the prompt; other keys leave it pending.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		mediaID := m.confirmDelete
		m.confirmDelete = ""
		m.statusMsg = ""
		return m, DeleteMediaCmd(m.library, m.search, m.mediaFilter(m.view), mediaID, m.view)

	case key.Matches(msg, m.keys.Deny):
		m.confirmDelete = ""
		m.statusMsg = ""
		return m, nil
	}
	return m, nil
}

// switchView changes the active screen and kicks off its first-page load
// (a no-op when the cache already holds the list)
func (m Model) switchView(view View) (tea.Model, tea.Cmd) {
	m.view = view
	m.list.SetTitle(view.Title())
	m.statusMsg = ""
	m.refreshList()
	return m, tea.Batch(m.loadCmd(view), SaveLastViewCmd(m.hist, view))
}

// openSelected drills into the selected entry where that makes sense
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	if m.view != ViewPeople {
		return m, nil
	}
	selected := m.list.Selected()
	if selected == nil {
		return m, nil
	}
	m.personID = selected.GetID()
	m.personName = selected.GetTitle()
	m.view = ViewPersonDetail
	m.list.SetTitle("Faces: " + m.personName)
	m.refreshList()
	return m, LoadPersonFacesCmd(m.people, m.personID)
}

// refreshCurrent drops the current view's cached list and refetches
func (m Model) refreshCurrent() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewPhotos, ViewVideos:
		m.library.InvalidateMedia(m.mediaFilter(m.view))
	case ViewDuplicates:
		m.duplicates.Invalidate()
	case ViewSearch:
		m.search.Refresh()
		m.refreshList()
		if gen, query, cursor, ok := m.search.Begin(); ok {
			return m, SearchPageCmd(m.search, gen, query, cursor)
		}
		return m, nil
	default:
		// People and face listings refresh through their services' clears;
		// a manual refresh just refetches whatever is missing
	}
	m.refreshList()
	return m, m.loadCmd(m.view)
}

// loadCmd returns the first-page load command for a view
func (m Model) loadCmd(view View) tea.Cmd {
	switch view {
	case ViewPhotos, ViewVideos:
		return LoadMediaCmd(m.library, m.mediaFilter(view), view)
	case ViewPeople:
		return LoadPeopleCmd(m.people)
	case ViewPersonDetail:
		return LoadPersonFacesCmd(m.people, m.personID)
	case ViewOrphanFaces:
		return LoadOrphanFacesCmd(m.people)
	case ViewDuplicates:
		return LoadDuplicatesCmd(m.duplicates)
	default:
		return nil
	}
}

// maybeAdvance checks the scroll sentinel after a cursor move and requests
// the next page when the selection reached the trigger zone. The signal is
// level-triggered; duplicate fires are absorbed by the cache's loading
// guard (or the pager's Begin) rather than debounced here.
func (m Model) maybeAdvance() tea.Cmd {
	if !m.sentinel.Intersecting(m.list.Cursor(), m.list.Count()) {
		return nil
	}

	switch m.view {
	case ViewPhotos, ViewVideos:
		return LoadMoreMediaCmd(m.library, m.mediaFilter(m.view), m.view)
	case ViewPeople:
		return LoadMorePeopleCmd(m.people)
	case ViewPersonDetail:
		return LoadMorePersonFacesCmd(m.people, m.personID)
	case ViewOrphanFaces:
		return LoadMoreOrphanFacesCmd(m.people)
	case ViewDuplicates:
		return LoadMoreDuplicatesCmd(m.duplicates)
	case ViewSearch:
		if gen, query, cursor, ok := m.search.Begin(); ok {
			m.refreshList()
			return SearchPageCmd(m.search, gen, query, cursor)
		}
	}
	return nil
}

// mediaFilter returns the listing filter for a media view. Search and
// detail views fall back to the photo filter for prune targeting.
func (m Model) mediaFilter(view View) domain.MediaFilter {
	filter := domain.MediaFilter{Type: "photo", Sort: m.mediaSort}
	if view == ViewVideos {
		filter.Type = "video"
	}
	return filter
}

func (m Model) viewShowsMedia() bool {
	return m.view == ViewPhotos || m.view == ViewVideos || m.view == ViewSearch
}

// faceListKey returns the cache key of the face listing under review, when
// the current view shows faces
func (m Model) faceListKey() (string, bool) {
	switch m.view {
	case ViewOrphanFaces:
		return service.KeyOrphanFaces, true
	case ViewPersonDetail:
		return service.PersonFacesKey(m.personID), true
	default:
		return "", false
	}
}

// selectedMedia resolves the cursor to the underlying media item
func (m Model) selectedMedia() *domain.MediaItem {
	cursor := m.list.Cursor()

	var items []*domain.MediaItem
	switch m.view {
	case ViewPhotos, ViewVideos:
		snap, ok := m.library.MediaSnapshot(m.mediaFilter(m.view))
		if !ok {
			return nil
		}
		items = snap.Items
	case ViewSearch:
		items = m.search.Results()
	default:
		return nil
	}

	if cursor < 0 || cursor >= len(items) {
		return nil
	}
	return items[cursor]
}

// refreshList re-reads the current view's cache snapshot into the list
// component. Called whenever a load, mutation, or view switch may have
// changed what should be on screen.
func (m *Model) refreshList() {
	switch m.view {
	case ViewPhotos, ViewVideos:
		snap, ok := m.library.MediaSnapshot(m.mediaFilter(m.view))
		m.setListFromSnapshot(toEntries(snap.Items), ok && snap.Loading, ok && snap.HasMore)
	case ViewPeople:
		snap, ok := m.people.PeopleSnapshot()
		m.setListFromSnapshot(toEntries(snap.Items), ok && snap.Loading, ok && snap.HasMore)
	case ViewPersonDetail:
		snap, ok := m.people.PersonFacesSnapshot(m.personID)
		m.setListFromSnapshot(toEntries(snap.Items), ok && snap.Loading, ok && snap.HasMore)
	case ViewOrphanFaces:
		snap, ok := m.people.OrphanFacesSnapshot()
		m.setListFromSnapshot(toEntries(snap.Items), ok && snap.Loading, ok && snap.HasMore)
	case ViewSearch:
		m.setListFromSnapshot(toEntries(m.search.Results()), m.search.Loading(), m.search.HasMore())
	case ViewDuplicates:
		snap, ok := m.duplicates.GroupsSnapshot()
		m.setListFromSnapshot(toEntries(snap.Items), ok && snap.Loading, ok && snap.HasMore)
	}
}

func (m *Model) setListFromSnapshot(entries []domain.ListEntry, loading, hasMore bool) {
	m.list.SetItems(entries)
	m.list.SetPageState(loading, hasMore)
}

// toEntries widens a typed snapshot slice to the list's display interface
func toEntries[T domain.ListEntry](items []T) []domain.ListEntry {
	entries := make([]domain.ListEntry, len(items))
	for i, item := range items {
		entries[i] = item
	}
	return entries
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsErr = isErr
}

// View renders the application
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := []View{ViewPhotos, ViewVideos, ViewPeople, ViewOrphanFaces, ViewDuplicates}
	parts := make([]string, 0, len(tabs)+1)
	for _, v := range tabs {
		style := styles.TabStyle
		if v == m.view || (v == ViewPeople && m.view == ViewPersonDetail) {
			style = styles.ActiveTabStyle
		}
		parts = append(parts, style.Render(v.Title()))
	}
	if m.view == ViewSearch {
		parts = append(parts, styles.ActiveTabStyle.Render("Search"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderFooter() string {
	if m.mode != inputNone {
		return m.input.View()
	}
	if m.statusMsg != "" {
		if m.statusIsErr {
			return styles.ErrorStyle.Render(m.statusMsg)
		}
		return styles.SuccessStyle.Render(m.statusMsg)
	}
	return styles.DimStyle.Render(m.helpLine())
}

func (m Model) helpLine() string {
	switch m.view {
	case ViewPeople:
		return "enter open · m merge · n rename · / search · r refresh · q quit"
	case ViewPersonDetail:
		return "a assign · x detach · esc back · q quit"
	case ViewOrphanFaces:
		return "a assign · / search · q quit"
	case ViewDuplicates:
		return "l keep largest · o keep oldest · i ignore · r refresh · q quit"
	case ViewSearch:
		return "d delete · f favorite · esc back · q quit"
	default:
		return "1-5 views · / search · d delete · f favorite · r refresh · q quit"
	}
}
