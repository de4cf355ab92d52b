package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cineconnect-cli/booking"
	"cineconnect-cli/catalog"
	"cineconnect-cli/config"
	"cineconnect-cli/logging"
	"cineconnect-cli/model"
	"cineconnect-cli/service"
	"cineconnect-cli/session"
	"cineconnect-cli/store"
)

type appState int

const (
	stateLoadingMovies appState = iota
	stateSelectMovie
	stateLoadingShowtimes
	stateSelectShowtime
	stateSelectDate
	stateLoadingSeats
	stateSelectSeats
	statePayment
	stateSubmitting
	stateConfirmed
	stateError
)

// Deps is what the TUI needs from the process. Zero fields get defaults.
type Deps struct {
	Client  *service.Client
	Session *session.Session
	Config  config.Config
	Log     logrus.FieldLogger
}

type appModel struct {
	client  *service.Client
	session *session.Session
	cfg     config.Config
	log     logrus.FieldLogger
	now     func() time.Time

	state     appState
	lastState appState
	err       error
	retry     appState
	canRetry  bool

	width  int
	height int

	movies    []model.Movie
	genres    []string
	genre     string
	recent    map[string]bool
	showtimes []model.Showtime
	rooms     []model.Room
	date      string

	movie    model.Movie
	showtime model.Showtime

	movieList    list.Model
	showtimeList list.Model
	dateList     list.Model

	flow            *booking.Flow
	cursor          seatCursor
	seatNotice      string
	showSeatNumbers bool

	inputs        []textinput.Model
	focus         int
	formErr       *booking.ValidationError
	paymentNotice string
	receiptNote   string

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
	retryState     appState
	retryable      bool
}

type moviesMsg struct {
	movies []model.Movie
	err    error
}

type genresMsg struct {
	genres []string
	err    error
}

type showtimesMsg struct {
	showtimes []model.Showtime
	rooms     []model.Room
	err       error
}

type seatsMsg struct {
	showtime     model.Showtime
	reservations booking.ReservationSnapshot
	err          error
}

type reservationsMsg struct {
	reservations booking.ReservationSnapshot
	err          error
}

type bookingMsg struct {
	booking model.Booking
	err     error
}

type receiptMsg struct {
	receipt model.Receipt
	err     error
}

func New(deps Deps) tea.Model {
	client := deps.Client
	if client == nil {
		client = service.NewClient(nil)
	}
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}
	m := appModel{
		client:  client,
		session: deps.Session,
		cfg:     deps.Config,
		log:     log,
		now:     time.Now,
		state:   stateLoadingMovies,
		recent:  map[string]bool{},
	}

	m.movieList = newList("Select Movie")
	m.showtimeList = newList("Showtimes")
	m.dateList = newList("Select Date")
	m.showSeatNumbers = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchMoviesCmd(), m.fetchGenresCmd(), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var handled bool
		m, cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.retry = msg.retryState
		m.canRetry = msg.retryable
		m.state = stateError
		return m, nil

	case moviesMsg:
		if msg.err != nil {
			return m, retryCmd(msg.err, stateSelectMovie, stateLoadingMovies)
		}
		m.movies = catalog.FilterShowcase(msg.movies, "")
		if recent, err := store.LoadRecentMovies(); err == nil {
			m.recent = make(map[string]bool, len(recent))
			for _, r := range recent {
				m.recent[r.ID] = true
			}
		}
		if len(m.genres) == 0 {
			m.genres = catalog.AvailableGenres(m.movies)
		}
		m.refreshMovieList()
		m.state = stateSelectMovie
		return m, nil

	case genresMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Debug("genre list unavailable, deriving from movies")
			return m, nil
		}
		m.genres = msg.genres
		return m, nil

	case showtimesMsg:
		if msg.err != nil {
			return m, retryCmd(msg.err, stateSelectMovie, stateLoadingShowtimes)
		}
		m.showtimes = msg.showtimes
		m.rooms = msg.rooms
		m.date = ""
		m.refreshShowtimeList()
		if len(m.showtimeList.Items()) == 0 {
			return m, errWithReturnCmd(fmt.Errorf("no upcoming showtimes for %s", m.movie.Title), stateSelectMovie)
		}
		m.showtimeList.Select(0)
		m.state = stateSelectShowtime
		return m, nil

	case seatsMsg:
		if msg.err != nil {
			return m, retryCmd(msg.err, stateSelectShowtime, stateLoadingSeats)
		}
		m.openFlow(msg.showtime, msg.reservations)
		m.state = stateSelectSeats
		return m, nil

	case reservationsMsg:
		if m.flow == nil || m.state != stateSelectSeats {
			return m, nil
		}
		if msg.err != nil {
			m.seatNotice = msg.err.Error()
			return m, nil
		}
		dropped, err := m.flow.Refresh(msg.reservations)
		if err != nil {
			m.seatNotice = err.Error()
			return m, nil
		}
		m.seatNotice = "Seat availability refreshed."
		if len(dropped) > 0 {
			m.seatNotice = fmt.Sprintf("No longer available, removed from your selection: %s", strings.Join(dropped, ", "))
		}
		return m, nil

	case bookingMsg:
		return m.finishSubmission(msg)

	case receiptMsg:
		if msg.err != nil {
			m.receiptNote = service.UserMessage(msg.err)
			return m, nil
		}
		m.receiptNote = "Receipt: " + msg.receipt.DownloadURL
		return m, openURLCmd(msg.receipt.DownloadURL)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectMovie:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateSelectShowtime:
		m.showtimeList, cmd = m.showtimeList.Update(msg)
	case stateSelectDate:
		m.dateList, cmd = m.dateList.Update(msg)
	case statePayment:
		return m.updatePaymentInput(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingMovies, stateLoadingShowtimes, stateLoadingSeats, stateSubmitting:
		return header + "\n\n" + m.loadingView()
	case stateSelectMovie:
		return header + "\n\n" + m.movieList.View()
	case stateSelectShowtime:
		return header + "\n\n" + m.showtimeList.View()
	case stateSelectDate:
		return header + "\n\n" + m.dateList.View()
	case stateSelectSeats:
		return header + "\n\n" + m.renderSeatMap()
	case statePayment:
		return header + "\n\n" + m.paymentView()
	case stateConfirmed:
		return header + "\n\n" + m.confirmationView()
	case stateError:
		if m.canRetry {
			return header + "\n\n" + m.errorRecoveryView()
		}
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(service.UserMessage(m.err)) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("CineConnect")
	sub := []string{}
	if m.session != nil {
		if user, ok := m.session.User(); ok {
			sub = append(sub, fmt.Sprintf("User: %s", user.Email))
		} else {
			sub = append(sub, "Not logged in")
		}
	}
	if m.genre != "" && m.state == stateSelectMovie {
		sub = append(sub, fmt.Sprintf("Genre: %s", m.genre))
	}
	if m.movie.Title != "" && m.state != stateSelectMovie && m.state != stateLoadingMovies {
		sub = append(sub, fmt.Sprintf("Movie: %s", m.movie.Title))
	}
	if m.date != "" && (m.state == stateSelectShowtime || m.state == stateSelectDate) {
		sub = append(sub, fmt.Sprintf("Date: %s", m.date))
	}
	if m.flow != nil && (m.state == stateSelectSeats || m.state == statePayment || m.state == stateSubmitting) {
		st := m.flow.Showtime()
		sub = append(sub, fmt.Sprintf("Showtime: %s %s", st.Date, clockLabel(st.Time)))
		if st.Room != nil && st.Room.Name != "" {
			sub = append(sub, fmt.Sprintf("Room: %s", st.Room.Name))
		}
		sub = append(sub, fmt.Sprintf("Step: %s", m.flow.Step()))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back • type to filter"
	switch m.state {
	case stateSelectMovie:
		hints = "ctrl+c quit • type to filter • enter showtimes • ctrl+g cycle genre"
	case stateSelectShowtime:
		hints = "ctrl+c quit • esc back • type to filter • enter pick seats • ctrl+d pick date"
	case stateSelectDate:
		hints = "ctrl+c quit • esc back • enter select date"
	case stateSelectSeats:
		hints = "ctrl+c quit • esc back • arrows move • space toggle • enter pay • ctrl+r refresh • n toggle numbers"
	case statePayment:
		hints = "ctrl+c quit • esc seats • tab next field • enter confirm purchase"
	case stateConfirmed:
		hints = "ctrl+c quit • r open receipt • esc new booking"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) errorRecoveryView() string {
	headerChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2)
	actionChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Width(8).
		Align(lipgloss.Center).
		Padding(0, 1)

	title := headerChip.Render("Something went wrong")
	message := lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")).
		Bold(true).
		Render(service.UserMessage(m.err))
	sub := ""
	if errors.Is(m.err, booking.ErrReservationsUnavailable) {
		sub = hint("Seat selection stays blocked until the reserved seats can be loaded.")
	}

	retryAction := lipgloss.JoinHorizontal(
		lipgloss.Top,
		actionChip.Render("ENTER"),
		"  ",
		lipgloss.NewStyle().Bold(true).Render("Try again"),
	)
	footer := hint("ESC back • CTRL+C quit")

	lines := []string{title, "", message, ""}
	if sub != "" {
		lines = append(lines, sub, "")
	}
	lines = append(lines, retryAction, "", footer)
	content := strings.Join(lines, "\n")

	panelStyle := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		MarginTop(1)
	if m.width > 56 {
		cardWidth := m.width - 8
		if cardWidth > 84 {
			cardWidth = 84
		}
		panelStyle = panelStyle.Width(cardWidth)
	}
	panel := panelStyle.Render(content)
	if m.width > 0 {
		panel = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(panel)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.state == statePayment {
		return m.handlePaymentKey(msg)
	}
	if m.state == stateSelectSeats {
		if next, cmd, handled := m.handleSeatKey(msg); handled {
			return next, cmd, true
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	case "ctrl+g":
		if m.state == stateSelectMovie {
			m.genre = nextGenre(m.genres, m.genre)
			m.refreshMovieList()
			return m, nil, true
		}
	case "ctrl+d":
		if m.state == stateSelectShowtime {
			m.dateList.SetItems(buildDateItems(m.upcomingShowtimes(allDates), m.date, m.now().Format(time.DateOnly)))
			m.state = stateSelectDate
			return m, nil, true
		}
	case "r":
		if m.state == stateConfirmed {
			return m, m.fetchReceiptCmd(), true
		}
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateError:
			if m.canRetry {
				m.state = m.retry
				m.canRetry = false
				return m, tea.Batch(m.reloadCmd(m.retry), m.spinner.Tick), true
			}
		case stateSelectMovie:
			item, ok := m.movieList.SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.movie = item.movie
			if err := store.RememberMovie(m.movie); err != nil {
				m.log.WithError(err).Debug("could not save movie history")
			}
			m.state = stateLoadingShowtimes
			return m, tea.Batch(m.fetchShowtimesCmd(m.movie.Id), m.spinner.Tick), true
		case stateSelectShowtime:
			item, ok := m.showtimeList.SelectedItem().(showtimeItem)
			if !ok {
				return m, nil, true
			}
			m.showtime = item.showtime
			m.state = stateLoadingSeats
			return m, tea.Batch(m.fetchSeatsCmd(m.showtime.Id), m.spinner.Tick), true
		case stateSelectDate:
			item, ok := m.dateList.SelectedItem().(dateItem)
			if !ok {
				return m, nil, true
			}
			m.date = item.date
			m.refreshShowtimeList()
			m.showtimeList.Select(0)
			m.state = stateSelectShowtime
			return m, nil, true
		}
	}
	return m, nil, false
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateSelectShowtime:
		m.state = stateSelectMovie
	case stateSelectDate:
		m.state = stateSelectShowtime
	case stateSelectSeats:
		m.flow = nil
		m.seatNotice = ""
		m.state = stateSelectShowtime
	case stateConfirmed:
		m.flow = nil
		m.receiptNote = ""
		m.state = stateLoadingMovies
		return m, tea.Batch(m.fetchMoviesCmd(), m.spinner.Tick)
	case stateError:
		m.state = m.lastState
		m.canRetry = false
	default:
		return m, nil
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectMovie:
		return &m.movieList
	case stateSelectShowtime:
		return &m.showtimeList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingMovies ||
		m.state == stateLoadingShowtimes ||
		m.state == stateLoadingSeats ||
		m.state == stateSubmitting
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingMovies:
		title = "Loading movies"
	case stateLoadingShowtimes:
		title = "Loading showtimes"
	case stateLoadingSeats:
		title = "Loading seats"
	case stateSubmitting:
		return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), "Confirming purchase", hint("Waiting for the server..."))
	}

	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.movieList.SetSize(m.width, h)
	m.showtimeList.SetSize(m.width, h)
	m.dateList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

// retryCmd reports a fetch failure that enter can retry by going back to
// the loading state.
func retryCmd(err error, returnState appState, loading appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
			retryState:     loading,
			retryable:      true,
		}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingMovies:
		return stateSelectMovie
	case stateLoadingShowtimes:
		return stateSelectMovie
	case stateLoadingSeats:
		return stateSelectShowtime
	case stateSubmitting:
		return statePayment
	case stateError:
		return stateSelectMovie
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := openURL(url); err != nil {
			return receiptMsg{err: fmt.Errorf("open %s: %w", url, err)}
		}
		return nil
	}
}

func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("unsupported OS for opening browser: %s", runtime.GOOS)
	}
}

func (m appModel) reloadCmd(state appState) tea.Cmd {
	switch state {
	case stateLoadingMovies:
		return m.fetchMoviesCmd()
	case stateLoadingShowtimes:
		return m.fetchShowtimesCmd(m.movie.Id)
	case stateLoadingSeats:
		return m.fetchSeatsCmd(m.showtime.Id)
	default:
		return nil
	}
}

func (m appModel) fetchMoviesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		movies, _, err := m.client.ListMovies(ctx, model.MovieFilter{Status: model.MovieStatusActive, Limit: 100})
		return moviesMsg{movies: movies, err: err}
	}
}

func (m appModel) fetchGenresCmd() tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadGenreCache(); err == nil && fresh && len(cached) > 0 {
			return genresMsg{genres: cached}
		}
		ctx := context.Background()
		genres, err := m.client.ListGenres(ctx)
		if err == nil && len(genres) > 0 {
			_ = store.SaveGenreCache(genres)
		}
		return genresMsg{genres: genres, err: err}
	}
}

func (m appModel) fetchShowtimesCmd(movieID string) tea.Cmd {
	return func() tea.Msg {
		var msg showtimesMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			showtimes, _, err := m.client.ListShowtimes(ctx, model.ShowtimeFilter{MovieID: movieID, Limit: 200})
			msg.showtimes = showtimes
			return err
		})
		g.Go(func() error {
			rooms, err := m.client.ListRooms(ctx, model.RoomFilter{})
			msg.rooms = rooms
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

// fetchSeatsCmd loads the showtime and its reserved seats concurrently.
func (m appModel) fetchSeatsCmd(showtimeID string) tea.Cmd {
	policy := booking.ReservationPolicy{FailOpen: m.cfg.FailOpenReservations, Log: m.log}
	return func() tea.Msg {
		var msg seatsMsg
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			showtime, err := m.client.GetShowtime(ctx, showtimeID)
			msg.showtime = showtime
			return err
		})
		g.Go(func() error {
			snapshot, err := booking.LoadReservations(ctx, m.client, showtimeID, policy)
			msg.reservations = snapshot
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m appModel) fetchReservationsCmd(showtimeID string) tea.Cmd {
	policy := booking.ReservationPolicy{FailOpen: m.cfg.FailOpenReservations, Log: m.log}
	return func() tea.Msg {
		snapshot, err := booking.LoadReservations(context.Background(), m.client, showtimeID, policy)
		return reservationsMsg{reservations: snapshot, err: err}
	}
}

func (m appModel) submitCmd(req model.BookingRequest) tea.Cmd {
	return func() tea.Msg {
		created, err := m.client.CreateBooking(context.Background(), req)
		return bookingMsg{booking: created, err: err}
	}
}

func (m appModel) fetchReceiptCmd() tea.Cmd {
	flow := m.flow
	if flow == nil {
		return nil
	}
	return func() tea.Msg {
		receipt, err := flow.Receipt(context.Background(), m.client)
		return receiptMsg{receipt: receipt, err: err}
	}
}

func (m *appModel) refreshMovieList() {
	m.movieList.Title = "Select Movie"
	if m.genre != "" {
		m.movieList.Title = fmt.Sprintf("Select Movie • %s", m.genre)
	}
	m.movieList.SetItems(buildMovieItems(m.movies, m.genre, m.recent))
}

func (m *appModel) refreshShowtimeList() {
	m.showtimeList.Title = fmt.Sprintf("Showtimes • %s", m.movie.Title)
	m.showtimeList.SetItems(buildShowtimeItems(m.upcomingShowtimes(m.date), m.rooms))
}

func (m appModel) upcomingShowtimes(date string) []model.Showtime {
	filtered := catalog.FilterShowtimes(m.showtimes, m.rooms, catalog.ShowtimeQuery{
		Date: date,
		Now:  m.now(),
		Zone: time.Local,
	})
	return catalog.SortShowtimes(filtered)
}

func (m *appModel) openFlow(showtime model.Showtime, reservations booking.ReservationSnapshot) {
	opts := []booking.FlowOption{booking.WithFlowLogger(m.log)}
	if m.session != nil {
		if user, ok := m.session.User(); ok {
			opts = append(opts, booking.WithAccountEmail(user.Email))
		}
	}
	m.flow = booking.NewFlow(showtime, reservations, opts...)
	m.cursor = newSeatCursor(m.flow.Seats())
	m.seatNotice = ""
	m.formErr = nil
	m.inputs = nil
	if reservations.Degraded {
		m.seatNotice = "Reserved seats could not be loaded. Availability may be out of date; the server checks again at purchase."
	}
}

func nextGenre(genres []string, current string) string {
	if len(genres) == 0 {
		return ""
	}
	if current == "" {
		return genres[0]
	}
	for i, g := range genres {
		if g == current {
			if i+1 < len(genres) {
				return genres[i+1]
			}
			return ""
		}
	}
	return ""
}
