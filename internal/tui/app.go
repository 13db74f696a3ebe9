// ABOUTME: Root bubbletea model for the interactive marketplace client
// ABOUTME: Manages screen state, runs API calls as commands and routes input to child components

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/anuncia/anuncia-cli/internal/client"
	"github.com/anuncia/anuncia-cli/internal/session"
	"github.com/anuncia/anuncia-cli/internal/tui/icons"
	"github.com/anuncia/anuncia-cli/internal/tui/imagepicker"
	"github.com/anuncia/anuncia-cli/internal/tui/listingform"
	"github.com/anuncia/anuncia-cli/internal/tui/listings"
	"github.com/anuncia/anuncia-cli/internal/tui/loginform"
	"github.com/anuncia/anuncia-cli/internal/tui/menu"
	"github.com/anuncia/anuncia-cli/internal/tui/profile"
	"github.com/anuncia/anuncia-cli/internal/tui/recentfiles"
	"github.com/anuncia/anuncia-cli/internal/tui/styles"
	"github.com/anuncia/anuncia-cli/internal/tui/widgets"
	"github.com/anuncia/anuncia-cli/internal/validation"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenListings
	ScreenListingForm
	ScreenImagePicker
	ScreenProfile
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum frame width
	panelPadding     = 4  // Horizontal padding from panel borders
)

var (
	errSessionNotSaved = errors.New("Não foi possível salvar a sessão.")
	errNoUserID        = errors.New("Não foi possível identificar o usuário. Atualize e tente novamente.")
)

// loginDoneMsg is sent when the login request finishes
type loginDoneMsg struct {
	email string
	auth  *client.AuthResponse
	err   error
}

// homeLoadedMsg is sent when profile and listings are loaded
type homeLoadedMsg struct {
	user     *client.User
	listings []client.Listing
	err      error
}

// statusChangedMsg is sent when a listing is sold or deactivated
type statusChangedMsg struct {
	kind    listings.ActionKind
	listing *client.Listing
	err     error
}

// listingSavedMsg is sent when the wizard's request finishes
type listingSavedMsg struct {
	listing *client.Listing
	created bool
	err     error
}

// imageUploadedMsg is sent when an image upload finishes
type imageUploadedMsg struct {
	listingID int64
	path      string
	image     string
	err       error
}

// profileSavedMsg is sent when a profile update finishes
type profileSavedMsg struct {
	user *client.User
	err  error
}

// App is the root model for the TUI
type App struct {
	ctx    context.Context
	client *client.Client
	store  *session.Store
	recent *recentfiles.RecentFiles
	log    *slog.Logger

	screen     Screen
	width      int
	height     int
	err        string
	notice     string
	loading    bool
	uploading  bool
	spinner    spinner.Model
	lastUpdate time.Time

	user         *client.User
	userListings []client.Listing

	// Child models
	login        *loginform.Form
	menu         *menu.Menu
	listingsView *listings.Model
	wizard       *listingform.Wizard
	wizardReturn Screen
	picker       *imagepicker.Picker
	pickerTarget client.Listing
	profileView  *profile.Model
}

// New creates the application. A valid stored session skips the login screen.
func New(ctx context.Context, apiClient *client.Client, store *session.Store, recent *recentfiles.RecentFiles) *App {
	a := &App{
		ctx:    ctx,
		client: apiClient,
		store:  store,
		recent: recent,
		log:    slog.Default(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
		),
	}

	if store.IsValid() {
		a.screen = ScreenHome
		a.menu = menu.New()
		a.loading = true
	} else {
		a.screen = ScreenLogin
		a.login = loginform.New("")
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenHome {
		return tea.Batch(a.menu.Init(), a.spinner.Tick, a.loadHome())
	}
	return a.login.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.listingsView != nil {
			a.listingsView.SetSize(a.contentWidth(), a.height)
		}
		if a.picker != nil {
			a.picker.Update(msg)
		}
		if a.wizard != nil {
			return a.updateWizard(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""

		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenHome:
			return a.updateHome(msg)
		case ScreenListings:
			return a.updateListings(msg)
		case ScreenListingForm:
			return a.updateWizard(msg)
		case ScreenImagePicker:
			return a.updatePicker(msg)
		case ScreenProfile:
			return a.updateProfile(msg)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading && !a.uploading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case loginform.SubmitMsg:
		return a, a.doLogin(msg.Email, msg.Password)

	case loginform.CancelledMsg:
		return a, tea.Quit

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case homeLoadedMsg:
		return a.handleHomeLoaded(msg)

	case menu.SelectedMsg:
		return a.handleMenu(msg.Action)

	case listings.ActionMsg:
		return a.handleListingAction(msg)

	case listings.BackMsg:
		a.screen = ScreenHome
		return a, nil

	case statusChangedMsg:
		return a.handleStatusChanged(msg)

	case listingform.CompleteMsg:
		if !a.store.IsValid() {
			return a.expire()
		}
		return a, a.saveListing(msg)

	case listingform.CancelledMsg:
		a.wizard = nil
		a.screen = a.wizardReturn
		return a, nil

	case listingSavedMsg:
		return a.handleListingSaved(msg)

	case imagepicker.ImageSelectedMsg:
		if !a.store.IsValid() {
			return a.expire()
		}
		a.uploading = true
		return a, tea.Batch(a.spinner.Tick, a.uploadImage(a.pickerTarget, msg.Path))

	case imagepicker.CancelledMsg:
		a.picker = nil
		a.screen = ScreenListings
		return a, nil

	case imageUploadedMsg:
		return a.handleImageUploaded(msg)

	case profile.SaveMsg:
		if !a.store.IsValid() {
			return a.expire()
		}
		return a, a.saveProfile(msg.Request)

	case profile.BackMsg:
		a.profileView = nil
		a.screen = ScreenHome
		return a, nil

	case profileSavedMsg:
		return a.handleProfileSaved(msg)

	default:
		// huh forms need their internal messages
		return a.forward(msg)
	}
}

// forward hands non-key messages to the active component.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.login != nil {
			_, cmd = a.login.Update(msg)
		}
	case ScreenHome:
		if a.menu != nil {
			_, cmd = a.menu.Update(msg)
		}
	case ScreenListingForm:
		return a.updateWizard(msg)
	case ScreenProfile:
		if a.profileView != nil && a.profileView.Editing() {
			_, cmd = a.profileView.Update(msg)
		}
	}
	return a, cmd
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.login == nil {
		return a, nil
	}
	model, cmd := a.login.Update(msg)
	a.login = model.(*loginform.Form)
	return a, cmd
}

func (a *App) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return a, tea.Quit
	}
	if a.loading || a.menu == nil {
		return a, nil
	}
	a.err = ""
	model, cmd := a.menu.Update(msg)
	a.menu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updateListings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return a, tea.Quit
	}
	if a.listingsView == nil {
		return a, nil
	}
	model, cmd := a.listingsView.Update(msg)
	a.listingsView = model.(*listings.Model)
	return a, cmd
}

func (a *App) updateWizard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.wizard == nil {
		return a, nil
	}
	model, cmd := a.wizard.Update(msg)
	a.wizard = model.(*listingform.Wizard)
	return a, cmd
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.picker == nil || a.uploading {
		return a, nil
	}
	model, cmd := a.picker.Update(msg)
	a.picker = model.(*imagepicker.Picker)
	return a, cmd
}

func (a *App) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.profileView == nil {
		return a, nil
	}
	if msg.String() == "q" && !a.profileView.Editing() {
		return a, tea.Quit
	}
	model, cmd := a.profileView.Update(msg)
	a.profileView = model.(*profile.Model)
	return a, cmd
}

// toLogin resets user state and shows the login screen, with msg as an
// inline error when given.
func (a *App) toLogin(msg string) (tea.Model, tea.Cmd) {
	email := ""
	if a.user != nil {
		email = a.user.Email
	}
	a.user = nil
	a.userListings = nil
	a.listingsView = nil
	a.wizard = nil
	a.picker = nil
	a.profileView = nil
	a.loading = false
	a.uploading = false
	a.err = ""
	a.screen = ScreenLogin
	a.login = loginform.New(email)
	if msg != "" {
		return a, a.login.SetError(msg)
	}
	return a, a.login.Init()
}

// expire drops the stored session and asks the user to log in again.
func (a *App) expire() (tea.Model, tea.Cmd) {
	a.log.Info("session expired")
	a.store.Clear()
	return a.toLogin(session.ErrNoSession.Error())
}

// sessionRejected reports whether err means the token is no longer accepted.
func sessionRejected(err error) bool {
	return errors.Is(err, session.ErrNoSession) || client.IsStatus(err, http.StatusUnauthorized)
}

func (a *App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.Debug("login failed", "error", msg.err)
		return a, a.login.SetError(msg.err.Error())
	}
	if !a.store.Save(msg.auth.Token, session.Profile{Name: msg.auth.DisplayName, Email: msg.email}) {
		return a, a.login.SetError(errSessionNotSaved.Error())
	}

	a.log.Info("logged in", "email", msg.email)
	a.login = nil
	a.screen = ScreenHome
	a.menu = menu.New()
	a.loading = true
	return a, tea.Batch(a.menu.Init(), a.spinner.Tick, a.loadHome())
}

func (a *App) handleHomeLoaded(msg homeLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		if sessionRejected(msg.err) {
			return a.expire()
		}
		a.err = msg.err.Error()
		if a.listingsView != nil {
			a.listingsView.SetError(a.err)
		}
		return a, nil
	}

	a.err = ""
	a.user = msg.user
	a.userListings = msg.listings
	a.lastUpdate = time.Now()
	a.store.UpdateProfile(msg.user.Snapshot())
	if a.listingsView != nil {
		a.listingsView.SetListings(a.userListings)
	}
	a.log.Debug("home loaded", "user", msg.user.ID, "listings", len(msg.listings))
	return a, nil
}

func (a *App) handleMenu(action menu.Action) (tea.Model, tea.Cmd) {
	if action == menu.ActionQuit {
		return a, tea.Quit
	}
	if action == menu.ActionLogout {
		a.store.Clear()
		a.log.Info("logged out")
		model, cmd := a.toLogin("")
		a.notice = "Sessão encerrada."
		return model, cmd
	}
	if !a.store.IsValid() {
		return a.expire()
	}

	switch action {
	case menu.ActionListings:
		a.listingsView = listings.New(a.userListings)
		a.listingsView.SetSize(a.contentWidth(), a.height)
		a.screen = ScreenListings
		return a, nil
	case menu.ActionNewListing:
		return a.openWizard(listingform.New(), ScreenHome)
	case menu.ActionProfile:
		a.profileView = profile.New(a.user)
		a.screen = ScreenProfile
		return a, nil
	case menu.ActionRefresh:
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.loadHome())
	}
	return a, nil
}

func (a *App) openWizard(w *listingform.Wizard, returnTo Screen) (tea.Model, tea.Cmd) {
	a.wizard = w
	a.wizardReturn = returnTo
	a.screen = ScreenListingForm
	if a.width > 0 {
		a.wizard.Update(tea.WindowSizeMsg{Width: a.width - 1, Height: a.height})
	}
	return a, a.wizard.Init()
}

func (a *App) handleListingAction(msg listings.ActionMsg) (tea.Model, tea.Cmd) {
	if !a.store.IsValid() {
		return a.expire()
	}

	switch msg.Kind {
	case listings.ActionSold, listings.ActionDeactivate:
		a.listingsView.SetBusy(true)
		return a, a.changeStatus(msg.Kind, msg.Listing)
	case listings.ActionEdit:
		return a.openWizard(listingform.NewEdit(msg.Listing), ScreenListings)
	case listings.ActionNew:
		return a.openWizard(listingform.New(), ScreenListings)
	case listings.ActionImage:
		a.pickerTarget = msg.Listing
		a.picker = imagepicker.New(msg.Listing.Name, a.recent.List())
		a.picker.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		a.screen = ScreenImagePicker
		return a, nil
	case listings.ActionRefresh:
		a.listingsView.SetBusy(true)
		a.loading = true
		return a, tea.Batch(a.spinner.Tick, a.loadHome())
	}
	return a, nil
}

func (a *App) handleStatusChanged(msg statusChangedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if sessionRejected(msg.err) {
			return a.expire()
		}
		if a.listingsView != nil {
			a.listingsView.SetError(msg.err.Error())
		}
		return a, nil
	}

	a.replaceListing(*msg.listing)
	if a.listingsView != nil {
		a.listingsView.SetListings(a.userListings)
		verb := "desativado"
		if msg.kind == listings.ActionSold {
			verb = "marcado como vendido"
		}
		a.listingsView.SetNotice(fmt.Sprintf("Anúncio #%d %s.", msg.listing.ID, verb))
	}
	return a, nil
}

func (a *App) handleListingSaved(msg listingSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if sessionRejected(msg.err) {
			return a.expire()
		}
		if a.wizard != nil {
			return a, a.wizard.SetError(msg.err.Error())
		}
		return a, nil
	}

	a.replaceListing(*msg.listing)
	a.wizard = nil
	if a.listingsView == nil {
		a.listingsView = listings.New(a.userListings)
		a.listingsView.SetSize(a.contentWidth(), a.height)
	} else {
		a.listingsView.SetListings(a.userListings)
	}
	if msg.created {
		a.listingsView.SetNotice(fmt.Sprintf("Anúncio #%d criado.", msg.listing.ID))
	} else {
		a.listingsView.SetNotice(fmt.Sprintf("Anúncio #%d atualizado.", msg.listing.ID))
	}
	a.screen = ScreenListings
	return a, nil
}

func (a *App) handleImageUploaded(msg imageUploadedMsg) (tea.Model, tea.Cmd) {
	a.uploading = false
	if msg.err != nil {
		if sessionRejected(msg.err) {
			return a.expire()
		}
		if a.picker != nil {
			a.picker.SetError(msg.err.Error())
		}
		return a, nil
	}

	if err := a.recent.Add(msg.path); err != nil {
		a.log.Warn("could not save recent images", "error", err)
	}
	for i := range a.userListings {
		if a.userListings[i].ID == msg.listingID {
			a.userListings[i].Image = msg.image
		}
	}
	a.picker = nil
	a.screen = ScreenListings
	if a.listingsView != nil {
		a.listingsView.SetListings(a.userListings)
		a.listingsView.SetNotice(fmt.Sprintf("Imagem enviada para o anúncio #%d.", msg.listingID))
	}
	return a, nil
}

func (a *App) handleProfileSaved(msg profileSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if sessionRejected(msg.err) {
			return a.expire()
		}
		if a.profileView != nil {
			return a, a.profileView.SetError(msg.err.Error())
		}
		return a, nil
	}

	a.user = msg.user
	a.store.UpdateProfile(msg.user.Snapshot())
	if a.profileView != nil {
		a.profileView.SetUser(msg.user, "Perfil atualizado.")
	}
	return a, nil
}

// replaceListing updates l in place, or appends it when new.
func (a *App) replaceListing(l client.Listing) {
	for i := range a.userListings {
		if a.userListings[i].ID == l.ID {
			a.userListings[i] = l
			return
		}
	}
	a.userListings = append(a.userListings, l)
}

// userID returns the logged-in user's id, or 0 when unknown.
func (a *App) userID() int64 {
	if a.user != nil && a.user.ID != 0 {
		return a.user.ID
	}
	if p := a.store.Read(); p != nil {
		return p.ID
	}
	return 0
}

// doLogin creates a command that sends the credentials
func (a *App) doLogin(email, password string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		auth, err := a.client.Login(ctx, email, password)
		return loginDoneMsg{email: email, auth: auth, err: err}
	}
}

// loadHome creates a command that fetches the profile and the listings.
// With a cached user id both requests run in parallel.
func (a *App) loadHome() tea.Cmd {
	ctx := a.ctx
	cachedID := a.userID()
	return func() tea.Msg {
		if cachedID == 0 {
			user, err := a.client.GetCurrentUser(ctx)
			if err != nil {
				return homeLoadedMsg{err: err}
			}
			items, err := a.client.ListUserListings(ctx, user.ID)
			return homeLoadedMsg{user: user, listings: items, err: err}
		}

		var (
			user  *client.User
			items []client.Listing
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = a.client.GetCurrentUser(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			items, err = a.client.ListUserListings(gctx, cachedID)
			return err
		})
		if err := g.Wait(); err != nil {
			return homeLoadedMsg{err: err}
		}
		return homeLoadedMsg{user: user, listings: items}
	}
}

// changeStatus creates a command that sells or deactivates l
func (a *App) changeStatus(kind listings.ActionKind, l client.Listing) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		var (
			updated *client.Listing
			err     error
		)
		if kind == listings.ActionSold {
			updated, err = a.client.MarkListingSold(ctx, l.ID)
		} else {
			updated, err = a.client.DeactivateListing(ctx, l.ID)
		}
		return statusChangedMsg{kind: kind, listing: updated, err: err}
	}
}

// saveListing creates a command that sends the wizard's request
func (a *App) saveListing(msg listingform.CompleteMsg) tea.Cmd {
	ctx := a.ctx
	ownerID := a.userID()
	return func() tea.Msg {
		if msg.Create == nil {
			if err := validation.Struct(msg.Update); err != nil {
				return listingSavedMsg{err: err}
			}
			l, err := a.client.UpdateListing(ctx, msg.ID, msg.Update)
			return listingSavedMsg{listing: l, err: err}
		}

		if err := validation.Struct(msg.Create); err != nil {
			return listingSavedMsg{err: err}
		}
		if ownerID == 0 {
			return listingSavedMsg{err: errNoUserID}
		}
		l, err := a.client.CreateListing(ctx, ownerID, msg.Create)
		return listingSavedMsg{listing: l, created: true, err: err}
	}
}

// uploadImage creates a command that uploads the file at path for l
func (a *App) uploadImage(l client.Listing, path string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return imageUploadedMsg{err: fmt.Errorf("Não foi possível abrir a imagem: %w", err)}
		}
		defer f.Close()

		res, err := a.client.UploadListingImage(ctx, l.ID, filepath.Base(path), f)
		if err != nil {
			return imageUploadedMsg{err: err}
		}
		return imageUploadedMsg{listingID: l.ID, path: path, image: res.Image}
	}
}

// saveProfile creates a command that sends the profile update
func (a *App) saveProfile(req client.UpdateUserRequest) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		if err := validation.Struct(req); err != nil {
			return profileSavedMsg{err: err}
		}
		user, err := a.client.UpdateCurrentUser(ctx, req)
		return profileSavedMsg{user: user, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenHome:
		content = a.viewHome()
	case ScreenListings:
		if a.listingsView != nil {
			content = a.listingsView.View()
		}
	case ScreenListingForm:
		if a.wizard != nil {
			content = a.wizard.View()
		}
	case ScreenImagePicker:
		content = a.viewPicker()
	case ScreenProfile:
		if a.profileView != nil {
			content = a.profileView.View()
		}
	}

	if a.notice != "" {
		content += "\n" + styles.Success.Render(a.notice)
	}
	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.login == nil {
		return ""
	}
	return styles.Panel.Width(min(a.contentWidth(), 64)).Render(a.login.View())
}

func (a *App) viewPicker() string {
	if a.picker == nil {
		return ""
	}
	if a.uploading {
		return a.picker.View() + "\n\n" + a.spinner.View() + " Enviando imagem..."
	}
	return a.picker.View()
}

// viewHome renders the summary next to the action menu
func (a *App) viewHome() string {
	left := styles.Panel.Width(a.summaryWidth()).Render(a.renderSummary())

	menuView := ""
	if a.menu != nil {
		menuView = a.menu.View()
	}
	right := styles.ActivePanel.Width(a.menuWidth()).Render(menuView)

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	if a.err != "" {
		content += "\n" + styles.Error.Render("Erro: "+a.err)
	}
	return content
}

func (a *App) renderSummary() string {
	var b strings.Builder

	if a.user == nil {
		b.WriteString(styles.Title.Render(icons.User.String() + " Minha conta"))
		b.WriteString("\n")
		if a.loading {
			b.WriteString(a.spinner.View() + " Carregando...")
		}
		return b.String()
	}

	u := a.user
	b.WriteString(styles.Title.Render(icons.User.String() + " Olá, " + firstName(u.Name)))
	b.WriteString("\n")
	place := u.City
	if u.State != "" {
		place = strings.Trim(place+"/"+u.State, "/")
	}
	b.WriteString(strings.Join([]string{
		styles.Field("E-mail", u.Email),
		styles.Field("Telefone", u.Phone),
		styles.Field("Cidade", place),
	}, "\n"))
	b.WriteString("\n\n")

	counts := client.CountByStatus(a.userListings)
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s %d anúncios", icons.Listing.String(), len(a.userListings))))
	b.WriteString("\n")
	for _, s := range []client.Status{client.StatusActive, client.StatusSold, client.StatusInactive} {
		fmt.Fprintf(&b, "%s %d\n", widgets.StatusBadge(s), counts[s])
	}

	if a.loading {
		b.WriteString("\n" + a.spinner.View() + " Atualizando...")
	}
	return strings.TrimRight(b.String(), "\n")
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "vendedor"
}

// frameWidth is the terminal width less one column, never below the minimum
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

func (a *App) contentWidth() int {
	return a.frameWidth() - panelPadding
}

func (a *App) summaryWidth() int {
	return a.contentWidth() / 2
}

func (a *App) menuWidth() int {
	return a.contentWidth() - a.summaryWidth() - panelPadding
}

// renderHeader creates the header bar with app branding and the user name
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Anúncia"))
	right := ""
	if a.user != nil && a.screen != ScreenLogin {
		right = " " + contextStyle.Render(a.user.Name) + " "
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╭─" + left + strings.Repeat("─", fill) + right + "─╮")
}

// shortcuts returns the footer key hints for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Próximo", "Enter Entrar", "Esc Sair"}
	case ScreenHome:
		return []string{"↑↓ Navegar", "Enter Selecionar", "q Sair"}
	case ScreenListings:
		return []string{"s Vendido", "d Desativar", "e Editar", "i Imagem", "n Novo", "r Atualizar", "b Voltar"}
	case ScreenListingForm:
		return []string{"Tab Próximo", "Enter Confirmar", "Esc Cancelar"}
	case ScreenImagePicker:
		return []string{"↑↓ Navegar", "Enter Selecionar", "Esc Voltar"}
	case ScreenProfile:
		if a.profileView != nil && a.profileView.Editing() {
			return []string{"Tab Próximo", "Enter Salvar", "Esc Cancelar"}
		}
		return []string{"e Editar", "b Voltar", "q Sair"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and the last refresh
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var styled []string
	for _, s := range a.shortcuts() {
		key, label, _ := strings.Cut(s, " ")
		styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	left := " " + strings.Join(styled, "  ") + " "

	right := ""
	if !a.lastUpdate.IsZero() && (a.screen == ScreenHome || a.screen == ScreenListings) {
		right = " " + statusStyle.Render("Atualizado "+formatTimeSince(time.Since(a.lastUpdate))) + " "
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╰─" + left + strings.Repeat("─", fill) + right + "─╯")
}

// formatTimeSince formats an elapsed duration in short form
func formatTimeSince(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "agora"
	case d < time.Minute:
		return fmt.Sprintf("há %ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("há %dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("há %dh", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

// Run starts the TUI and blocks until the user quits
func Run(ctx context.Context, apiClient *client.Client, store *session.Store, recent *recentfiles.RecentFiles) error {
	app := New(ctx, apiClient, store, recent)
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
